package handler

import (
	"net/http"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actingSeller resolves which seller a request acts for. Sellers act for
// themselves; an administrator must name the seller explicitly.
func actingSeller(c *gin.Context, raw string) (uuid.UUID, bool) {
	p, valid := principal(c)
	if !valid {
		return uuid.Nil, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if p.Rol != model.RolVendedor {
			c.JSON(http.StatusBadRequest, apierror.New("Debe indicar el vendedor"))
			return uuid.Nil, false
		}
		return p.ID, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Vendedor invalido"))
		return uuid.Nil, false
	}
	if p.Rol != model.RolAdministrador && id != p.ID {
		fail(c, apierror.Forbidden("No puede operar en nombre de otro vendedor"))
		return uuid.Nil, false
	}
	return id, true
}

// ── Venta al publico ─────────────────────────────────────────────────────────

type VentasHandler struct {
	ventas service.VentaPublicoService
	cargas service.CargaService
}

func NewVentasHandler(ventas service.VentaPublicoService, cargas service.CargaService) *VentasHandler {
	return &VentasHandler{ventas: ventas, cargas: cargas}
}

// CargaActiva godoc
// @Summary Carga activa del vendedor
// @Description Lineas con stock restante y las agregadas despues de marcar la carga lista. data es null sin carga activa.
// @Tags ventapublico
// @Produce json
// @Security BearerAuth
// @Param sellerId path string true "UUID del vendedor"
// @Success 200 {object} dto.OKResponse{data=dto.CargaSnapshot}
// @Failure 403 {object} apierror.APIError
// @Router /api/vendedor/ventapublico/carga-activa/{sellerId} [get]
func (h *VentasHandler) CargaActiva(c *gin.Context) {
	vendedorID, valid := actingSeller(c, c.Param("sellerId"))
	if !valid {
		return
	}
	resp, err := h.cargas.CargaActiva(c.Request.Context(), vendedorID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Vender godoc
// @Summary Venta al publico
// @Description Descuenta de la carga activa del vendedor de forma atomica: se sirven todas las lineas o ninguna.
// @Tags ventapublico
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.VenderPublicoRequest true "Venta"
// @Success 201 {object} dto.OKResponse{data=dto.VentaPublicoResponse}
// @Failure 400 {object} apierror.APIError "InvalidItem / ProductNotInLoad / Validation"
// @Failure 409 {object} apierror.APIError "NoActiveLoad / InsufficientStock"
// @Router /api/vendedor/ventapublico/vender [post]
func (h *VentasHandler) Vender(c *gin.Context) {
	var req dto.VenderPublicoRequest
	if !bindItems(c, &req, "productos") {
		return
	}
	vendedorID, valid := actingSeller(c, req.IDVendedor)
	if !valid {
		return
	}
	resp, err := h.ventas.VenderPublico(c.Request.Context(), vendedorID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	vendedorID, valid := actingSeller(c, c.Query("vendedorId"))
	if !valid {
		return
	}
	resp, err := h.ventas.ListarVentas(c.Request.Context(), vendedorID, filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// ── Devoluciones ─────────────────────────────────────────────────────────────

type DevolucionesHandler struct{ svc service.DevolucionService }

func NewDevolucionesHandler(svc service.DevolucionService) *DevolucionesHandler {
	return &DevolucionesHandler{svc: svc}
}

// Registrar godoc
// @Summary Registrar devolucion
// @Tags devoluciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarDevolucionRequest true "Devolucion"
// @Success 201 {object} dto.OKResponse{data=dto.DevolucionResponse}
// @Failure 409 {object} apierror.APIError
// @Router /api/vendedor/devoluciones [post]
func (h *DevolucionesHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarDevolucionRequest
	if !bindItems(c, &req, "productos") {
		return
	}
	vendedorID, valid := actingSeller(c, c.Query("vendedorId"))
	if !valid {
		return
	}
	resp, err := h.svc.RegistrarDevolucion(c.Request.Context(), vendedorID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// Resumen godoc
// @Summary Resumen de devoluciones por producto
// @Tags devoluciones
// @Produce json
// @Security BearerAuth
// @Param desde query string false "YYYY-MM-DD"
// @Param hasta query string false "YYYY-MM-DD"
// @Success 200 {object} dto.OKResponse{data=[]dto.ResumenDevolucionItem}
// @Router /api/devoluciones/resumen [get]
func (h *DevolucionesHandler) Resumen(c *gin.Context) {
	var filter dto.ResumenFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ResumenDevoluciones(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// ── Visitas ──────────────────────────────────────────────────────────────────

type VisitasHandler struct{ svc service.VisitaService }

func NewVisitasHandler(svc service.VisitaService) *VisitasHandler {
	return &VisitasHandler{svc: svc}
}

func (h *VisitasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVisitaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vendedorID, valid := actingSeller(c, c.Query("vendedorId"))
	if !valid {
		return
	}
	resp, err := h.svc.RegistrarVisita(c.Request.Context(), vendedorID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *VisitasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	vendedorID, valid := actingSeller(c, c.Query("vendedorId"))
	if !valid {
		return
	}
	resp, err := h.svc.ListarVisitas(c.Request.Context(), vendedorID, filter.Fecha)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
