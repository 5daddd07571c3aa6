package handler

import (
	"net/http"
	"time"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ── Camiones ─────────────────────────────────────────────────────────────────

type CamionesHandler struct{ svc service.CamionService }

func NewCamionesHandler(svc service.CamionService) *CamionesHandler {
	return &CamionesHandler{svc: svc}
}

func (h *CamionesHandler) Crear(c *gin.Context) {
	var req dto.CrearCamionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *CamionesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *CamionesHandler) Actualizar(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.ActualizarCamionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Asignar godoc
// @Summary Asignar camion a un vendedor
// @Description Quita el camion a quien lo tuviera y lo asigna al vendedor, en una sola transaccion.
// @Tags camiones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id   path string                   true "UUID del camion"
// @Param body body dto.AsignarCamionRequest true "Vendedor"
// @Success 200 {object} dto.OKResponse{data=dto.UsuarioResponse}
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/admin/camiones/{id}/asignar [post]
func (h *CamionesHandler) Asignar(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.AsignarCamionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vendedorID, _ := uuid.Parse(req.VendedorID)
	resp, err := h.svc.AsignarCamion(c.Request.Context(), id, vendedorID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// ── Clientes ─────────────────────────────────────────────────────────────────

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.ClienteFilter
	if !bindQuery(c, &filter) {
		return
	}
	clientes, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"clientes": clientes,
		"meta":     dto.PageMeta{Total: total, Page: filter.Page, Limit: filter.Limit},
	})
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.ActualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// BuscarPorQR godoc
// @Summary Buscar cliente por codigo QR
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param codigo path string true "Codigo impreso en el QR"
// @Success 200 {object} dto.OKResponse{data=dto.ClienteResponse}
// @Failure 404 {object} apierror.APIError
// @Router /api/vendedor/clientes/qr/{codigo} [get]
func (h *ClientesHandler) BuscarPorQR(c *gin.Context) {
	resp, err := h.svc.BuscarPorQR(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ClientesHandler) EstadoCuenta(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.EstadoCuenta(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// ── Descuentos ───────────────────────────────────────────────────────────────

type DescuentosHandler struct{ svc service.DescuentoService }

func NewDescuentosHandler(svc service.DescuentoService) *DescuentosHandler {
	return &DescuentosHandler{svc: svc}
}

func (h *DescuentosHandler) Crear(c *gin.Context) {
	var req dto.CrearDescuentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// ListarVigentes godoc
// @Summary Descuentos vigentes
// @Tags descuentos
// @Produce json
// @Security BearerAuth
// @Param fecha query string false "YYYY-MM-DD (por defecto hoy)"
// @Success 200 {object} dto.OKResponse{data=[]dto.DescuentoResponse}
// @Router /api/admin/descuentos [get]
func (h *DescuentosHandler) ListarVigentes(c *gin.Context) {
	at := time.Now()
	if raw := c.Query("fecha"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("fecha invalida, use YYYY-MM-DD"))
			return
		}
		at = parsed
	}
	resp, err := h.svc.ListarVigentes(c.Request.Context(), at)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *DescuentosHandler) Desactivar(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
