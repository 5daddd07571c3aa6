package handler

import (
	"net/http"

	"rutaventas/internal/dto"
	"rutaventas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CargasHandler struct{ svc service.CargaService }

func NewCargasHandler(svc service.CargaService) *CargasHandler { return &CargasHandler{svc: svc} }

// Abrir godoc
// @Summary Abrir carga para un vendedor
// @Description Devuelve la carga abierta del vendedor o crea una nueva sobre su camion asignado.
// @Tags cargas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCargaRequest true "Vendedor"
// @Success 200 {object} dto.OKResponse{data=dto.CargaResponse}
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/cargador/cargas [post]
func (h *CargasHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCargaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vendedorID, _ := uuid.Parse(req.VendedorID)
	resp, err := h.svc.AbrirCarga(c.Request.Context(), vendedorID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Agregar godoc
// @Summary Agregar productos a una carga
// @Description Suma cantidades a las lineas de la carga. Los items sin productoId se registran por nombre y no se venden.
// @Tags cargas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AgregarProductosRequest true "Items"
// @Success 200 {object} dto.OKResponse{data=[]dto.CargaProductoResponse}
// @Failure 400 {object} apierror.APIError "InvalidItem"
// @Failure 404 {object} apierror.APIError "LoadNotFound"
// @Failure 409 {object} apierror.APIError "Carga procesada"
// @Router /api/cargador/carga-agregar/agregar [post]
func (h *CargasHandler) Agregar(c *gin.Context) {
	var req dto.AgregarProductosRequest
	if !bindItems(c, &req, "items") {
		return
	}
	resp, err := h.svc.AgregarProductos(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *CargasHandler) MarcarLista(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.MarcarLista(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Obtener answers data:null for a processed or empty load.
func (h *CargasHandler) Obtener(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.ObtenerCarga(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Procesar godoc
// @Summary Procesar (cerrar) carga
// @Tags cargas
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la carga"
// @Success 200 {object} dto.OKResponse{data=dto.CargaResponse}
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/admin/cargas/{id}/procesar [post]
func (h *CargasHandler) Procesar(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.ProcesarCarga(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
