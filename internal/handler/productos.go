package handler

import (
	"net/http"

	"rutaventas/internal/dto"
	"rutaventas/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear producto
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.OKResponse{data=dto.ProductoResponse}
// @Failure 422 {object} apierror.ValidationError
// @Router /api/admin/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
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

// Listar godoc
// @Summary Listar productos (paginado)
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param nombre    query string false "Filtro por nombre"
// @Param categoria query string false "Filtro por categoria"
// @Param activo    query string false "false = inactivos, all = todos"
// @Param page      query int    false "Pagina"
// @Param limit     query int    false "Tamano de pagina"
// @Success 200 {object} dto.OKResponse{data=dto.ProductoListResponse}
// @Router /api/admin/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Catalogo godoc
// @Summary Catalogo de productos activos
// @Description Lista servida desde cache para cargadores y vendedores.
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OKResponse{data=[]dto.ProductoResponse}
// @Router /api/catalogo/productos [get]
func (h *ProductosHandler) Catalogo(c *gin.Context) {
	resp, err := h.svc.ListarActivos(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductosHandler) Obtener(c *gin.Context) {
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

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.ActualizarProductoRequest
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

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
