package handler

import (
	"net/http"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login por rol
// @Description Cada rol tiene su propia particion de login; un administrador puede entrar en cualquiera.
// @Tags auth
// @Accept json
// @Produce json
// @Param rol  path string           true "administrador | cargador | vendedor | devoluciones"
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.OKResponse{data=dto.LoginResponse}
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Router /api/{rol}/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	rol, valid := model.ParseRol(c.Param("rol"))
	if !valid {
		c.JSON(http.StatusNotFound, apierror.New("Rol desconocido"))
		return
	}
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), rol, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renovar tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.OKResponse{data=dto.LoginResponse}
// @Failure 401 {object} apierror.APIError
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear usuario
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearUsuarioRequest true "Usuario"
// @Success 201 {object} dto.OKResponse{data=dto.UsuarioResponse}
// @Failure 409 {object} apierror.APIError
// @Router /api/admin/usuarios [post]
func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	var filter dto.UsuarioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *UsuariosHandler) Desactivar(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if p, valid := principal(c); !valid {
		return
	} else if p.ID == id {
		c.JSON(http.StatusConflict, apierror.New("No puede desactivar su propio usuario"))
		return
	}
	if err := h.svc.DesactivarUsuario(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
