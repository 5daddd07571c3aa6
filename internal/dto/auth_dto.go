package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Username string  `json:"username" validate:"required,min=1,max=150"`
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Rol      string  `json:"rol"      validate:"required,oneof=administrador cargador vendedor devoluciones"`
}

type UsuarioFilter struct {
	Rol              string `form:"rol" validate:"omitempty,oneof=administrador cargador vendedor devoluciones"`
	IncluirInactivos bool   `form:"incluir_inactivos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Nombre        string  `json:"nombre"`
	Email         *string `json:"email"`
	Rol           string  `json:"rol"`
	Activo        bool    `json:"activo"`
	CamionID      *string `json:"camion_id"`
	CargaActivaID *string `json:"carga_activa_id"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
