package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre    string          `json:"nombre"    validate:"required,min=2,max=120"`
	Precio    decimal.Decimal `json:"precio"    validate:"gt=0"`
	Categoria string          `json:"categoria" validate:"required"`
}

type ActualizarProductoRequest struct {
	Nombre    *string          `json:"nombre"    validate:"omitempty,min=2,max=120"`
	Precio    *decimal.Decimal `json:"precio"`
	Categoria *string          `json:"categoria"`
	Activo    *bool            `json:"activo"`
}

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	// Activo: "false" = inactivos, "all" = todos, otherwise activos.
	Activo string `form:"activo"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ProductoResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Precio    decimal.Decimal `json:"precio"`
	Categoria string          `json:"categoria"`
	Activo    bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
