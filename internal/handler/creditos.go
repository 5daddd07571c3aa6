package handler

import (
	"net/http"

	"rutaventas/internal/dto"
	"rutaventas/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditosHandler struct{ svc service.CreditoService }

func NewCreditosHandler(svc service.CreditoService) *CreditosHandler {
	return &CreditosHandler{svc: svc}
}

func (h *CreditosHandler) Crear(c *gin.Context) {
	clienteID, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.CrearCreditoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCredito(c.Request.Context(), clienteID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// Pagar godoc
// @Summary Registrar pago de credito
// @Description Aplica un pago a un credito del cliente. Devuelve el saldo antes y despues del pago.
// @Tags creditos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id   path string                  true "UUID del cliente"
// @Param body body dto.PagarCreditoRequest true "Pago"
// @Success 201 {object} dto.OKResponse{data=dto.PagarCreditoResponse}
// @Failure 400 {object} apierror.APIError "Validation"
// @Failure 409 {object} apierror.APIError "Overpayment, data = saldo antes del pago"
// @Router /api/clientes/{id}/pagos [post]
func (h *CreditosHandler) Pagar(c *gin.Context) {
	clienteID, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.PagarCreditoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PagarCredito(c.Request.Context(), clienteID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *CreditosHandler) ListarPagos(c *gin.Context) {
	creditoID, valid := paramID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.ListarPagos(c.Request.Context(), creditoID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
