package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"varejopos/internal/dto"
	"varejopos/internal/middleware"
	"varejopos/internal/service"
)

type ContaHandler struct{ svc service.ContaReceberService }

func NewContaHandler(svc service.ContaReceberService) *ContaHandler {
	return &ContaHandler{svc: svc}
}

// PagarParcela godoc
// @Summary Aplica um pagamento em cascata a partir da parcela informada
// @Tags contas-receber
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da conta"
// @Param body body dto.PagarParcelaRequest true "Pagamento"
// @Success 200 {object} dto.PagamentoParcelaResponse
// @Failure 400 {object} apierror.Erro
// @Failure 409 {object} apierror.Erro
// @Router /v1/contas-receber/{id}/pagar [post]
func (h *ContaHandler) PagarParcela(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PagarParcelaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	funcionarioID, err := middleware.FuncionarioID(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp, err := h.svc.PagarParcela(c.Request.Context(), funcionarioID, id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorID godoc
// @Summary Retorna uma conta a receber com suas parcelas
// @Tags contas-receber
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da conta"
// @Success 200 {object} dto.ContaReceberResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/contas-receber/{id} [get]
func (h *ContaHandler) BuscarPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.BuscarPorID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorCliente godoc
// @Summary Lista as contas a receber de um cliente
// @Tags contas-receber
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Success 200 {object} dto.ContaListResponse
// @Router /v1/clientes/{id}/contas-receber [get]
func (h *ContaHandler) ListarPorCliente(c *gin.Context) {
	clienteID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorCliente(c.Request.Context(), clienteID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
