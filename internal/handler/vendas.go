package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"varejopos/internal/dto"
	"varejopos/internal/middleware"
	"varejopos/internal/service"
)

type VendaHandler struct{ svc service.VendaService }

func NewVendaHandler(svc service.VendaService) *VendaHandler { return &VendaHandler{svc: svc} }

// Registrar godoc
// @Summary Registra uma venda no caixa aberto do vendedor
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarVendaRequest true "Venda"
// @Success 201 {object} dto.VendaResponse
// @Failure 400 {object} apierror.Erro
// @Failure 409 {object} apierror.Erro
// @Router /v1/vendas [post]
func (h *VendaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	funcionarioID, err := middleware.FuncionarioID(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp, err := h.svc.RegistrarVenda(c.Request.Context(), funcionarioID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancelar godoc
// @Summary Cancela uma venda enquanto o caixa de origem segue aberto
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Param body body dto.CancelarVendaRequest true "Motivo"
// @Success 204
// @Failure 409 {object} apierror.Erro
// @Router /v1/vendas/{id}/cancelar [post]
func (h *VendaHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CancelarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CancelarVenda(c.Request.Context(), id, req.Motivo); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reativar godoc
// @Summary Reativa uma venda cancelada, retomando o estoque
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 204
// @Failure 409 {object} apierror.Erro
// @Router /v1/vendas/{id}/reativar [post]
func (h *VendaHandler) Reativar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.ReativarVenda(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BuscarPorID godoc
// @Summary Retorna uma venda pelo id
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.VendaResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/vendas/{id} [get]
func (h *VendaHandler) BuscarPorID(c *gin.Context) {
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

// Listar godoc
// @Summary Lista vendas por data, status, vendedor ou caixa
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param data query string false "YYYY-MM-DD; vazio = hoje"
// @Param status query string false "REALIZADA | CANCELADA | all"
// @Success 200 {object} dto.VendaListResponse
// @Router /v1/vendas [get]
func (h *VendaHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListarVendas(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
