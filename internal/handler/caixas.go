package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"varejopos/internal/dto"
	"varejopos/internal/middleware"
	"varejopos/internal/model"
	"varejopos/internal/service"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre o caixa do funcionário autenticado
// @Tags caixas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Saldo inicial"
// @Success 201 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.Erro
// @Router /v1/caixas/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	funcionarioID, err := middleware.FuncionarioID(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), funcionarioID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha o caixa aberto do funcionário com a conferência declarada
// @Tags caixas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharCaixaRequest true "Valores conferidos"
// @Success 200 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.Erro
// @Router /v1/caixas/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	funcionarioID, err := middleware.FuncionarioID(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), funcionarioID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimentar godoc
// @Summary Registra sangria ou suprimento no caixa aberto
// @Tags caixas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentacaoRequest true "Movimentação"
// @Success 201 {object} dto.MovimentacaoResponse
// @Failure 400 {object} apierror.Erro
// @Router /v1/caixas/movimentacoes [post]
func (h *CaixaHandler) Movimentar(c *gin.Context) {
	var req dto.MovimentacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	funcionarioID, err := middleware.FuncionarioID(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	// Sangrias by non-management carry the approving manager via the
	// X-Autorizador-ID header when the front desk flow requires it.
	var autorizadorID *uuid.UUID
	if raw := c.GetHeader("X-Autorizador-ID"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			autorizadorID = &id
		}
	}
	resp, err := h.svc.Movimentar(c.Request.Context(), funcionarioID, autorizadorID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Atual godoc
// @Summary Retorna o caixa aberto do funcionário autenticado
// @Tags caixas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CaixaResponse
// @Failure 400 {object} apierror.Erro
// @Router /v1/caixas/atual [get]
func (h *CaixaHandler) Atual(c *gin.Context) {
	funcionarioID, err := middleware.FuncionarioID(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp, err := h.svc.BuscarAberto(c.Request.Context(), funcionarioID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorID godoc
// @Summary Retorna um caixa pelo id
// @Tags caixas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.CaixaResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/caixas/{id} [get]
func (h *CaixaHandler) BuscarPorID(c *gin.Context) {
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

// Relatorio godoc
// @Summary Relatório de conferência dos caixas do período
// @Tags caixas
// @Produce json
// @Security BearerAuth
// @Param periodo query string false "HOJE|ONTEM|ESTA_SEMANA|SEMANA_PASSADA|ESTE_MES|MES_PASSADO|CUSTOM"
// @Param data_inicio query string false "YYYY-MM-DD (CUSTOM)"
// @Param data_fim query string false "YYYY-MM-DD (CUSTOM)"
// @Success 200 {object} dto.RelatorioCaixaResponse
// @Failure 400 {object} apierror.Erro
// @Router /v1/caixas/relatorio [get]
func (h *CaixaHandler) Relatorio(c *gin.Context) {
	var filter dto.RelatorioFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	claims := middleware.GetClaims(c)
	funcionarioID, err := middleware.FuncionarioID(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	unidadeID, _ := uuid.Parse(claims.UnidadeID)
	ator := &model.Funcionario{
		ID:        funcionarioID,
		Cargo:     model.Cargo(claims.Cargo),
		UnidadeID: unidadeID,
	}
	resp, err := h.svc.GerarRelatorio(c.Request.Context(), ator, filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
