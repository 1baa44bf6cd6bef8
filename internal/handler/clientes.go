package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"varejopos/internal/dto"
	"varejopos/internal/service"
)

type ClienteHandler struct{ svc service.ClienteService }

func NewClienteHandler(svc service.ClienteService) *ClienteHandler {
	return &ClienteHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra um cliente avulso
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarClienteRequest true "Cliente"
// @Success 201 {object} dto.ClienteResponse
// @Failure 409 {object} apierror.Erro
// @Router /v1/clientes [post]
func (h *ClienteHandler) Criar(c *gin.Context) {
	var req dto.CriarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Atualizar godoc
// @Summary Atualiza dados cadastrais ou situação de um cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Param body body dto.AtualizarClienteRequest true "Campos"
// @Success 200 {object} dto.ClienteResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/clientes/{id} [put]
func (h *ClienteHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DefinirLimite godoc
// @Summary Define o limite de crédito de um cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Param body body dto.DefinirLimiteRequest true "Limite"
// @Success 200 {object} dto.ClienteResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/clientes/{id}/limite [put]
func (h *ClienteHandler) DefinirLimite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.DefinirLimiteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DefinirLimite(c.Request.Context(), id, req.LimiteCredito)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorID godoc
// @Summary Retorna um cliente pelo id
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Success 200 {object} dto.ClienteResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/clientes/{id} [get]
func (h *ClienteHandler) BuscarPorID(c *gin.Context) {
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
// @Summary Lista clientes paginados
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Itens por página (default 50)"
// @Success 200 {object} dto.ClienteListResponse
// @Router /v1/clientes [get]
func (h *ClienteHandler) Listar(c *gin.Context) {
	page, limit := paginacao(c)
	resp, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
