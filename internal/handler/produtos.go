package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"varejopos/internal/dto"
	"varejopos/internal/service"
)

type ProdutoHandler struct{ svc service.ProdutoService }

func NewProdutoHandler(svc service.ProdutoService) *ProdutoHandler {
	return &ProdutoHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra um produto com suas variações
// @Tags produtos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarProdutoRequest true "Produto"
// @Success 201 {object} dto.ProdutoResponse
// @Router /v1/produtos [post]
func (h *ProdutoHandler) Criar(c *gin.Context) {
	var req dto.CriarProdutoRequest
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
// @Summary Atualiza o produto pai
// @Tags produtos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Param body body dto.AtualizarProdutoRequest true "Campos"
// @Success 200 {object} dto.ProdutoResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/produtos/{id} [put]
func (h *ProdutoHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarProdutoRequest
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

// AtualizarVariacao godoc
// @Summary Atualiza uma variação; mudar preço invalida o cache de preço
// @Tags produtos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da variação"
// @Param body body dto.AtualizarVariacaoRequest true "Campos"
// @Success 200 {object} dto.VariacaoResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/variacoes/{id} [put]
func (h *ProdutoHandler) AtualizarVariacao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarVariacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarVariacao(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorID godoc
// @Summary Retorna um produto com variações
// @Tags produtos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Success 200 {object} dto.ProdutoResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/produtos/{id} [get]
func (h *ProdutoHandler) BuscarPorID(c *gin.Context) {
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
// @Summary Lista produtos por nome e situação
// @Tags produtos
// @Produce json
// @Security BearerAuth
// @Param nome query string false "Busca parcial"
// @Param ativo query string false "true | false | all"
// @Success 200 {object} dto.ProdutoListResponse
// @Router /v1/produtos [get]
func (h *ProdutoHandler) Listar(c *gin.Context) {
	var filter dto.ProdutoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarEstoque godoc
// @Summary Define o saldo de estoque de uma variação em uma unidade
// @Tags estoque
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da variação"
// @Param body body dto.AjusteEstoqueRequest true "Saldo"
// @Success 200 {object} dto.EstoqueResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/variacoes/{id}/estoque [put]
func (h *ProdutoHandler) AjustarEstoque(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AjusteEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarEstoque(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarEstoque godoc
// @Summary Lista os saldos de estoque de uma unidade
// @Tags estoque
// @Produce json
// @Security BearerAuth
// @Param unidade_id path string true "ID da unidade"
// @Success 200 {array} dto.EstoqueResponse
// @Router /v1/unidades/{unidade_id}/estoque [get]
func (h *ProdutoHandler) ListarEstoque(c *gin.Context) {
	unidadeID, ok := parseID(c, "unidade_id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarEstoque(c.Request.Context(), unidadeID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConsultarPreco godoc
// @Summary Consulta de preço do PDV, servida do cache
// @Tags produtos
// @Produce json
// @Security BearerAuth
// @Param variacao_id path string true "ID da variação"
// @Success 200 {object} dto.PrecoResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/preco/{variacao_id} [get]
func (h *ProdutoHandler) ConsultarPreco(c *gin.Context) {
	variacaoID, ok := parseID(c, "variacao_id")
	if !ok {
		return
	}
	resp, err := h.svc.ConsultarPreco(c.Request.Context(), variacaoID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
