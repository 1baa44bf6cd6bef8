package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"varejopos/internal/dto"
	"varejopos/internal/service"
)

type FuncionarioHandler struct{ svc service.FuncionarioService }

func NewFuncionarioHandler(svc service.FuncionarioService) *FuncionarioHandler {
	return &FuncionarioHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra um funcionário e sua visão de cliente espelhada
// @Tags funcionarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarFuncionarioRequest true "Funcionário"
// @Success 201 {object} dto.FuncionarioResponse
// @Failure 409 {object} apierror.Erro
// @Router /v1/funcionarios [post]
func (h *FuncionarioHandler) Criar(c *gin.Context) {
	var req dto.CriarFuncionarioRequest
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
// @Summary Atualiza dados cadastrais, cargo ou situação de um funcionário
// @Tags funcionarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do funcionário"
// @Param body body dto.AtualizarFuncionarioRequest true "Campos"
// @Success 200 {object} dto.FuncionarioResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/funcionarios/{id} [put]
func (h *FuncionarioHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarFuncionarioRequest
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

// BuscarPorID godoc
// @Summary Retorna um funcionário pelo id
// @Tags funcionarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do funcionário"
// @Success 200 {object} dto.FuncionarioResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/funcionarios/{id} [get]
func (h *FuncionarioHandler) BuscarPorID(c *gin.Context) {
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
// @Summary Lista funcionários paginados
// @Tags funcionarios
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Itens por página (default 50)"
// @Success 200 {object} dto.FuncionarioListResponse
// @Router /v1/funcionarios [get]
func (h *FuncionarioHandler) Listar(c *gin.Context) {
	page, limit := paginacao(c)
	resp, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DefinirPin godoc
// @Summary Define o PIN de crediário do funcionário
// @Tags funcionarios
// @Accept json
// @Security BearerAuth
// @Param id path string true "ID do funcionário"
// @Param body body dto.DefinirPinRequest true "PIN de 4 dígitos"
// @Success 204
// @Failure 404 {object} apierror.Erro
// @Router /v1/funcionarios/{id}/pin [put]
func (h *FuncionarioHandler) DefinirPin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.DefinirPinRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.DefinirPin(c.Request.Context(), id, req.Pin); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func paginacao(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
