package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"varejopos/internal/dto"
	"varejopos/internal/service"
)

type VoucherHandler struct{ svc service.DescontoService }

func NewVoucherHandler(svc service.DescontoService) *VoucherHandler {
	return &VoucherHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra um voucher de desconto
// @Tags vouchers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarVoucherRequest true "Voucher"
// @Success 201 {object} dto.VoucherResponse
// @Failure 409 {object} apierror.Erro
// @Router /v1/vouchers [post]
func (h *VoucherHandler) Criar(c *gin.Context) {
	var req dto.CriarVoucherRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarVoucher(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Atualizar godoc
// @Summary Atualiza quantidade, validade ou situação de um voucher
// @Tags vouchers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do voucher"
// @Param body body dto.AtualizarVoucherRequest true "Campos"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} apierror.Erro
// @Router /v1/vouchers/{id} [put]
func (h *VoucherHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarVoucherRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarVoucher(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista todos os vouchers
// @Tags vouchers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.VoucherListResponse
// @Router /v1/vouchers [get]
func (h *VoucherHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarVouchers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
