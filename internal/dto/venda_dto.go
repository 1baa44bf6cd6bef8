package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoVariacaoID string `json:"produto_variacao_id" validate:"required,uuid"`
	Quantidade        int    `json:"quantidade"          validate:"required,min=1"`
}

// DescontoManualRequest needs the authorizing employee's credential when the
// amount exceeds the seller's own authority.
type DescontoManualRequest struct {
	Valor decimal.Decimal `json:"valor" validate:"required,gt=0"`
	// AutorizadorLogin + AutorizadorSenha identify a manager vouching for a
	// discount above the fixed cap.
	AutorizadorLogin *string `json:"autorizador_login" validate:"omitempty,min=3"`
	AutorizadorSenha *string `json:"autorizador_senha" validate:"omitempty,min=6"`
}

// CrediarioRequest carries the credit-authorization evidence. The PIN belongs
// to the buying funcionario behind the cliente's pessoa.
type CrediarioRequest struct {
	Pin                string `json:"pin"                 validate:"required,len=4,numeric"`
	AssinaturaBase64   string `json:"assinatura_base64"   validate:"required,min=8"`
	QuantidadeParcelas int    `json:"quantidade_parcelas" validate:"required,min=1,max=12"`
}

type RegistrarVendaRequest struct {
	ClienteID       string                 `json:"cliente_id"       validate:"required,uuid"`
	MetodoPagamento string                 `json:"metodo_pagamento" validate:"required,oneof=DINHEIRO PIX DEBITO CREDITO CREDIARIO"`
	Itens           []ItemVendaRequest     `json:"itens"            validate:"required,min=1,dive"`
	// ValorPago only matters for DINHEIRO; absent/zero means exact payment.
	ValorPago       decimal.Decimal        `json:"valor_pago"       validate:"min=0"`
	CodigoVoucher   *string                `json:"codigo_voucher"   validate:"omitempty,min=2"`
	DescontoManual  *DescontoManualRequest `json:"desconto_manual"  validate:"omitempty"`
	Crediario       *CrediarioRequest      `json:"crediario"        validate:"omitempty"`
	Observacoes     *string                `json:"observacoes"`
}

type CancelarVendaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// VendaFilter is bound from query string of GET /v1/vendas.
type VendaFilter struct {
	Data          string `form:"data"`                       // YYYY-MM-DD; empty = today
	Status        string `form:"status,default=REALIZADA"`   // REALIZADA | CANCELADA | all
	FuncionarioID string `form:"funcionario_id" validate:"omitempty,uuid"`
	CaixaID       string `form:"caixa_id"       validate:"omitempty,uuid"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	Produto       string          `json:"produto"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type DescontoResponse struct {
	Origem           string          `json:"origem"`
	CodigoReferencia string          `json:"codigo_referencia"`
	ValorAplicado    decimal.Decimal `json:"valor_aplicado"`
}

type VendaResponse struct {
	ID              string              `json:"id"`
	CaixaID         string              `json:"caixa_id"`
	FuncionarioID   string              `json:"funcionario_id"`
	ClienteID       string              `json:"cliente_id"`
	MetodoPagamento string              `json:"metodo_pagamento"`
	Status          string              `json:"status"`
	Itens           []ItemVendaResponse `json:"itens"`
	Descontos       []DescontoResponse  `json:"descontos"`
	ValorBruto      decimal.Decimal     `json:"valor_bruto"`
	DescontoTotal   decimal.Decimal     `json:"desconto_total"`
	ValorTotal      decimal.Decimal     `json:"valor_total"`
	ValorPago       decimal.Decimal     `json:"valor_pago"`
	Troco           decimal.Decimal     `json:"troco"`
	ContaReceberID  *string             `json:"conta_receber_id,omitempty"`
	DataVenda       string              `json:"data_venda"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
