package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarVoucherRequest struct {
	Codigo               string          `json:"codigo" validate:"required,min=2,max=40"`
	Tipo                 string          `json:"tipo"   validate:"required,oneof=PERCENTUAL FIXO"`
	Valor                decimal.Decimal `json:"valor"  validate:"required,gt=0"`
	QuantidadeDisponivel int             `json:"quantidade_disponivel" validate:"required,min=1"`
	ValidadeInicio       *string         `json:"validade_inicio" validate:"omitempty,datetime=2006-01-02"`
	ValidadeFim          *string         `json:"validade_fim"    validate:"omitempty,datetime=2006-01-02"`
	Acumulativo          bool            `json:"acumulativo"`
}

type AtualizarVoucherRequest struct {
	QuantidadeDisponivel *int    `json:"quantidade_disponivel" validate:"omitempty,min=0"`
	ValidadeFim          *string `json:"validade_fim"          validate:"omitempty,datetime=2006-01-02"`
	Ativo                *bool   `json:"ativo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VoucherResponse struct {
	ID                   string          `json:"id"`
	Codigo               string          `json:"codigo"`
	Tipo                 string          `json:"tipo"`
	Valor                decimal.Decimal `json:"valor"`
	QuantidadeDisponivel int             `json:"quantidade_disponivel"`
	ValidadeInicio       *string         `json:"validade_inicio"`
	ValidadeFim          *string         `json:"validade_fim"`
	Ativo                bool            `json:"ativo"`
	Acumulativo          bool            `json:"acumulativo"`
}

type VoucherListResponse struct {
	Data  []VoucherResponse `json:"data"`
	Total int64             `json:"total"`
}
