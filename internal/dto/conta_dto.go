package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PagarParcelaRequest pays into one conta starting at a given installment.
// The amount cascades through later installments in order; paying more than
// the total outstanding is rejected whole.
type PagarParcelaRequest struct {
	NumeroParcela int             `json:"numero_parcela" validate:"required,min=1"`
	Valor         decimal.Decimal `json:"valor"          validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ParcelaResponse struct {
	ID             string          `json:"id"`
	NumeroParcela  int             `json:"numero_parcela"`
	ValorOriginal  decimal.Decimal `json:"valor_original"`
	ValorPago      decimal.Decimal `json:"valor_pago"`
	SaldoDevedor   decimal.Decimal `json:"saldo_devedor"`
	DataVencimento string          `json:"data_vencimento"`
	DataPagamento  *string         `json:"data_pagamento"`
	Status         string          `json:"status"`
}

type ContaReceberResponse struct {
	ID                 string            `json:"id"`
	VendaID            string            `json:"venda_id"`
	ClienteID          string            `json:"cliente_id"`
	Cliente            string            `json:"cliente"`
	ValorTotal         decimal.Decimal   `json:"valor_total"`
	SaldoDevedor       decimal.Decimal   `json:"saldo_devedor"`
	QuantidadeParcelas int               `json:"quantidade_parcelas"`
	Status             string            `json:"status"`
	Parcelas           []ParcelaResponse `json:"parcelas"`
	DataCriacao        string            `json:"data_criacao"`
}

type ContaListResponse struct {
	Data  []ContaReceberResponse `json:"data"`
	Total int64                  `json:"total"`
}

// PagamentoParcelaResponse summarizes how a payment was allocated.
type PagamentoParcelaResponse struct {
	ContaReceberID string            `json:"conta_receber_id"`
	ValorAplicado  decimal.Decimal   `json:"valor_aplicado"`
	Parcelas       []ParcelaResponse `json:"parcelas"`
	StatusConta    string            `json:"status_conta"`
}
