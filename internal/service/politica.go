package service

import "github.com/shopspring/decimal"

// Fixed business policy. Values are store-wide, not per-unidade.
var (
	// TetoDescontoManual caps manual discounts granted by non-management
	// sellers. Above it a manager must authorize the discount.
	TetoDescontoManual = decimal.NewFromInt(20)
)

const (
	// MaxParcelas bounds crediário installment plans.
	MaxParcelas = 12
	// DiasEntreParcelas spaces due dates: parcela n is due n*30 days after
	// the sale.
	DiasEntreParcelas = 30
)
