package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusVendaRealizada = "REALIZADA"
	StatusVendaCancelada = "CANCELADA"
)

// Tender types.
const (
	MetodoDinheiro  = "DINHEIRO"
	MetodoPix       = "PIX"
	MetodoDebito    = "DEBITO"
	MetodoCredito   = "CREDITO"
	MetodoCrediario = "CREDIARIO"
)

// MetodoPagamentoValido reports whether m names a known tender type.
func MetodoPagamentoValido(m string) bool {
	switch m {
	case MetodoDinheiro, MetodoPix, MetodoDebito, MetodoCredito, MetodoCrediario:
		return true
	}
	return false
}

// Venda is a point-of-sale transaction tied to the employee's open Caixa.
type Venda struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FuncionarioID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ClienteID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	CaixaID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	MetodoPagamento string          `gorm:"type:varchar(20);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'REALIZADA'"`
	ValorBruto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescontoTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// ValorTotal is the net amount after discounts, floored at zero.
	ValorTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TrocoTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// ParcelasCrediario keeps the installment count of crediário sales so a
	// cancelled sale can be reactivated with its original plan.
	ParcelasCrediario *int
	Observacoes       *string
	DataVenda         time.Time

	Funcionario *Funcionario    `gorm:"foreignKey:FuncionarioID"`
	Cliente     *Cliente        `gorm:"foreignKey:ClienteID"`
	Itens       []VendaItem     `gorm:"foreignKey:VendaID"`
	Descontos   []VendaDesconto `gorm:"foreignKey:VendaID"`
	Pagamentos  []VendaPagamento `gorm:"foreignKey:VendaID"`
}

func (Venda) TableName() string { return "vendas" }

// VendaItem fixes quantity × unit price at sale time; Subtotal is never
// re-derived later.
type VendaItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoVariacaoID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantidade        int             `gorm:"not null"`
	PrecoUnitario     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Variacao *ProdutoVariacao `gorm:"foreignKey:ProdutoVariacaoID"`
}

func (VendaItem) TableName() string { return "venda_itens" }

const (
	DescontoOrigemVoucher = "VOUCHER"
	DescontoOrigemManual  = "MANUAL"
)

// VendaDesconto records one applied reduction (voucher or authorized manual).
type VendaDesconto struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	Origem           string          `gorm:"type:varchar(10);not null"`
	CodigoReferencia string          `gorm:"not null"`
	ValorAplicado    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt        time.Time
}

func (VendaDesconto) TableName() string { return "venda_descontos" }

// VendaPagamento is the settlement record credited to the Caixa.
type VendaPagamento struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	CaixaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	FormaPagamento string          `gorm:"type:varchar(20);not null"`
	ValorPago      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TrocoGerado    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorLiquido   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time
}

func (VendaPagamento) TableName() string { return "venda_pagamentos" }

// VendaEvidencia stores the signature artifact required for crediário sales.
type VendaEvidencia struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID          uuid.UUID `gorm:"type:uuid;index;not null"`
	AssinaturaBase64 string    `gorm:"type:text;not null"`
	DataRegistro     time.Time
}

func (VendaEvidencia) TableName() string { return "venda_evidencias" }
