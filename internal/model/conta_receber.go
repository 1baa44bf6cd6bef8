package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusContaAberta  = "ABERTA"
	StatusContaQuitada = "QUITADA"
)

// ContaReceber is created only for crediário sales. SETTLED (QUITADA) iff
// every child Parcela is PAGA.
type ContaReceber struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID            uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	ClienteID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	ValorTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	QuantidadeParcelas int             `gorm:"not null"`
	Status             string          `gorm:"type:varchar(10);not null;default:'ABERTA'"`
	DataCriacao        time.Time

	Cliente  *Cliente  `gorm:"foreignKey:ClienteID"`
	Parcelas []Parcela `gorm:"foreignKey:ContaReceberID"`
}

func (ContaReceber) TableName() string { return "contas_receber" }

const (
	StatusParcelaPendente = "PENDENTE"
	StatusParcelaPaga     = "PAGA"
	// StatusParcelaAtrasada is a stored transition applied by the overdue
	// sweep; for payment allocation it behaves exactly like PENDENTE.
	StatusParcelaAtrasada = "ATRASADA"
)

// Parcela is one installment of a ContaReceber. ValorPago never exceeds
// ValorOriginal. Versao guards concurrent partial payments: updates must
// match the version they read or the unit of work fails.
type Parcela struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContaReceberID uuid.UUID       `gorm:"type:uuid;index;not null"`
	NumeroParcela  int             `gorm:"not null"`
	ValorOriginal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ValorPago      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DataVencimento time.Time       `gorm:"type:date;not null"`
	DataPagamento  *time.Time
	Status         string `gorm:"type:varchar(10);not null;default:'PENDENTE'"`
	Versao         int    `gorm:"not null;default:0"`

	ContaReceber *ContaReceber `gorm:"foreignKey:ContaReceberID"`
}

func (Parcela) TableName() string { return "parcelas" }

// SaldoDevedor is the outstanding balance of this installment.
func (p *Parcela) SaldoDevedor() decimal.Decimal {
	return p.ValorOriginal.Sub(p.ValorPago)
}

// Quitada reports whether the installment is fully paid.
func (p *Parcela) Quitada() bool { return p.Status == StatusParcelaPaga }
