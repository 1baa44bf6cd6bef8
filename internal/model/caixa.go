package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusCaixaAberto  = "ABERTO"
	StatusCaixaFechado = "FECHADO"
)

// Caixa is one employee's cash-register working session.
// Status: ABERTO → FECHADO (terminal). The Conferido* and quebra fields are
// written exactly once, at close time.
type Caixa struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FuncionarioID uuid.UUID       `gorm:"type:uuid;index;not null"`
	SaldoInicial  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'ABERTO'"`

	// Counted amounts declared by the employee at close, per tender type.
	ConferidoDinheiro  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ConferidoPix       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ConferidoDebito    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ConferidoCredito   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ConferidoCrediario *decimal.Decimal `gorm:"type:decimal(12,2)"`

	// SistemaTotalVendas is the sum of net totals of REALIZADA sales.
	SistemaTotalVendas *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// QuebraDeCaixa = total conferido - (saldo inicial + vendas + suprimentos - sangrias).
	QuebraDeCaixa *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Observacoes    *string
	DataAbertura   time.Time
	DataFechamento *time.Time

	Funcionario   *Funcionario       `gorm:"foreignKey:FuncionarioID"`
	Vendas        []Venda            `gorm:"foreignKey:CaixaID"`
	Movimentacoes []CaixaMovimentacao `gorm:"foreignKey:CaixaID"`
}

func (Caixa) TableName() string { return "caixas" }

const (
	MovimentacaoSangria    = "SANGRIA"    // till-out
	MovimentacaoSuprimento = "SUPRIMENTO" // till-in
	MovimentacaoEntrada    = "ENTRADA"    // ledger entry (receivable collections)
)

// CaixaMovimentacao is an immutable entry in the drawer ledger.
// Movements are NEVER modified or deleted.
type CaixaMovimentacao struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo          string          `gorm:"type:varchar(20);not null"`
	Valor         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo        string          `gorm:"type:varchar(255);not null"`
	AutorizadorID *uuid.UUID      `gorm:"type:uuid"`
	DataHora      time.Time
}

func (CaixaMovimentacao) TableName() string { return "caixa_movimentacoes" }

// MovimentacaoValida reports whether tipo names a known movement kind.
func MovimentacaoValida(tipo string) bool {
	switch tipo {
	case MovimentacaoSangria, MovimentacaoSuprimento, MovimentacaoEntrada:
		return true
	}
	return false
}
