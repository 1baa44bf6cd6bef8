package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cargo is the fixed role set driving every authorization decision.
type Cargo string

const (
	CargoAdmin         Cargo = "ADMIN"
	CargoDono          Cargo = "DONO"
	CargoGerente       Cargo = "GERENTE"
	CargoLiderVenda    Cargo = "LIDER_VENDA"
	CargoRecepcionista Cargo = "RECEPCIONISTA"
)

// CargosValidos lists every accepted role, in no particular order.
var CargosValidos = []Cargo{CargoAdmin, CargoDono, CargoGerente, CargoLiderVenda, CargoRecepcionista}

// CargoValido reports whether s names a known role (case-sensitive).
func CargoValido(s string) bool {
	for _, c := range CargosValidos {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Funcionario is the staff view over a Pessoa. PinHash authorizes crediário
// purchases; LimiteCredito caps the mirrored Cliente's open debt.
type Funcionario struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PessoaID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	UnidadeID uuid.UUID `gorm:"type:uuid;index;not null"`
	Cargo     Cargo     `gorm:"type:varchar(20);not null"`
	Ativo     bool      `gorm:"not null;default:true"`
	PinHash   *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Pessoa  *Pessoa  `gorm:"foreignKey:PessoaID"`
	Unidade *Unidade `gorm:"foreignKey:UnidadeID"`
}

func (Funcionario) TableName() string { return "funcionarios" }

// Cliente is the purchasing view over a Pessoa. Every funcionario gets one at
// creation time so staff can buy on crediário; walk-in customers get one too,
// just without a funcionario view behind the same pessoa.
type Cliente struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PessoaID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Ativo         bool            `gorm:"not null;default:true"`
	LimiteCredito decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Pessoa *Pessoa `gorm:"foreignKey:PessoaID"`
}

func (Cliente) TableName() string { return "clientes" }

// Unidade is a store location; stock balances are kept per unidade.
type Unidade struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Unidade) TableName() string { return "unidades" }
