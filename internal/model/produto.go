package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProdutoPai groups the sellable variations of one catalog product.
type ProdutoPai struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"index;not null"`
	Descricao *string
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Variacoes []ProdutoVariacao `gorm:"foreignKey:ProdutoPaiID"`
}

func (ProdutoPai) TableName() string { return "produtos_pai" }

// ProdutoVariacao is the unit that is actually priced, stocked and sold.
type ProdutoVariacao struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoPaiID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Nome         string          `gorm:"not null"`
	PrecoCusto   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecoVenda   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Ativo        bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Pai *ProdutoPai `gorm:"foreignKey:ProdutoPaiID"`
}

func (ProdutoVariacao) TableName() string { return "produto_variacoes" }

// NomeCompleto concatenates parent and variation names for messages and
// receipts ("Camiseta Básica - P Preta").
func (v *ProdutoVariacao) NomeCompleto() string {
	if v.Pai != nil {
		return v.Pai.Nome + " - " + v.Nome
	}
	return v.Nome
}

// EstoqueSaldo is the available quantity of one variation at one unidade.
// Unique per (unidade, variação); mutated only by the sale engine and its
// inverse (cancel/reactivate), always through guarded conditional updates.
type EstoqueSaldo struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UnidadeID         uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_unidade_variacao;not null"`
	ProdutoVariacaoID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_unidade_variacao;not null"`
	QuantidadeAtual   int       `gorm:"not null;default:0"`
	QuantidadeMinima  int       `gorm:"not null;default:5"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Variacao *ProdutoVariacao `gorm:"foreignKey:ProdutoVariacaoID"`
}

func (EstoqueSaldo) TableName() string { return "estoque_saldos" }
