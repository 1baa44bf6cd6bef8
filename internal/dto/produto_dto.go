package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarVariacaoRequest struct {
	Nome       string          `json:"nome"        validate:"required,min=1"`
	PrecoCusto decimal.Decimal `json:"preco_custo" validate:"required"`
	PrecoVenda decimal.Decimal `json:"preco_venda" validate:"required"`
}

type CriarProdutoRequest struct {
	Nome      string                 `json:"nome"      validate:"required,min=2"`
	Descricao *string                `json:"descricao"`
	Variacoes []CriarVariacaoRequest `json:"variacoes" validate:"required,min=1,dive"`
}

type AtualizarProdutoRequest struct {
	Nome      *string `json:"nome"      validate:"omitempty,min=2"`
	Descricao *string `json:"descricao"`
	Ativo     *bool   `json:"ativo"`
}

type AtualizarVariacaoRequest struct {
	Nome       *string          `json:"nome"        validate:"omitempty,min=1"`
	PrecoCusto *decimal.Decimal `json:"preco_custo"`
	PrecoVenda *decimal.Decimal `json:"preco_venda"`
	Ativo      *bool            `json:"ativo"`
}

// AjusteEstoqueRequest sets the absolute stock balance of one variation at
// one unidade (manual correction, not a sale path).
type AjusteEstoqueRequest struct {
	UnidadeID        string `json:"unidade_id"        validate:"required,uuid"`
	QuantidadeAtual  int    `json:"quantidade_atual"  validate:"min=0"`
	QuantidadeMinima *int   `json:"quantidade_minima" validate:"omitempty,min=0"`
}

type ProdutoFilter struct {
	Nome   string `form:"nome"`
	Ativo  string `form:"ativo,default=true"` // true | false | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VariacaoResponse struct {
	ID         string          `json:"id"`
	Nome       string          `json:"nome"`
	PrecoCusto decimal.Decimal `json:"preco_custo"`
	PrecoVenda decimal.Decimal `json:"preco_venda"`
	Ativo      bool            `json:"ativo"`
}

type ProdutoResponse struct {
	ID        string             `json:"id"`
	Nome      string             `json:"nome"`
	Descricao *string            `json:"descricao"`
	Ativo     bool               `json:"ativo"`
	Variacoes []VariacaoResponse `json:"variacoes"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type EstoqueResponse struct {
	UnidadeID         string `json:"unidade_id"`
	ProdutoVariacaoID string `json:"produto_variacao_id"`
	QuantidadeAtual   int    `json:"quantidade_atual"`
	QuantidadeMinima  int    `json:"quantidade_minima"`
	Baixo             bool   `json:"baixo"`
}

// PrecoResponse is served from the Redis price cache.
type PrecoResponse struct {
	ProdutoVariacaoID string          `json:"produto_variacao_id"`
	Nome              string          `json:"nome"`
	PrecoVenda        decimal.Decimal `json:"preco_venda"`
}
