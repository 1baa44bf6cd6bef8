package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
}

// ConferidoDeclarado holds the amounts the employee counted at close, one per
// tender type. Missing tenders count as zero.
type ConferidoDeclarado struct {
	Dinheiro  decimal.Decimal `json:"dinheiro"  validate:"min=0"`
	Pix       decimal.Decimal `json:"pix"       validate:"min=0"`
	Debito    decimal.Decimal `json:"debito"    validate:"min=0"`
	Credito   decimal.Decimal `json:"credito"   validate:"min=0"`
	Crediario decimal.Decimal `json:"crediario" validate:"min=0"`
}

type FecharCaixaRequest struct {
	Conferido   ConferidoDeclarado `json:"conferido"`
	Observacoes *string            `json:"observacoes"`
}

type MovimentacaoRequest struct {
	Tipo   string          `json:"tipo"   validate:"required,oneof=SANGRIA SUPRIMENTO"`
	Valor  decimal.Decimal `json:"valor"  validate:"required,gt=0"`
	Motivo string          `json:"motivo" validate:"required,min=3,max=255"`
}

// RelatorioFilter is bound from query string of GET /v1/caixas/relatorio.
// Non-management callers are always scoped down to their own registers.
type RelatorioFilter struct {
	Periodo       string `form:"periodo,default=HOJE" validate:"oneof=HOJE ONTEM ESTA_SEMANA SEMANA_PASSADA ESTE_MES MES_PASSADO CUSTOM"`
	DataInicio    string `form:"data_inicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim       string `form:"data_fim"    validate:"omitempty,datetime=2006-01-02"`
	FuncionarioID string `form:"funcionario_id" validate:"omitempty,uuid"`
	Status        string `form:"status,default=all"` // ABERTO | FECHADO | all
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentacaoResponse struct {
	ID            string          `json:"id"`
	Tipo          string          `json:"tipo"`
	Valor         decimal.Decimal `json:"valor"`
	Motivo        string          `json:"motivo"`
	AutorizadorID *string         `json:"autorizador_id"`
	DataHora      string          `json:"data_hora"`
}

type ConferidoResponse struct {
	Dinheiro  decimal.Decimal `json:"dinheiro"`
	Pix       decimal.Decimal `json:"pix"`
	Debito    decimal.Decimal `json:"debito"`
	Credito   decimal.Decimal `json:"credito"`
	Crediario decimal.Decimal `json:"crediario"`
	Total     decimal.Decimal `json:"total"`
}

type CaixaResponse struct {
	ID                 string             `json:"id"`
	FuncionarioID      string             `json:"funcionario_id"`
	Funcionario        string             `json:"funcionario"`
	Status             string             `json:"status"`
	SaldoInicial       decimal.Decimal    `json:"saldo_inicial"`
	Conferido          *ConferidoResponse `json:"conferido,omitempty"`
	SistemaTotalVendas *decimal.Decimal   `json:"sistema_total_vendas,omitempty"`
	QuebraDeCaixa      *decimal.Decimal   `json:"quebra_de_caixa,omitempty"`
	Observacoes        *string            `json:"observacoes"`
	DataAbertura       string             `json:"data_abertura"`
	DataFechamento     *string            `json:"data_fechamento"`
}

// RelatorioPorMetodo compares counted vs expected for one tender type.
type RelatorioPorMetodo struct {
	Metodo    string          `json:"metodo"`
	Esperado  decimal.Decimal `json:"esperado"`
	Conferido decimal.Decimal `json:"conferido"`
	Diferenca decimal.Decimal `json:"diferenca"`
}

type RelatorioCaixaItem struct {
	Caixa      CaixaResponse        `json:"caixa"`
	PorMetodo  []RelatorioPorMetodo `json:"por_metodo"`
	Suprimentos decimal.Decimal     `json:"suprimentos"`
	Sangrias   decimal.Decimal      `json:"sangrias"`
	Entradas   decimal.Decimal      `json:"entradas"`
}

type RelatorioCaixaResponse struct {
	Periodo     string               `json:"periodo"`
	DataInicio  string               `json:"data_inicio"`
	DataFim     string               `json:"data_fim"`
	Caixas      []RelatorioCaixaItem `json:"caixas"`
	QuebraTotal decimal.Decimal      `json:"quebra_total"`
}
