package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CriarFuncionarioRequest creates the pessoa, its funcionario view and the
// mirrored cliente view in one unit of work.
type CriarFuncionarioRequest struct {
	NomeCompleto  string           `json:"nome_completo" validate:"required,min=3"`
	CPF           string           `json:"cpf"           validate:"required,len=11,numeric"`
	Email         *string          `json:"email"         validate:"omitempty,email"`
	Telefone      *string          `json:"telefone"      validate:"omitempty,min=8"`
	Login         string           `json:"login"         validate:"required,min=3"`
	Senha         string           `json:"senha"         validate:"required,min=6"`
	Cargo         string           `json:"cargo"         validate:"required,oneof=ADMIN DONO GERENTE LIDER_VENDA RECEPCIONISTA"`
	UnidadeID     string           `json:"unidade_id"    validate:"required,uuid"`
	Pin           *string          `json:"pin"           validate:"omitempty,len=4,numeric"`
	LimiteCredito *decimal.Decimal `json:"limite_credito" validate:"omitempty"`
}

type AtualizarFuncionarioRequest struct {
	NomeCompleto *string `json:"nome_completo" validate:"omitempty,min=3"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Telefone     *string `json:"telefone"      validate:"omitempty,min=8"`
	Cargo        *string `json:"cargo"         validate:"omitempty,oneof=ADMIN DONO GERENTE LIDER_VENDA RECEPCIONISTA"`
	Ativo        *bool   `json:"ativo"`
}

type DefinirPinRequest struct {
	Pin string `json:"pin" validate:"required,len=4,numeric"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FuncionarioResponse struct {
	ID           string  `json:"id"`
	PessoaID     string  `json:"pessoa_id"`
	NomeCompleto string  `json:"nome_completo"`
	CPF          *string `json:"cpf"`
	Email        *string `json:"email"`
	Telefone     *string `json:"telefone"`
	Cargo        string  `json:"cargo"`
	UnidadeID    string  `json:"unidade_id"`
	Ativo        bool    `json:"ativo"`
	PossuiPin    bool    `json:"possui_pin"`
	ClienteID    string  `json:"cliente_id"`
}

type FuncionarioListResponse struct {
	Data  []FuncionarioResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
