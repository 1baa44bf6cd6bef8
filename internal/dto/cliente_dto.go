package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarClienteRequest struct {
	NomeCompleto  string           `json:"nome_completo" validate:"required,min=3"`
	CPF           *string          `json:"cpf"           validate:"omitempty,len=11,numeric"`
	Email         *string          `json:"email"         validate:"omitempty,email"`
	Telefone      *string          `json:"telefone"      validate:"omitempty,min=8"`
	LimiteCredito *decimal.Decimal `json:"limite_credito" validate:"omitempty"`
}

type AtualizarClienteRequest struct {
	NomeCompleto *string `json:"nome_completo" validate:"omitempty,min=3"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Telefone     *string `json:"telefone"      validate:"omitempty,min=8"`
	Ativo        *bool   `json:"ativo"`
}

type DefinirLimiteRequest struct {
	LimiteCredito decimal.Decimal `json:"limite_credito" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID            string          `json:"id"`
	PessoaID      string          `json:"pessoa_id"`
	NomeCompleto  string          `json:"nome_completo"`
	CPF           *string         `json:"cpf"`
	Email         *string         `json:"email"`
	Telefone      *string         `json:"telefone"`
	Ativo         bool            `json:"ativo"`
	LimiteCredito decimal.Decimal `json:"limite_credito"`
	// Funcionario is true when the same pessoa also has a staff view, which
	// is what makes the cliente eligible for crediário.
	Funcionario bool `json:"funcionario"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
