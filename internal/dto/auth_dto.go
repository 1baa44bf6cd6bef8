package dto

type LoginRequest struct {
	Login string `json:"login" validate:"required,min=3"`
	Senha string `json:"senha" validate:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Funcionario  UsuarioResponse `json:"funcionario"`
}

// UsuarioResponse is the authenticated identity echoed back on login.
type UsuarioResponse struct {
	FuncionarioID string `json:"funcionario_id"`
	PessoaID      string `json:"pessoa_id"`
	Nome          string `json:"nome"`
	Cargo         string `json:"cargo"`
	UnidadeID     string `json:"unidade_id"`
}
