package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"varejopos/internal/apierror"
	"varejopos/internal/dto"
	"varejopos/internal/model"
	"varejopos/internal/repository"
)

type ClienteService interface {
	Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error)
	DefinirLimite(ctx context.Context, id uuid.UUID, limite decimal.Decimal) (*dto.ClienteResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.ClienteListResponse, error)
}

type clienteService struct {
	clientes     repository.ClienteRepository
	funcionarios repository.FuncionarioRepository
}

func NewClienteService(clientes repository.ClienteRepository, funcionarios repository.FuncionarioRepository) ClienteService {
	return &clienteService{clientes: clientes, funcionarios: funcionarios}
}

// Criar registers a walk-in customer: a pessoa with a cliente view and no
// funcionario view (which is exactly what keeps them off crediário).
func (s *clienteService) Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	if req.CPF != nil {
		if _, err := s.funcionarios.FindPessoaPorCPF(ctx, *req.CPF); err == nil {
			return nil, apierror.Conflict("Já existe pessoa cadastrada com este CPF")
		}
	}

	pessoa := model.Pessoa{
		NomeCompleto: req.NomeCompleto,
		CPF:          req.CPF,
		Email:        req.Email,
		Telefone:     req.Telefone,
	}
	limite := decimal.Zero
	if req.LimiteCredito != nil {
		limite = *req.LimiteCredito
	}
	cliente := model.Cliente{Ativo: true, LimiteCredito: limite}

	txErr := runTx(ctx, s.clientes.DB(), func(tx *gorm.DB) error {
		if err := s.funcionarios.CreatePessoaTx(tx, &pessoa); err != nil {
			return err
		}
		cliente.PessoaID = pessoa.ID
		return s.clientes.CreateTx(tx, &cliente)
	})
	if txErr != nil {
		return nil, txErr
	}

	cliente.Pessoa = &pessoa
	return s.clienteToResponse(ctx, &cliente), nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Cliente não encontrado")
	}
	if req.Ativo != nil {
		c.Ativo = *req.Ativo
	}
	if err := s.clientes.Update(ctx, c); err != nil {
		return nil, err
	}
	if c.Pessoa != nil && (req.NomeCompleto != nil || req.Email != nil || req.Telefone != nil) {
		if req.NomeCompleto != nil {
			c.Pessoa.NomeCompleto = *req.NomeCompleto
		}
		if req.Email != nil {
			c.Pessoa.Email = req.Email
		}
		if req.Telefone != nil {
			c.Pessoa.Telefone = req.Telefone
		}
		if err := s.funcionarios.UpdatePessoa(ctx, c.Pessoa); err != nil {
			return nil, err
		}
	}
	return s.clienteToResponse(ctx, c), nil
}

func (s *clienteService) DefinirLimite(ctx context.Context, id uuid.UUID, limite decimal.Decimal) (*dto.ClienteResponse, error) {
	if limite.IsNegative() {
		return nil, apierror.New(apierror.CodeValidation, "Limite de crédito não pode ser negativo")
	}
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Cliente não encontrado")
	}
	c.LimiteCredito = limite
	if err := s.clientes.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.clienteToResponse(ctx, c), nil
}

func (s *clienteService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Cliente não encontrado")
	}
	return s.clienteToResponse(ctx, c), nil
}

func (s *clienteService) Listar(ctx context.Context, page, limit int) (*dto.ClienteListResponse, error) {
	clientes, total, err := s.clientes.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.ClienteListResponse{
		Data:  make([]dto.ClienteResponse, 0, len(clientes)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range clientes {
		resp.Data = append(resp.Data, *s.clienteToResponse(ctx, &clientes[i]))
	}
	return resp, nil
}

func (s *clienteService) clienteToResponse(ctx context.Context, c *model.Cliente) *dto.ClienteResponse {
	resp := &dto.ClienteResponse{
		ID:            c.ID.String(),
		PessoaID:      c.PessoaID.String(),
		Ativo:         c.Ativo,
		LimiteCredito: c.LimiteCredito,
	}
	if c.Pessoa != nil {
		resp.NomeCompleto = c.Pessoa.NomeCompleto
		resp.CPF = c.Pessoa.CPF
		resp.Email = c.Pessoa.Email
		resp.Telefone = c.Pessoa.Telefone
	}
	if _, err := s.funcionarios.FindByPessoaID(ctx, c.PessoaID); err == nil {
		resp.Funcionario = true
	}
	return resp
}
