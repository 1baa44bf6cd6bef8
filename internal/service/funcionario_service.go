package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"varejopos/internal/apierror"
	"varejopos/internal/dto"
	"varejopos/internal/model"
	"varejopos/internal/repository"
)

type FuncionarioService interface {
	Criar(ctx context.Context, req dto.CriarFuncionarioRequest) (*dto.FuncionarioResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarFuncionarioRequest) (*dto.FuncionarioResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.FuncionarioResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.FuncionarioListResponse, error)
	DefinirPin(ctx context.Context, id uuid.UUID, pin string) error
}

type funcionarioService struct {
	funcionarios repository.FuncionarioRepository
	clientes     repository.ClienteRepository
}

func NewFuncionarioService(funcionarios repository.FuncionarioRepository, clientes repository.ClienteRepository) FuncionarioService {
	return &funcionarioService{funcionarios: funcionarios, clientes: clientes}
}

// Criar registers the pessoa once and hangs both views off it: the
// funcionario (staff) and the mirrored cliente that makes the employee
// eligible for crediário purchases.
func (s *funcionarioService) Criar(ctx context.Context, req dto.CriarFuncionarioRequest) (*dto.FuncionarioResponse, error) {
	if !model.CargoValido(req.Cargo) {
		return nil, apierror.New(apierror.CodeValidation, "Cargo desconhecido")
	}
	unidadeID, err := uuid.Parse(req.UnidadeID)
	if err != nil {
		return nil, apierror.New(apierror.CodeValidation, "unidade_id inválido")
	}
	if _, err := s.funcionarios.FindPessoaPorCPF(ctx, req.CPF); err == nil {
		return nil, apierror.Conflict("Já existe pessoa cadastrada com este CPF")
	}

	senhaHash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), 12)
	if err != nil {
		return nil, err
	}
	var pinHash *string
	if req.Pin != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*req.Pin), 12)
		if err != nil {
			return nil, err
		}
		hs := string(h)
		pinHash = &hs
	}

	hash := string(senhaHash)
	pessoa := model.Pessoa{
		NomeCompleto: req.NomeCompleto,
		CPF:          &req.CPF,
		Email:        req.Email,
		Telefone:     req.Telefone,
		Login:        &req.Login,
		SenhaHash:    &hash,
	}
	funcionario := model.Funcionario{
		UnidadeID: unidadeID,
		Cargo:     model.Cargo(req.Cargo),
		Ativo:     true,
		PinHash:   pinHash,
	}
	limite := decimal.Zero
	if req.LimiteCredito != nil {
		limite = *req.LimiteCredito
	}
	cliente := model.Cliente{Ativo: true, LimiteCredito: limite}

	txErr := runTx(ctx, s.funcionarios.DB(), func(tx *gorm.DB) error {
		if err := s.funcionarios.CreatePessoaTx(tx, &pessoa); err != nil {
			return err
		}
		funcionario.PessoaID = pessoa.ID
		if err := s.funcionarios.CreateTx(tx, &funcionario); err != nil {
			return err
		}
		cliente.PessoaID = pessoa.ID
		return s.clientes.CreateTx(tx, &cliente)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("funcionario_id", funcionario.ID.String()).
		Str("cargo", req.Cargo).
		Msg("funcionário criado")

	funcionario.Pessoa = &pessoa
	return funcionarioToResponse(&funcionario, cliente.ID.String()), nil
}

func (s *funcionarioService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarFuncionarioRequest) (*dto.FuncionarioResponse, error) {
	f, err := s.funcionarios.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Funcionário não encontrado")
	}
	if req.Cargo != nil {
		if !model.CargoValido(*req.Cargo) {
			return nil, apierror.New(apierror.CodeValidation, "Cargo desconhecido")
		}
		f.Cargo = model.Cargo(*req.Cargo)
	}
	if req.Ativo != nil {
		f.Ativo = *req.Ativo
	}
	if err := s.funcionarios.Update(ctx, f); err != nil {
		return nil, err
	}

	if f.Pessoa != nil && (req.NomeCompleto != nil || req.Email != nil || req.Telefone != nil) {
		if req.NomeCompleto != nil {
			f.Pessoa.NomeCompleto = *req.NomeCompleto
		}
		if req.Email != nil {
			f.Pessoa.Email = req.Email
		}
		if req.Telefone != nil {
			f.Pessoa.Telefone = req.Telefone
		}
		if err := s.funcionarios.UpdatePessoa(ctx, f.Pessoa); err != nil {
			return nil, err
		}
	}
	return funcionarioToResponse(f, s.clienteEspelho(ctx, f)), nil
}

func (s *funcionarioService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.FuncionarioResponse, error) {
	f, err := s.funcionarios.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Funcionário não encontrado")
	}
	return funcionarioToResponse(f, s.clienteEspelho(ctx, f)), nil
}

func (s *funcionarioService) Listar(ctx context.Context, page, limit int) (*dto.FuncionarioListResponse, error) {
	funcs, total, err := s.funcionarios.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.FuncionarioListResponse{
		Data:  make([]dto.FuncionarioResponse, 0, len(funcs)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range funcs {
		resp.Data = append(resp.Data, *funcionarioToResponse(&funcs[i], s.clienteEspelho(ctx, &funcs[i])))
	}
	return resp, nil
}

func (s *funcionarioService) DefinirPin(ctx context.Context, id uuid.UUID, pin string) error {
	f, err := s.funcionarios.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Funcionário não encontrado")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pin), 12)
	if err != nil {
		return err
	}
	hs := string(h)
	f.PinHash = &hs
	return s.funcionarios.Update(ctx, f)
}

func (s *funcionarioService) clienteEspelho(ctx context.Context, f *model.Funcionario) string {
	if c, err := s.clientes.FindByPessoaID(ctx, f.PessoaID); err == nil {
		return c.ID.String()
	}
	return ""
}

func funcionarioToResponse(f *model.Funcionario, clienteID string) *dto.FuncionarioResponse {
	resp := &dto.FuncionarioResponse{
		ID:        f.ID.String(),
		PessoaID:  f.PessoaID.String(),
		Cargo:     string(f.Cargo),
		UnidadeID: f.UnidadeID.String(),
		Ativo:     f.Ativo,
		PossuiPin: f.PinHash != nil,
		ClienteID: clienteID,
	}
	if f.Pessoa != nil {
		resp.NomeCompleto = f.Pessoa.NomeCompleto
		resp.CPF = f.Pessoa.CPF
		resp.Email = f.Pessoa.Email
		resp.Telefone = f.Pessoa.Telefone
	}
	return resp
}
