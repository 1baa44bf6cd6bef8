package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"varejopos/internal/model"
)

// FuncionarioRepository defines the data access contract for staff records.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type FuncionarioRepository interface {
	CreateTx(tx *gorm.DB, f *model.Funcionario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Funcionario, error)
	FindByLogin(ctx context.Context, login string) (*model.Funcionario, error)
	FindByPessoaID(ctx context.Context, pessoaID uuid.UUID) (*model.Funcionario, error)
	List(ctx context.Context, page, limit int) ([]model.Funcionario, int64, error)
	Update(ctx context.Context, f *model.Funcionario) error

	CreatePessoaTx(tx *gorm.DB, p *model.Pessoa) error
	UpdatePessoa(ctx context.Context, p *model.Pessoa) error
	FindPessoaPorCPF(ctx context.Context, cpf string) (*model.Pessoa, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type funcionarioRepo struct{ db *gorm.DB }

func NewFuncionarioRepository(db *gorm.DB) FuncionarioRepository { return &funcionarioRepo{db: db} }

func (r *funcionarioRepo) DB() *gorm.DB { return r.db }

func (r *funcionarioRepo) CreateTx(tx *gorm.DB, f *model.Funcionario) error {
	return tx.Create(f).Error
}

func (r *funcionarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Funcionario, error) {
	var f model.Funcionario
	err := r.db.WithContext(ctx).Preload("Pessoa").Preload("Unidade").First(&f, id).Error
	return &f, err
}

func (r *funcionarioRepo) FindByLogin(ctx context.Context, login string) (*model.Funcionario, error) {
	var f model.Funcionario
	err := r.db.WithContext(ctx).
		Joins("JOIN pessoas ON pessoas.id = funcionarios.pessoa_id").
		Where("pessoas.login = ? AND funcionarios.ativo = true", login).
		Preload("Pessoa").
		First(&f).Error
	return &f, err
}

func (r *funcionarioRepo) FindByPessoaID(ctx context.Context, pessoaID uuid.UUID) (*model.Funcionario, error) {
	var f model.Funcionario
	err := r.db.WithContext(ctx).Where("pessoa_id = ?", pessoaID).Preload("Pessoa").First(&f).Error
	return &f, err
}

func (r *funcionarioRepo) List(ctx context.Context, page, limit int) ([]model.Funcionario, int64, error) {
	var funcs []model.Funcionario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Funcionario{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Pessoa").
		Offset((page - 1) * limit).Limit(limit).
		Find(&funcs).Error
	return funcs, total, err
}

func (r *funcionarioRepo) Update(ctx context.Context, f *model.Funcionario) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *funcionarioRepo) CreatePessoaTx(tx *gorm.DB, p *model.Pessoa) error {
	return tx.Create(p).Error
}

func (r *funcionarioRepo) UpdatePessoa(ctx context.Context, p *model.Pessoa) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *funcionarioRepo) FindPessoaPorCPF(ctx context.Context, cpf string) (*model.Pessoa, error) {
	var p model.Pessoa
	err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&p).Error
	return &p, err
}
