package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"varejopos/internal/dto"
	"varejopos/internal/model"
)

type ProdutoRepository interface {
	Create(ctx context.Context, p *model.ProdutoPai) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProdutoPai, error)
	FindVariacaoByID(ctx context.Context, id uuid.UUID) (*model.ProdutoVariacao, error)
	List(ctx context.Context, filter dto.ProdutoFilter) ([]model.ProdutoPai, int64, error)
	Update(ctx context.Context, p *model.ProdutoPai) error
	CreateVariacao(ctx context.Context, v *model.ProdutoVariacao) error
	UpdateVariacao(ctx context.Context, v *model.ProdutoVariacao) error

	DB() *gorm.DB
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) DB() *gorm.DB { return r.db }

func (r *produtoRepo) Create(ctx context.Context, p *model.ProdutoPai) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProdutoPai, error) {
	var p model.ProdutoPai
	err := r.db.WithContext(ctx).Preload("Variacoes").First(&p, id).Error
	return &p, err
}

func (r *produtoRepo) FindVariacaoByID(ctx context.Context, id uuid.UUID) (*model.ProdutoVariacao, error) {
	var v model.ProdutoVariacao
	err := r.db.WithContext(ctx).Preload("Pai").First(&v, id).Error
	return &v, err
}

func (r *produtoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.ProdutoPai, int64, error) {
	var produtos []model.ProdutoPai
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProdutoPai{})

	switch filter.Ativo {
	case "false":
		q = q.Where("ativo = false")
	case "all":
		// no filter
	default:
		q = q.Where("ativo = true")
	}
	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+filter.Nome+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Variacoes").Order("nome ASC").Limit(filter.Limit).Offset(offset).Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.ProdutoPai) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) CreateVariacao(ctx context.Context, v *model.ProdutoVariacao) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *produtoRepo) UpdateVariacao(ctx context.Context, v *model.ProdutoVariacao) error {
	return r.db.WithContext(ctx).Save(v).Error
}
