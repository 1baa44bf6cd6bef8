package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"varejopos/internal/dto"
	"varejopos/internal/model"
)

type VendaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venda) error
	CreateEvidenciaTx(tx *gorm.DB, e *model.VendaEvidencia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	// UpdateStatusTx flips between REALIZADA and CANCELADA; the from guard
	// makes the transition idempotence-safe under concurrent requests.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error)
	List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)

	DB() *gorm.DB
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) DB() *gorm.DB { return r.db }

func (r *vendaRepo) CreateTx(tx *gorm.DB, v *model.Venda) error {
	return tx.Create(v).Error
}

func (r *vendaRepo) CreateEvidenciaTx(tx *gorm.DB, e *model.VendaEvidencia) error {
	return tx.Create(e).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).
		Preload("Itens.Variacao.Pai").
		Preload("Descontos").
		Preload("Pagamentos").
		First(&v, id).Error
	return &v, err
}

func (r *vendaRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	res := tx.Model(&model.Venda{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *vendaRepo) List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venda{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Data != "" {
		q = q.Where("DATE(data_venda) = ?", filter.Data)
	} else {
		q = q.Where("DATE(data_venda) = CURRENT_DATE")
	}
	if filter.FuncionarioID != "" {
		q = q.Where("funcionario_id = ?", filter.FuncionarioID)
	}
	if filter.CaixaID != "" {
		q = q.Where("caixa_id = ?", filter.CaixaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Itens.Variacao.Pai").
		Preload("Descontos").
		Preload("Pagamentos").
		Order("data_venda DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&vendas).Error
	return vendas, total, err
}
