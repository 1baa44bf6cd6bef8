package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"varejopos/internal/model"
)

type EstoqueRepository interface {
	FindSaldo(ctx context.Context, unidadeID, variacaoID uuid.UUID) (*model.EstoqueSaldo, error)
	ListPorUnidade(ctx context.Context, unidadeID uuid.UUID) ([]model.EstoqueSaldo, error)
	Upsert(ctx context.Context, s *model.EstoqueSaldo) error

	// DecrementarTx subtracts qty inside tx with a guard against going
	// negative. Returns gorm.ErrRecordNotFound semantics via ok=false when
	// the guard rejects the update (insufficient stock or missing row).
	DecrementarTx(tx *gorm.DB, unidadeID, variacaoID uuid.UUID, qty int) (bool, error)
	// IncrementarTx adds qty back (cancel path). Creates no row: the balance
	// must already exist because a sale decremented it.
	IncrementarTx(tx *gorm.DB, unidadeID, variacaoID uuid.UUID, qty int) (bool, error)

	DB() *gorm.DB
}

type estoqueRepo struct{ db *gorm.DB }

func NewEstoqueRepository(db *gorm.DB) EstoqueRepository { return &estoqueRepo{db: db} }

func (r *estoqueRepo) DB() *gorm.DB { return r.db }

func (r *estoqueRepo) FindSaldo(ctx context.Context, unidadeID, variacaoID uuid.UUID) (*model.EstoqueSaldo, error) {
	var s model.EstoqueSaldo
	err := r.db.WithContext(ctx).
		Where("unidade_id = ? AND produto_variacao_id = ?", unidadeID, variacaoID).
		First(&s).Error
	return &s, err
}

func (r *estoqueRepo) ListPorUnidade(ctx context.Context, unidadeID uuid.UUID) ([]model.EstoqueSaldo, error) {
	var saldos []model.EstoqueSaldo
	err := r.db.WithContext(ctx).
		Where("unidade_id = ?", unidadeID).
		Preload("Variacao.Pai").
		Find(&saldos).Error
	return saldos, err
}

func (r *estoqueRepo) Upsert(ctx context.Context, s *model.EstoqueSaldo) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *estoqueRepo) DecrementarTx(tx *gorm.DB, unidadeID, variacaoID uuid.UUID, qty int) (bool, error) {
	// The quantidade_atual >= qty guard makes the decrement race-safe: two
	// concurrent sales both pass the read check but only one UPDATE matches.
	res := tx.Model(&model.EstoqueSaldo{}).
		Where("unidade_id = ? AND produto_variacao_id = ? AND quantidade_atual >= ?", unidadeID, variacaoID, qty).
		Update("quantidade_atual", gorm.Expr("quantidade_atual - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *estoqueRepo) IncrementarTx(tx *gorm.DB, unidadeID, variacaoID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.EstoqueSaldo{}).
		Where("unidade_id = ? AND produto_variacao_id = ?", unidadeID, variacaoID).
		Update("quantidade_atual", gorm.Expr("quantidade_atual + ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
