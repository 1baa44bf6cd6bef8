package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"varejopos/internal/model"
)

type VoucherRepository interface {
	Create(ctx context.Context, v *model.Voucher) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error)
	FindAtivoPorCodigo(ctx context.Context, codigo string) (*model.Voucher, error)
	List(ctx context.Context) ([]model.Voucher, int64, error)
	Update(ctx context.Context, v *model.Voucher) error
	// ConsumirTx decrements quantidade_disponivel with a > 0 guard so two
	// concurrent sales cannot both spend the last redemption.
	ConsumirTx(tx *gorm.DB, id uuid.UUID) (bool, error)

	DB() *gorm.DB
}

type voucherRepo struct{ db *gorm.DB }

func NewVoucherRepository(db *gorm.DB) VoucherRepository { return &voucherRepo{db: db} }

func (r *voucherRepo) DB() *gorm.DB { return r.db }

func (r *voucherRepo) Create(ctx context.Context, v *model.Voucher) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *voucherRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error) {
	var v model.Voucher
	err := r.db.WithContext(ctx).First(&v, id).Error
	return &v, err
}

func (r *voucherRepo) FindAtivoPorCodigo(ctx context.Context, codigo string) (*model.Voucher, error) {
	var v model.Voucher
	err := r.db.WithContext(ctx).
		Where("codigo = ? AND ativo = true", codigo).
		First(&v).Error
	return &v, err
}

func (r *voucherRepo) List(ctx context.Context) ([]model.Voucher, int64, error) {
	var vouchers []model.Voucher
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Voucher{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Find(&vouchers).Error
	return vouchers, total, err
}

func (r *voucherRepo) Update(ctx context.Context, v *model.Voucher) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *voucherRepo) ConsumirTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Model(&model.Voucher{}).
		Where("id = ? AND quantidade_disponivel > 0", id).
		Update("quantidade_disponivel", gorm.Expr("quantidade_disponivel - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
