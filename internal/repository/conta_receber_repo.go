package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"varejopos/internal/model"
)

type ContaReceberRepository interface {
	CreateTx(tx *gorm.DB, c *model.ContaReceber) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ContaReceber, error)
	ListPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.ContaReceber, error)
	FindPorVenda(ctx context.Context, vendaID uuid.UUID) (*model.ContaReceber, error)
	// SomarDividaAberta totals the outstanding balance (original - paid over
	// unpaid installments) across the cliente's open contas.
	SomarDividaAberta(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error)

	// UpdateParcelaTx applies a payment only if the installment still holds
	// the version read by the service; ok=false means a concurrent payment
	// won and the unit of work must fail.
	UpdateParcelaTx(tx *gorm.DB, p *model.Parcela, versaoLida int) (bool, error)
	UpdateStatusContaTx(tx *gorm.DB, id uuid.UUID, status string) error
	// CancelarContaTx removes the conta and its installments when the parent
	// sale is cancelled before any payment.
	CancelarContaTx(tx *gorm.DB, id uuid.UUID) error

	// ListParcelasVencidas feeds the overdue sweep: PENDENTE installments
	// whose due date is before ref.
	ListParcelasVencidas(ctx context.Context, ref time.Time, limit int) ([]model.Parcela, error)
	MarcarAtrasada(ctx context.Context, parcelaID uuid.UUID, versaoLida int) (bool, error)

	DB() *gorm.DB
}

type contaReceberRepo struct{ db *gorm.DB }

func NewContaReceberRepository(db *gorm.DB) ContaReceberRepository { return &contaReceberRepo{db: db} }

func (r *contaReceberRepo) DB() *gorm.DB { return r.db }

func (r *contaReceberRepo) CreateTx(tx *gorm.DB, c *model.ContaReceber) error {
	return tx.Create(c).Error
}

func (r *contaReceberRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ContaReceber, error) {
	var c model.ContaReceber
	err := r.db.WithContext(ctx).
		Preload("Cliente.Pessoa").
		Preload("Parcelas", func(db *gorm.DB) *gorm.DB {
			return db.Order("numero_parcela ASC")
		}).
		First(&c, id).Error
	return &c, err
}

func (r *contaReceberRepo) ListPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.ContaReceber, error) {
	var contas []model.ContaReceber
	err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Preload("Parcelas", func(db *gorm.DB) *gorm.DB {
			return db.Order("numero_parcela ASC")
		}).
		Order("data_criacao DESC").
		Find(&contas).Error
	return contas, err
}

func (r *contaReceberRepo) FindPorVenda(ctx context.Context, vendaID uuid.UUID) (*model.ContaReceber, error) {
	var c model.ContaReceber
	err := r.db.WithContext(ctx).
		Where("venda_id = ?", vendaID).
		Preload("Parcelas").
		First(&c).Error
	return &c, err
}

func (r *contaReceberRepo) SomarDividaAberta(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Parcela{}).
		Select("COALESCE(SUM(parcelas.valor_original - parcelas.valor_pago), 0)").
		Joins("JOIN contas_receber ON contas_receber.id = parcelas.conta_receber_id").
		Where("contas_receber.cliente_id = ? AND contas_receber.status = ? AND parcelas.status <> ?",
			clienteID, model.StatusContaAberta, model.StatusParcelaPaga).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *contaReceberRepo) UpdateParcelaTx(tx *gorm.DB, p *model.Parcela, versaoLida int) (bool, error) {
	res := tx.Model(&model.Parcela{}).
		Where("id = ? AND versao = ?", p.ID, versaoLida).
		Updates(map[string]interface{}{
			"valor_pago":     p.ValorPago,
			"status":         p.Status,
			"data_pagamento": p.DataPagamento,
			"versao":         versaoLida + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *contaReceberRepo) UpdateStatusContaTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.ContaReceber{}).Where("id = ?", id).Update("status", status).Error
}

func (r *contaReceberRepo) CancelarContaTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("conta_receber_id = ?", id).Delete(&model.Parcela{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.ContaReceber{}, id).Error
}

func (r *contaReceberRepo) ListParcelasVencidas(ctx context.Context, ref time.Time, limit int) ([]model.Parcela, error) {
	var parcelas []model.Parcela
	err := r.db.WithContext(ctx).
		Where("status = ? AND data_vencimento < ?", model.StatusParcelaPendente, ref).
		Preload("ContaReceber.Cliente.Pessoa").
		Order("data_vencimento ASC").
		Limit(limit).
		Find(&parcelas).Error
	return parcelas, err
}

func (r *contaReceberRepo) MarcarAtrasada(ctx context.Context, parcelaID uuid.UUID, versaoLida int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Parcela{}).
		Where("id = ? AND versao = ? AND status = ?", parcelaID, versaoLida, model.StatusParcelaPendente).
		Updates(map[string]interface{}{
			"status": model.StatusParcelaAtrasada,
			"versao": versaoLida + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
