package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"varejopos/internal/model"
)

type CaixaRepository interface {
	Create(ctx context.Context, c *model.Caixa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	FindAbertoPorFuncionario(ctx context.Context, funcionarioID uuid.UUID) (*model.Caixa, error)
	// FecharTx closes the caixa only while it is still ABERTO; returns
	// ok=false when another request closed it first.
	FecharTx(tx *gorm.DB, c *model.Caixa) (bool, error)
	ListPorPeriodo(ctx context.Context, inicio, fim time.Time, funcionarioID *uuid.UUID, status string) ([]model.Caixa, error)

	CreateMovimentacaoTx(tx *gorm.DB, m *model.CaixaMovimentacao) error
	ListMovimentacoes(ctx context.Context, caixaID uuid.UUID) ([]model.CaixaMovimentacao, error)
	SomarMovimentacoesPorTipo(ctx context.Context, caixaID uuid.UUID, tipo string) (decimal.Decimal, error)
	SomarVendasRealizadas(ctx context.Context, caixaID uuid.UUID) (decimal.Decimal, error)
	SomarPagamentosPorMetodo(ctx context.Context, caixaID uuid.UUID) (map[string]decimal.Decimal, error)

	DB() *gorm.DB
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) DB() *gorm.DB { return r.db }

func (r *caixaRepo) Create(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Preload("Funcionario.Pessoa").
		Preload("Movimentacoes").
		First(&c, id).Error
	return &c, err
}

func (r *caixaRepo) FindAbertoPorFuncionario(ctx context.Context, funcionarioID uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Where("funcionario_id = ? AND status = ?", funcionarioID, model.StatusCaixaAberto).
		First(&c).Error
	return &c, err
}

func (r *caixaRepo) FecharTx(tx *gorm.DB, c *model.Caixa) (bool, error) {
	res := tx.Model(&model.Caixa{}).
		Where("id = ? AND status = ?", c.ID, model.StatusCaixaAberto).
		Updates(map[string]interface{}{
			"status":              model.StatusCaixaFechado,
			"conferido_dinheiro":  c.ConferidoDinheiro,
			"conferido_pix":       c.ConferidoPix,
			"conferido_debito":    c.ConferidoDebito,
			"conferido_credito":   c.ConferidoCredito,
			"conferido_crediario": c.ConferidoCrediario,
			"sistema_total_vendas": c.SistemaTotalVendas,
			"quebra_de_caixa":     c.QuebraDeCaixa,
			"observacoes":         c.Observacoes,
			"data_fechamento":     c.DataFechamento,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *caixaRepo) ListPorPeriodo(ctx context.Context, inicio, fim time.Time, funcionarioID *uuid.UUID, status string) ([]model.Caixa, error) {
	var caixas []model.Caixa
	q := r.db.WithContext(ctx).
		Where("data_abertura >= ? AND data_abertura < ?", inicio, fim)
	if funcionarioID != nil {
		q = q.Where("funcionario_id = ?", *funcionarioID)
	}
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	err := q.Preload("Funcionario.Pessoa").
		Order("data_abertura ASC").
		Find(&caixas).Error
	return caixas, err
}

func (r *caixaRepo) CreateMovimentacaoTx(tx *gorm.DB, m *model.CaixaMovimentacao) error {
	return tx.Create(m).Error
}

func (r *caixaRepo) ListMovimentacoes(ctx context.Context, caixaID uuid.UUID) ([]model.CaixaMovimentacao, error) {
	var movs []model.CaixaMovimentacao
	err := r.db.WithContext(ctx).
		Where("caixa_id = ?", caixaID).
		Order("data_hora ASC").
		Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) SomarMovimentacoesPorTipo(ctx context.Context, caixaID uuid.UUID, tipo string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.CaixaMovimentacao{}).
		Select("COALESCE(SUM(valor), 0)").
		Where("caixa_id = ? AND tipo = ?", caixaID, tipo).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *caixaRepo) SomarVendasRealizadas(ctx context.Context, caixaID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Venda{}).
		Select("COALESCE(SUM(valor_total), 0)").
		Where("caixa_id = ? AND status = ?", caixaID, model.StatusVendaRealizada).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *caixaRepo) SomarPagamentosPorMetodo(ctx context.Context, caixaID uuid.UUID) (map[string]decimal.Decimal, error) {
	type linha struct {
		FormaPagamento string
		Total          decimal.Decimal
	}
	var linhas []linha
	err := r.db.WithContext(ctx).Model(&model.VendaPagamento{}).
		Select("venda_pagamentos.forma_pagamento, COALESCE(SUM(venda_pagamentos.valor_liquido), 0) AS total").
		Joins("JOIN vendas ON vendas.id = venda_pagamentos.venda_id").
		Where("venda_pagamentos.caixa_id = ? AND vendas.status = ?", caixaID, model.StatusVendaRealizada).
		Group("venda_pagamentos.forma_pagamento").
		Scan(&linhas).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(linhas))
	for _, l := range linhas {
		out[l.FormaPagamento] = l.Total
	}
	return out, nil
}
