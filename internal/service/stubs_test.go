package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"varejopos/internal/dto"
	"varejopos/internal/model"
)

// In-memory repository stubs. DB() returns nil so runTx runs the unit of work
// directly, without a real transaction.

// ─── funcionarios ────────────────────────────────────────────────────────────

type stubFuncionarioRepo struct {
	funcionarios map[uuid.UUID]*model.Funcionario
	pessoas      map[uuid.UUID]*model.Pessoa
}

func newStubFuncionarioRepo() *stubFuncionarioRepo {
	return &stubFuncionarioRepo{
		funcionarios: map[uuid.UUID]*model.Funcionario{},
		pessoas:      map[uuid.UUID]*model.Pessoa{},
	}
}

func (r *stubFuncionarioRepo) DB() *gorm.DB { return nil }

func (r *stubFuncionarioRepo) CreateTx(_ *gorm.DB, f *model.Funcionario) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.funcionarios[f.ID] = f
	return nil
}

func (r *stubFuncionarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Funcionario, error) {
	f, ok := r.funcionarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *stubFuncionarioRepo) FindByLogin(_ context.Context, login string) (*model.Funcionario, error) {
	for _, f := range r.funcionarios {
		p := r.pessoas[f.PessoaID]
		if f.Ativo && p != nil && p.Login != nil && *p.Login == login {
			f.Pessoa = p
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubFuncionarioRepo) FindByPessoaID(_ context.Context, pessoaID uuid.UUID) (*model.Funcionario, error) {
	for _, f := range r.funcionarios {
		if f.PessoaID == pessoaID {
			f.Pessoa = r.pessoas[pessoaID]
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubFuncionarioRepo) List(_ context.Context, _, _ int) ([]model.Funcionario, int64, error) {
	out := make([]model.Funcionario, 0, len(r.funcionarios))
	for _, f := range r.funcionarios {
		out = append(out, *f)
	}
	return out, int64(len(out)), nil
}

func (r *stubFuncionarioRepo) Update(_ context.Context, f *model.Funcionario) error {
	r.funcionarios[f.ID] = f
	return nil
}

func (r *stubFuncionarioRepo) CreatePessoaTx(_ *gorm.DB, p *model.Pessoa) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pessoas[p.ID] = p
	return nil
}

func (r *stubFuncionarioRepo) UpdatePessoa(_ context.Context, p *model.Pessoa) error {
	r.pessoas[p.ID] = p
	return nil
}

func (r *stubFuncionarioRepo) FindPessoaPorCPF(_ context.Context, cpf string) (*model.Pessoa, error) {
	for _, p := range r.pessoas {
		if p.CPF != nil && *p.CPF == cpf {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ─── clientes ────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: map[uuid.UUID]*model.Cliente{}}
}

func (r *stubClienteRepo) DB() *gorm.DB { return nil }

func (r *stubClienteRepo) CreateTx(_ *gorm.DB, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) FindByPessoaID(_ context.Context, pessoaID uuid.UUID) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.PessoaID == pessoaID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(_ context.Context, _, _ int) ([]model.Cliente, int64, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

// ─── produtos ────────────────────────────────────────────────────────────────

type stubProdutoRepo struct {
	produtos  map[uuid.UUID]*model.ProdutoPai
	variacoes map[uuid.UUID]*model.ProdutoVariacao
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{
		produtos:  map[uuid.UUID]*model.ProdutoPai{},
		variacoes: map[uuid.UUID]*model.ProdutoVariacao{},
	}
}

func (r *stubProdutoRepo) DB() *gorm.DB { return nil }

func (r *stubProdutoRepo) Create(_ context.Context, p *model.ProdutoPai) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Variacoes {
		if p.Variacoes[i].ID == uuid.Nil {
			p.Variacoes[i].ID = uuid.New()
		}
		p.Variacoes[i].ProdutoPaiID = p.ID
		r.variacoes[p.Variacoes[i].ID] = &p.Variacoes[i]
	}
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProdutoPai, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProdutoRepo) FindVariacaoByID(_ context.Context, id uuid.UUID) (*model.ProdutoVariacao, error) {
	v, ok := r.variacoes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v.Pai == nil {
		v.Pai = r.produtos[v.ProdutoPaiID]
	}
	return v, nil
}

func (r *stubProdutoRepo) List(_ context.Context, filter dto.ProdutoFilter) ([]model.ProdutoPai, int64, error) {
	out := make([]model.ProdutoPai, 0, len(r.produtos))
	for _, p := range r.produtos {
		if filter.Nome != "" && !strings.Contains(strings.ToLower(p.Nome), strings.ToLower(filter.Nome)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.ProdutoPai) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) CreateVariacao(_ context.Context, v *model.ProdutoVariacao) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variacoes[v.ID] = v
	return nil
}

func (r *stubProdutoRepo) UpdateVariacao(_ context.Context, v *model.ProdutoVariacao) error {
	r.variacoes[v.ID] = v
	return nil
}

// ─── estoque ─────────────────────────────────────────────────────────────────

type chaveEstoque struct {
	unidadeID  uuid.UUID
	variacaoID uuid.UUID
}

type stubEstoqueRepo struct {
	saldos map[chaveEstoque]*model.EstoqueSaldo
}

func newStubEstoqueRepo() *stubEstoqueRepo {
	return &stubEstoqueRepo{saldos: map[chaveEstoque]*model.EstoqueSaldo{}}
}

func (r *stubEstoqueRepo) DB() *gorm.DB { return nil }

func (r *stubEstoqueRepo) definir(unidadeID, variacaoID uuid.UUID, qty int) {
	r.saldos[chaveEstoque{unidadeID, variacaoID}] = &model.EstoqueSaldo{
		UnidadeID:         unidadeID,
		ProdutoVariacaoID: variacaoID,
		QuantidadeAtual:   qty,
	}
}

func (r *stubEstoqueRepo) quantidade(unidadeID, variacaoID uuid.UUID) int {
	if s, ok := r.saldos[chaveEstoque{unidadeID, variacaoID}]; ok {
		return s.QuantidadeAtual
	}
	return 0
}

func (r *stubEstoqueRepo) FindSaldo(_ context.Context, unidadeID, variacaoID uuid.UUID) (*model.EstoqueSaldo, error) {
	s, ok := r.saldos[chaveEstoque{unidadeID, variacaoID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubEstoqueRepo) ListPorUnidade(_ context.Context, unidadeID uuid.UUID) ([]model.EstoqueSaldo, error) {
	var out []model.EstoqueSaldo
	for k, s := range r.saldos {
		if k.unidadeID == unidadeID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubEstoqueRepo) Upsert(_ context.Context, s *model.EstoqueSaldo) error {
	r.saldos[chaveEstoque{s.UnidadeID, s.ProdutoVariacaoID}] = s
	return nil
}

func (r *stubEstoqueRepo) DecrementarTx(_ *gorm.DB, unidadeID, variacaoID uuid.UUID, qty int) (bool, error) {
	s, ok := r.saldos[chaveEstoque{unidadeID, variacaoID}]
	if !ok || s.QuantidadeAtual < qty {
		return false, nil
	}
	s.QuantidadeAtual -= qty
	return true, nil
}

func (r *stubEstoqueRepo) IncrementarTx(_ *gorm.DB, unidadeID, variacaoID uuid.UUID, qty int) (bool, error) {
	s, ok := r.saldos[chaveEstoque{unidadeID, variacaoID}]
	if !ok {
		return false, nil
	}
	s.QuantidadeAtual += qty
	return true, nil
}

// ─── caixas ──────────────────────────────────────────────────────────────────

type stubCaixaRepo struct {
	caixas        map[uuid.UUID]*model.Caixa
	movimentacoes []model.CaixaMovimentacao
	// vendasPorCaixa feeds SomarVendasRealizadas; pagamentosPorCaixa feeds
	// SomarPagamentosPorMetodo. Tests set both directly.
	vendasPorCaixa     map[uuid.UUID]decimal.Decimal
	pagamentosPorCaixa map[uuid.UUID]map[string]decimal.Decimal
}

func newStubCaixaRepo() *stubCaixaRepo {
	return &stubCaixaRepo{
		caixas:             map[uuid.UUID]*model.Caixa{},
		vendasPorCaixa:     map[uuid.UUID]decimal.Decimal{},
		pagamentosPorCaixa: map[uuid.UUID]map[string]decimal.Decimal{},
	}
}

func (r *stubCaixaRepo) DB() *gorm.DB { return nil }

func (r *stubCaixaRepo) Create(_ context.Context, c *model.Caixa) error {
	for _, existente := range r.caixas {
		if existente.FuncionarioID == c.FuncionarioID && existente.Status == model.StatusCaixaAberto {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.caixas[c.ID] = c
	return nil
}

// Finds return detached copies, as a real row scan would, so callers that
// mutate the result cannot bypass the conditional guards.
func (r *stubCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	c, ok := r.caixas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCaixaRepo) FindAbertoPorFuncionario(_ context.Context, funcionarioID uuid.UUID) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.FuncionarioID == funcionarioID && c.Status == model.StatusCaixaAberto {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCaixaRepo) FecharTx(_ *gorm.DB, c *model.Caixa) (bool, error) {
	atual, ok := r.caixas[c.ID]
	if !ok || atual.Status != model.StatusCaixaAberto {
		return false, nil
	}
	cp := *c
	r.caixas[c.ID] = &cp
	return true, nil
}

func (r *stubCaixaRepo) ListPorPeriodo(_ context.Context, inicio, fim time.Time, funcionarioID *uuid.UUID, status string) ([]model.Caixa, error) {
	var out []model.Caixa
	for _, c := range r.caixas {
		if c.DataAbertura.Before(inicio) || !c.DataAbertura.Before(fim) {
			continue
		}
		if funcionarioID != nil && c.FuncionarioID != *funcionarioID {
			continue
		}
		if status != "" && status != "all" && c.Status != status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCaixaRepo) CreateMovimentacaoTx(_ *gorm.DB, m *model.CaixaMovimentacao) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimentacoes = append(r.movimentacoes, *m)
	return nil
}

func (r *stubCaixaRepo) ListMovimentacoes(_ context.Context, caixaID uuid.UUID) ([]model.CaixaMovimentacao, error) {
	var out []model.CaixaMovimentacao
	for _, m := range r.movimentacoes {
		if m.CaixaID == caixaID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubCaixaRepo) SomarMovimentacoesPorTipo(_ context.Context, caixaID uuid.UUID, tipo string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movimentacoes {
		if m.CaixaID == caixaID && m.Tipo == tipo {
			total = total.Add(m.Valor)
		}
	}
	return total, nil
}

func (r *stubCaixaRepo) SomarVendasRealizadas(_ context.Context, caixaID uuid.UUID) (decimal.Decimal, error) {
	return r.vendasPorCaixa[caixaID], nil
}

func (r *stubCaixaRepo) SomarPagamentosPorMetodo(_ context.Context, caixaID uuid.UUID) (map[string]decimal.Decimal, error) {
	if m, ok := r.pagamentosPorCaixa[caixaID]; ok {
		return m, nil
	}
	return map[string]decimal.Decimal{}, nil
}

// ─── vendas ──────────────────────────────────────────────────────────────────

type stubVendaRepo struct {
	vendas     map[uuid.UUID]*model.Venda
	evidencias []model.VendaEvidencia
}

func newStubVendaRepo() *stubVendaRepo {
	return &stubVendaRepo{vendas: map[uuid.UUID]*model.Venda{}}
}

func (r *stubVendaRepo) DB() *gorm.DB { return nil }

func (r *stubVendaRepo) CreateTx(_ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vendas[v.ID] = v
	return nil
}

func (r *stubVendaRepo) CreateEvidenciaTx(_ *gorm.DB, e *model.VendaEvidencia) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.evidencias = append(r.evidencias, *e)
	return nil
}

func (r *stubVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVendaRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	v, ok := r.vendas[id]
	if !ok || v.Status != from {
		return false, nil
	}
	v.Status = to
	return true, nil
}

func (r *stubVendaRepo) List(_ context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var out []model.Venda
	for _, v := range r.vendas {
		if filter.Status != "" && filter.Status != "all" && v.Status != filter.Status {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

// ─── vouchers ────────────────────────────────────────────────────────────────

type stubVoucherRepo struct {
	vouchers map[uuid.UUID]*model.Voucher
}

func newStubVoucherRepo() *stubVoucherRepo {
	return &stubVoucherRepo{vouchers: map[uuid.UUID]*model.Voucher{}}
}

func (r *stubVoucherRepo) DB() *gorm.DB { return nil }

func (r *stubVoucherRepo) Create(_ context.Context, v *model.Voucher) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vouchers[v.ID] = v
	return nil
}

func (r *stubVoucherRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Voucher, error) {
	v, ok := r.vouchers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVoucherRepo) FindAtivoPorCodigo(_ context.Context, codigo string) (*model.Voucher, error) {
	for _, v := range r.vouchers {
		if v.Codigo == codigo && v.Ativo {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVoucherRepo) List(_ context.Context) ([]model.Voucher, int64, error) {
	out := make([]model.Voucher, 0, len(r.vouchers))
	for _, v := range r.vouchers {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVoucherRepo) Update(_ context.Context, v *model.Voucher) error {
	r.vouchers[v.ID] = v
	return nil
}

func (r *stubVoucherRepo) ConsumirTx(_ *gorm.DB, id uuid.UUID) (bool, error) {
	v, ok := r.vouchers[id]
	if !ok || v.QuantidadeDisponivel <= 0 {
		return false, nil
	}
	v.QuantidadeDisponivel--
	return true, nil
}

// ─── contas a receber ────────────────────────────────────────────────────────

type stubContaRepo struct {
	contas map[uuid.UUID]*model.ContaReceber
}

func newStubContaRepo() *stubContaRepo {
	return &stubContaRepo{contas: map[uuid.UUID]*model.ContaReceber{}}
}

func (r *stubContaRepo) DB() *gorm.DB { return nil }

func (r *stubContaRepo) CreateTx(_ *gorm.DB, c *model.ContaReceber) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Parcelas {
		if c.Parcelas[i].ID == uuid.Nil {
			c.Parcelas[i].ID = uuid.New()
		}
		c.Parcelas[i].ContaReceberID = c.ID
	}
	r.contas[c.ID] = c
	return nil
}

func (r *stubContaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ContaReceber, error) {
	c, ok := r.contas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(c.Parcelas, func(i, j int) bool {
		return c.Parcelas[i].NumeroParcela < c.Parcelas[j].NumeroParcela
	})
	return c, nil
}

func (r *stubContaRepo) ListPorCliente(_ context.Context, clienteID uuid.UUID) ([]model.ContaReceber, error) {
	var out []model.ContaReceber
	for _, c := range r.contas {
		if c.ClienteID == clienteID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubContaRepo) FindPorVenda(_ context.Context, vendaID uuid.UUID) (*model.ContaReceber, error) {
	for _, c := range r.contas {
		if c.VendaID == vendaID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubContaRepo) SomarDividaAberta(_ context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range r.contas {
		if c.ClienteID != clienteID || c.Status != model.StatusContaAberta {
			continue
		}
		for i := range c.Parcelas {
			if !c.Parcelas[i].Quitada() {
				total = total.Add(c.Parcelas[i].SaldoDevedor())
			}
		}
	}
	return total, nil
}

func (r *stubContaRepo) UpdateParcelaTx(_ *gorm.DB, p *model.Parcela, versaoLida int) (bool, error) {
	for _, c := range r.contas {
		for i := range c.Parcelas {
			if c.Parcelas[i].ID == p.ID {
				if c.Parcelas[i].Versao != versaoLida {
					return false, nil
				}
				atual := *p
				atual.Versao = versaoLida + 1
				c.Parcelas[i] = atual
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *stubContaRepo) UpdateStatusContaTx(_ *gorm.DB, id uuid.UUID, status string) error {
	if c, ok := r.contas[id]; ok {
		c.Status = status
	}
	return nil
}

func (r *stubContaRepo) CancelarContaTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.contas, id)
	return nil
}

func (r *stubContaRepo) ListParcelasVencidas(_ context.Context, ref time.Time, limit int) ([]model.Parcela, error) {
	var out []model.Parcela
	for _, c := range r.contas {
		for i := range c.Parcelas {
			p := c.Parcelas[i]
			if p.Status == model.StatusParcelaPendente && p.DataVencimento.Before(ref) {
				p.ContaReceber = c
				out = append(out, p)
				if len(out) == limit {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

func (r *stubContaRepo) MarcarAtrasada(_ context.Context, parcelaID uuid.UUID, versaoLida int) (bool, error) {
	for _, c := range r.contas {
		for i := range c.Parcelas {
			if c.Parcelas[i].ID == parcelaID {
				p := &c.Parcelas[i]
				if p.Versao != versaoLida || p.Status != model.StatusParcelaPendente {
					return false, nil
				}
				p.Status = model.StatusParcelaAtrasada
				p.Versao++
				return true, nil
			}
		}
	}
	return false, nil
}
