package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"varejopos/internal/apierror"
	"varejopos/internal/authz"
	"varejopos/internal/dto"
	"varejopos/internal/model"
	"varejopos/internal/repository"
)

type CaixaService interface {
	Abrir(ctx context.Context, funcionarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	Fechar(ctx context.Context, funcionarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error)
	Movimentar(ctx context.Context, funcionarioID uuid.UUID, autorizadorID *uuid.UUID, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.CaixaResponse, error)
	BuscarAberto(ctx context.Context, funcionarioID uuid.UUID) (*dto.CaixaResponse, error)
	GerarRelatorio(ctx context.Context, ator *model.Funcionario, filter dto.RelatorioFilter) (*dto.RelatorioCaixaResponse, error)

	// RegistrarEntradaTx logs a receivable collection into the collector's
	// caixa ledger, inside the payment transaction. ENTRADA movements are
	// informational: they never feed the close-time expectation.
	RegistrarEntradaTx(tx *gorm.DB, caixaID uuid.UUID, valor decimal.Decimal, motivo string, agora time.Time) error
}

type caixaService struct {
	caixas  repository.CaixaRepository
	relogio Relogio
}

func NewCaixaService(caixas repository.CaixaRepository, relogio Relogio) CaixaService {
	return &caixaService{caixas: caixas, relogio: relogio}
}

func (s *caixaService) Abrir(ctx context.Context, funcionarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	if req.SaldoInicial.IsNegative() {
		return nil, apierror.New(apierror.CodeValidation, "Saldo inicial não pode ser negativo")
	}
	if _, err := s.caixas.FindAbertoPorFuncionario(ctx, funcionarioID); err == nil {
		return nil, apierror.AlreadyOpen("Funcionário já possui caixa aberto")
	}

	caixa := &model.Caixa{
		FuncionarioID: funcionarioID,
		SaldoInicial:  req.SaldoInicial,
		Status:        model.StatusCaixaAberto,
		DataAbertura:  s.relogio.Agora(),
	}
	// The partial unique index on (funcionario_id) WHERE status='ABERTO'
	// closes the race two concurrent opens would otherwise win together.
	if err := s.caixas.Create(ctx, caixa); err != nil {
		return nil, apierror.AlreadyOpen("Funcionário já possui caixa aberto")
	}

	log.Info().
		Str("caixa_id", caixa.ID.String()).
		Str("funcionario_id", funcionarioID.String()).
		Str("saldo_inicial", req.SaldoInicial.StringFixed(2)).
		Msg("caixa aberto")
	return caixaToResponse(caixa), nil
}

// Fechar computes the quebra and freezes the session:
//
//	esperado = saldo_inicial + vendas_sistema + suprimentos - sangrias
//	quebra   = total_conferido - esperado
//
// Negative quebra = shortfall, positive = excess. ENTRADA movements do not
// participate.
func (s *caixaService) Fechar(ctx context.Context, funcionarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error) {
	caixa, err := s.caixas.FindAbertoPorFuncionario(ctx, funcionarioID)
	if err != nil {
		return nil, apierror.SessionNotOpen("Funcionário não possui caixa aberto")
	}

	vendas, err := s.caixas.SomarVendasRealizadas(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	suprimentos, err := s.caixas.SomarMovimentacoesPorTipo(ctx, caixa.ID, model.MovimentacaoSuprimento)
	if err != nil {
		return nil, err
	}
	sangrias, err := s.caixas.SomarMovimentacoesPorTipo(ctx, caixa.ID, model.MovimentacaoSangria)
	if err != nil {
		return nil, err
	}

	esperado := caixa.SaldoInicial.Add(vendas).Add(suprimentos).Sub(sangrias)
	conferidoTotal := req.Conferido.Dinheiro.
		Add(req.Conferido.Pix).
		Add(req.Conferido.Debito).
		Add(req.Conferido.Credito).
		Add(req.Conferido.Crediario)
	quebra := conferidoTotal.Sub(esperado)

	agora := s.relogio.Agora()
	caixa.Status = model.StatusCaixaFechado
	caixa.ConferidoDinheiro = &req.Conferido.Dinheiro
	caixa.ConferidoPix = &req.Conferido.Pix
	caixa.ConferidoDebito = &req.Conferido.Debito
	caixa.ConferidoCredito = &req.Conferido.Credito
	caixa.ConferidoCrediario = &req.Conferido.Crediario
	caixa.SistemaTotalVendas = &vendas
	caixa.QuebraDeCaixa = &quebra
	caixa.Observacoes = req.Observacoes
	caixa.DataFechamento = &agora

	err = runTx(ctx, s.caixas.DB(), func(tx *gorm.DB) error {
		ok, err := s.caixas.FecharTx(tx, caixa)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.AlreadyClosed("Caixa já foi fechado")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("caixa_id", caixa.ID.String()).
		Str("esperado", esperado.StringFixed(2)).
		Str("conferido", conferidoTotal.StringFixed(2)).
		Str("quebra", quebra.StringFixed(2)).
		Msg("caixa fechado")
	return caixaToResponse(caixa), nil
}

func (s *caixaService) Movimentar(ctx context.Context, funcionarioID uuid.UUID, autorizadorID *uuid.UUID, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error) {
	caixa, err := s.caixas.FindAbertoPorFuncionario(ctx, funcionarioID)
	if err != nil {
		return nil, apierror.SessionNotOpen("Movimentação exige caixa aberto")
	}
	if !model.MovimentacaoValida(req.Tipo) || req.Tipo == model.MovimentacaoEntrada {
		return nil, apierror.New(apierror.CodeValidation, "Tipo de movimentação inválido")
	}

	mov := &model.CaixaMovimentacao{
		CaixaID:       caixa.ID,
		Tipo:          req.Tipo,
		Valor:         req.Valor,
		Motivo:        req.Motivo,
		AutorizadorID: autorizadorID,
		DataHora:      s.relogio.Agora(),
	}
	err = runTx(ctx, s.caixas.DB(), func(tx *gorm.DB) error {
		return s.caixas.CreateMovimentacaoTx(tx, mov)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("caixa_id", caixa.ID.String()).
		Str("tipo", req.Tipo).
		Str("valor", req.Valor.StringFixed(2)).
		Msg("movimentação registrada")
	return movimentacaoToResponse(mov), nil
}

func (s *caixaService) RegistrarEntradaTx(tx *gorm.DB, caixaID uuid.UUID, valor decimal.Decimal, motivo string, agora time.Time) error {
	return s.caixas.CreateMovimentacaoTx(tx, &model.CaixaMovimentacao{
		CaixaID:  caixaID,
		Tipo:     model.MovimentacaoEntrada,
		Valor:    valor,
		Motivo:   motivo,
		DataHora: agora,
	})
}

func (s *caixaService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.caixas.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Caixa não encontrado")
	}
	return caixaToResponse(caixa), nil
}

func (s *caixaService) BuscarAberto(ctx context.Context, funcionarioID uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.caixas.FindAbertoPorFuncionario(ctx, funcionarioID)
	if err != nil {
		return nil, apierror.SessionNotOpen("Funcionário não possui caixa aberto")
	}
	return caixaToResponse(caixa), nil
}

// ── Relatório ────────────────────────────────────────────────────────────────

func (s *caixaService) GerarRelatorio(ctx context.Context, ator *model.Funcionario, filter dto.RelatorioFilter) (*dto.RelatorioCaixaResponse, error) {
	inicio, fim, err := janelaDoPeriodo(filter, s.relogio.Agora())
	if err != nil {
		return nil, err
	}

	// Non-management reports only on its own registers; asking for another
	// employee's caixas is rejected, not silently narrowed.
	podeTodos := authz.Permitido(ator.Cargo, authz.OpRelatorioCaixaTodos)
	var escopo *uuid.UUID
	if filter.FuncionarioID != "" {
		fid, err := uuid.Parse(filter.FuncionarioID)
		if err != nil {
			return nil, apierror.New(apierror.CodeValidation, "funcionario_id inválido")
		}
		if fid != ator.ID && !podeTodos {
			return nil, apierror.PermissionDenied("Sem alçada para relatório de caixas de outro funcionário")
		}
		escopo = &fid
	} else if !podeTodos {
		escopo = &ator.ID
	}

	caixas, err := s.caixas.ListPorPeriodo(ctx, inicio, fim, escopo, filter.Status)
	if err != nil {
		return nil, err
	}

	resp := &dto.RelatorioCaixaResponse{
		Periodo:    filter.Periodo,
		DataInicio: inicio.Format("2006-01-02"),
		DataFim:    fim.AddDate(0, 0, -1).Format("2006-01-02"),
		Caixas:     make([]dto.RelatorioCaixaItem, 0, len(caixas)),
	}

	for i := range caixas {
		item, err := s.montarItemRelatorio(ctx, &caixas[i])
		if err != nil {
			return nil, err
		}
		resp.Caixas = append(resp.Caixas, *item)
		if caixas[i].QuebraDeCaixa != nil {
			resp.QuebraTotal = resp.QuebraTotal.Add(*caixas[i].QuebraDeCaixa)
		}
	}
	return resp, nil
}

func (s *caixaService) montarItemRelatorio(ctx context.Context, caixa *model.Caixa) (*dto.RelatorioCaixaItem, error) {
	porMetodo, err := s.caixas.SomarPagamentosPorMetodo(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	suprimentos, err := s.caixas.SomarMovimentacoesPorTipo(ctx, caixa.ID, model.MovimentacaoSuprimento)
	if err != nil {
		return nil, err
	}
	sangrias, err := s.caixas.SomarMovimentacoesPorTipo(ctx, caixa.ID, model.MovimentacaoSangria)
	if err != nil {
		return nil, err
	}
	entradas, err := s.caixas.SomarMovimentacoesPorTipo(ctx, caixa.ID, model.MovimentacaoEntrada)
	if err != nil {
		return nil, err
	}

	conferido := func(v *decimal.Decimal) decimal.Decimal {
		if v == nil {
			return decimal.Zero
		}
		return *v
	}

	metodos := []struct {
		nome      string
		esperado  decimal.Decimal
		conferido decimal.Decimal
	}{
		// Cash expectation carries the float and the till adjustments; card
		// and PIX expectations are just their settled sales.
		{model.MetodoDinheiro, caixa.SaldoInicial.Add(porMetodo[model.MetodoDinheiro]).Add(suprimentos).Sub(sangrias), conferido(caixa.ConferidoDinheiro)},
		{model.MetodoPix, porMetodo[model.MetodoPix], conferido(caixa.ConferidoPix)},
		{model.MetodoDebito, porMetodo[model.MetodoDebito], conferido(caixa.ConferidoDebito)},
		{model.MetodoCredito, porMetodo[model.MetodoCredito], conferido(caixa.ConferidoCredito)},
		{model.MetodoCrediario, porMetodo[model.MetodoCrediario], conferido(caixa.ConferidoCrediario)},
	}

	item := &dto.RelatorioCaixaItem{
		Caixa:       *caixaToResponse(caixa),
		PorMetodo:   make([]dto.RelatorioPorMetodo, 0, len(metodos)),
		Suprimentos: suprimentos,
		Sangrias:    sangrias,
		Entradas:    entradas,
	}
	for _, m := range metodos {
		item.PorMetodo = append(item.PorMetodo, dto.RelatorioPorMetodo{
			Metodo:    m.nome,
			Esperado:  m.esperado,
			Conferido: m.conferido,
			Diferenca: m.conferido.Sub(m.esperado),
		})
	}
	return item, nil
}

// janelaDoPeriodo resolves the report filter into a [inicio, fim) window in
// the store timezone. Weeks start on Monday.
func janelaDoPeriodo(filter dto.RelatorioFilter, agora time.Time) (time.Time, time.Time, error) {
	hoje := InicioDoDia(agora)

	switch filter.Periodo {
	case "HOJE":
		return hoje, hoje.AddDate(0, 0, 1), nil
	case "ONTEM":
		return hoje.AddDate(0, 0, -1), hoje, nil
	case "ESTA_SEMANA":
		inicio := inicioDaSemana(hoje)
		return inicio, inicio.AddDate(0, 0, 7), nil
	case "SEMANA_PASSADA":
		inicio := inicioDaSemana(hoje).AddDate(0, 0, -7)
		return inicio, inicio.AddDate(0, 0, 7), nil
	case "ESTE_MES":
		inicio := time.Date(hoje.Year(), hoje.Month(), 1, 0, 0, 0, 0, hoje.Location())
		return inicio, inicio.AddDate(0, 1, 0), nil
	case "MES_PASSADO":
		inicio := time.Date(hoje.Year(), hoje.Month(), 1, 0, 0, 0, 0, hoje.Location()).AddDate(0, -1, 0)
		return inicio, inicio.AddDate(0, 1, 0), nil
	case "CUSTOM":
		if filter.DataInicio == "" || filter.DataFim == "" {
			return time.Time{}, time.Time{}, apierror.New(apierror.CodeValidation, "Período CUSTOM exige data_inicio e data_fim")
		}
		inicio, err := time.ParseInLocation("2006-01-02", filter.DataInicio, hoje.Location())
		if err != nil {
			return time.Time{}, time.Time{}, apierror.New(apierror.CodeValidation, "data_inicio inválida")
		}
		fim, err := time.ParseInLocation("2006-01-02", filter.DataFim, hoje.Location())
		if err != nil {
			return time.Time{}, time.Time{}, apierror.New(apierror.CodeValidation, "data_fim inválida")
		}
		if fim.Before(inicio) {
			return time.Time{}, time.Time{}, apierror.New(apierror.CodeValidation, "data_fim anterior a data_inicio")
		}
		return inicio, fim.AddDate(0, 0, 1), nil
	}
	return time.Time{}, time.Time{}, apierror.New(apierror.CodeValidation, "Período desconhecido")
}

func inicioDaSemana(dia time.Time) time.Time {
	delta := (int(dia.Weekday()) + 6) % 7 // Monday = 0
	return dia.AddDate(0, 0, -delta)
}

func caixaToResponse(c *model.Caixa) *dto.CaixaResponse {
	resp := &dto.CaixaResponse{
		ID:                 c.ID.String(),
		FuncionarioID:      c.FuncionarioID.String(),
		Status:             c.Status,
		SaldoInicial:       c.SaldoInicial,
		SistemaTotalVendas: c.SistemaTotalVendas,
		QuebraDeCaixa:      c.QuebraDeCaixa,
		Observacoes:        c.Observacoes,
		DataAbertura:       c.DataAbertura.Format(time.RFC3339),
	}
	if c.Funcionario != nil && c.Funcionario.Pessoa != nil {
		resp.Funcionario = c.Funcionario.Pessoa.NomeCompleto
	}
	if c.DataFechamento != nil {
		f := c.DataFechamento.Format(time.RFC3339)
		resp.DataFechamento = &f
	}
	if c.ConferidoDinheiro != nil {
		conf := &dto.ConferidoResponse{
			Dinheiro:  *c.ConferidoDinheiro,
			Pix:       zeroSeNil(c.ConferidoPix),
			Debito:    zeroSeNil(c.ConferidoDebito),
			Credito:   zeroSeNil(c.ConferidoCredito),
			Crediario: zeroSeNil(c.ConferidoCrediario),
		}
		conf.Total = conf.Dinheiro.Add(conf.Pix).Add(conf.Debito).Add(conf.Credito).Add(conf.Crediario)
		resp.Conferido = conf
	}
	return resp
}

func zeroSeNil(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}

func movimentacaoToResponse(m *model.CaixaMovimentacao) *dto.MovimentacaoResponse {
	resp := &dto.MovimentacaoResponse{
		ID:       m.ID.String(),
		Tipo:     m.Tipo,
		Valor:    m.Valor,
		Motivo:   m.Motivo,
		DataHora: m.DataHora.Format(time.RFC3339),
	}
	if m.AutorizadorID != nil {
		a := m.AutorizadorID.String()
		resp.AutorizadorID = &a
	}
	return resp
}
