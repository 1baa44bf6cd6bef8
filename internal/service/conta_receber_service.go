package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"varejopos/internal/apierror"
	"varejopos/internal/dto"
	"varejopos/internal/model"
	"varejopos/internal/repository"
	"varejopos/internal/worker"
)

type ContaReceberService interface {
	// PagarParcela applies a payment to the account addressed by the named
	// installment, filling every unpaid installment in ascending order. The
	// collector must have an open caixa to receive the money; paying more
	// than the account's outstanding balance is rejected whole.
	PagarParcela(ctx context.Context, funcionarioID, contaID uuid.UUID, req dto.PagarParcelaRequest) (*dto.PagamentoParcelaResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ContaReceberResponse, error)
	ListarPorCliente(ctx context.Context, clienteID uuid.UUID) (*dto.ContaListResponse, error)

	// VarrerVencidas persists the PENDENTE -> ATRASADA transition for every
	// installment past due and enqueues one notification per parcela marked.
	// Called by the background cron; "past due" is measured against the
	// store-local day.
	VarrerVencidas(ctx context.Context) (int, error)
}

type contaReceberService struct {
	contas     repository.ContaReceberRepository
	caixas     repository.CaixaRepository
	caixaSvc   CaixaService
	relogio    Relogio
	dispatcher *worker.Dispatcher
}

func NewContaReceberService(
	contas repository.ContaReceberRepository,
	caixas repository.CaixaRepository,
	caixaSvc CaixaService,
	relogio Relogio,
	dispatcher *worker.Dispatcher,
) ContaReceberService {
	return &contaReceberService{
		contas:     contas,
		caixas:     caixas,
		caixaSvc:   caixaSvc,
		relogio:    relogio,
		dispatcher: dispatcher,
	}
}

func (s *contaReceberService) PagarParcela(ctx context.Context, funcionarioID, contaID uuid.UUID, req dto.PagarParcelaRequest) (*dto.PagamentoParcelaResponse, error) {
	// The money must land somewhere: no open drawer, no collection.
	caixa, err := s.caixas.FindAbertoPorFuncionario(ctx, funcionarioID)
	if err != nil {
		return nil, apierror.SessionNotOpen("Recebimento exige caixa aberto do cobrador")
	}

	conta, err := s.contas.FindByID(ctx, contaID)
	if err != nil {
		return nil, apierror.NotFound("Conta a receber não encontrada")
	}
	if conta.Status == model.StatusContaQuitada {
		return nil, apierror.AlreadyPaid("Conta já está quitada")
	}

	// The named installment only addresses the account; allocation always
	// runs over the whole account, in numero_parcela order, so earlier open
	// installments are filled first. Parcelas come ordered from the
	// repository.
	var alvo *model.Parcela
	saldoConta := decimal.Zero
	for i := range conta.Parcelas {
		p := &conta.Parcelas[i]
		if p.NumeroParcela == req.NumeroParcela {
			alvo = p
		}
		if !p.Quitada() {
			saldoConta = saldoConta.Add(p.SaldoDevedor())
		}
	}
	if alvo == nil {
		return nil, apierror.NotFound(fmt.Sprintf("Parcela %d não existe nesta conta", req.NumeroParcela))
	}
	if alvo.Quitada() {
		return nil, apierror.AlreadyPaid(fmt.Sprintf("Parcela %d já está paga", req.NumeroParcela))
	}
	if req.Valor.GreaterThan(saldoConta) {
		return nil, apierror.OverpaymentRejected(fmt.Sprintf(
			"Pagamento de R$ %s excede o saldo devedor de R$ %s da conta",
			req.Valor.StringFixed(2), saldoConta.StringFixed(2)))
	}

	agora := s.relogio.Agora()
	restante := req.Valor
	var tocadas []model.Parcela

	txErr := runTx(ctx, s.contas.DB(), func(tx *gorm.DB) error {
		for i := range conta.Parcelas {
			p := &conta.Parcelas[i]
			if p.Quitada() || restante.IsZero() {
				continue
			}
			versaoLida := p.Versao
			aplicar := decimal.Min(restante, p.SaldoDevedor())
			p.ValorPago = p.ValorPago.Add(aplicar)
			if p.SaldoDevedor().IsZero() {
				p.Status = model.StatusParcelaPaga
				p.DataPagamento = &agora
			}
			ok, err := s.contas.UpdateParcelaTx(tx, p, versaoLida)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.Conflict("Parcela foi alterada por outro pagamento; tente novamente")
			}
			p.Versao = versaoLida + 1
			restante = restante.Sub(aplicar)
			tocadas = append(tocadas, *p)
		}

		quitada := true
		for i := range conta.Parcelas {
			if !conta.Parcelas[i].Quitada() {
				quitada = false
				break
			}
		}
		if quitada {
			conta.Status = model.StatusContaQuitada
			if err := s.contas.UpdateStatusContaTx(tx, conta.ID, model.StatusContaQuitada); err != nil {
				return err
			}
		}

		// One consolidated receipt in the collector's drawer ledger, with a
		// readable breakdown of the installments it touched.
		motivo := fmt.Sprintf("Recebimento crediário conta %s:", conta.ID)
		for i := range tocadas {
			situacao := "Parcial"
			if tocadas[i].Quitada() {
				situacao = "Quitada"
			}
			motivo += fmt.Sprintf(" P%d(%s)", tocadas[i].NumeroParcela, situacao)
		}
		return s.caixaSvc.RegistrarEntradaTx(tx, caixa.ID, req.Valor, motivo, agora)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("conta_id", conta.ID.String()).
		Int("parcela_informada", req.NumeroParcela).
		Str("valor", req.Valor.StringFixed(2)).
		Str("status_conta", conta.Status).
		Msg("pagamento de parcela aplicado")

	resp := &dto.PagamentoParcelaResponse{
		ContaReceberID: conta.ID.String(),
		ValorAplicado:  req.Valor,
		StatusConta:    conta.Status,
		Parcelas:       make([]dto.ParcelaResponse, 0, len(tocadas)),
	}
	for i := range tocadas {
		resp.Parcelas = append(resp.Parcelas, *parcelaToResponse(&tocadas[i]))
	}
	return resp, nil
}

func (s *contaReceberService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ContaReceberResponse, error) {
	conta, err := s.contas.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Conta a receber não encontrada")
	}
	return contaToResponse(conta), nil
}

func (s *contaReceberService) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) (*dto.ContaListResponse, error) {
	contas, err := s.contas.ListPorCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ContaListResponse{Data: make([]dto.ContaReceberResponse, 0, len(contas)), Total: int64(len(contas))}
	for i := range contas {
		resp.Data = append(resp.Data, *contaToResponse(&contas[i]))
	}
	return resp, nil
}

func (s *contaReceberService) VarrerVencidas(ctx context.Context) (int, error) {
	hoje := InicioDoDia(s.relogio.Agora())
	parcelas, err := s.contas.ListParcelasVencidas(ctx, hoje, 500)
	if err != nil {
		return 0, err
	}

	marcadas := 0
	for i := range parcelas {
		p := &parcelas[i]
		ok, err := s.contas.MarcarAtrasada(ctx, p.ID, p.Versao)
		if err != nil {
			log.Error().Err(err).Str("parcela_id", p.ID.String()).Msg("falha ao marcar parcela atrasada")
			continue
		}
		if !ok {
			// Paid or already swept since the listing; nothing to do.
			continue
		}
		marcadas++

		if s.dispatcher != nil && p.ContaReceber != nil &&
			p.ContaReceber.Cliente != nil && p.ContaReceber.Cliente.Pessoa != nil &&
			p.ContaReceber.Cliente.Pessoa.Email != nil {
			_ = s.dispatcher.Enqueue(ctx, worker.Job{
				Tipo: worker.JobParcelaAtrasada,
				Payload: map[string]interface{}{
					"email":           *p.ContaReceber.Cliente.Pessoa.Email,
					"nome":            p.ContaReceber.Cliente.Pessoa.NomeCompleto,
					"conta_id":        p.ContaReceberID.String(),
					"numero_parcela":  p.NumeroParcela,
					"valor":           p.SaldoDevedor().StringFixed(2),
					"data_vencimento": p.DataVencimento.Format("2006-01-02"),
				},
			})
		}
	}
	if marcadas > 0 {
		log.Info().Int("parcelas", marcadas).Msg("varredura de vencimento concluída")
	}
	return marcadas, nil
}

func parcelaToResponse(p *model.Parcela) *dto.ParcelaResponse {
	resp := &dto.ParcelaResponse{
		ID:             p.ID.String(),
		NumeroParcela:  p.NumeroParcela,
		ValorOriginal:  p.ValorOriginal,
		ValorPago:      p.ValorPago,
		SaldoDevedor:   p.SaldoDevedor(),
		DataVencimento: p.DataVencimento.Format("2006-01-02"),
		Status:         p.Status,
	}
	if p.DataPagamento != nil {
		d := p.DataPagamento.Format("2006-01-02")
		resp.DataPagamento = &d
	}
	return resp
}

func contaToResponse(c *model.ContaReceber) *dto.ContaReceberResponse {
	resp := &dto.ContaReceberResponse{
		ID:                 c.ID.String(),
		VendaID:            c.VendaID.String(),
		ClienteID:          c.ClienteID.String(),
		ValorTotal:         c.ValorTotal,
		QuantidadeParcelas: c.QuantidadeParcelas,
		Status:             c.Status,
		Parcelas:           make([]dto.ParcelaResponse, 0, len(c.Parcelas)),
		DataCriacao:        c.DataCriacao.Format("2006-01-02"),
	}
	if c.Cliente != nil && c.Cliente.Pessoa != nil {
		resp.Cliente = c.Cliente.Pessoa.NomeCompleto
	}
	saldo := decimal.Zero
	for i := range c.Parcelas {
		p := &c.Parcelas[i]
		if !p.Quitada() {
			saldo = saldo.Add(p.SaldoDevedor())
		}
		resp.Parcelas = append(resp.Parcelas, *parcelaToResponse(p))
	}
	resp.SaldoDevedor = saldo
	return resp
}
