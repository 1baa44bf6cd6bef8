package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"varejopos/internal/apierror"
	"varejopos/internal/dto"
	"varejopos/internal/model"
	"varejopos/internal/repository"
	"varejopos/internal/worker"
)

type VendaService interface {
	RegistrarVenda(ctx context.Context, funcionarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	CancelarVenda(ctx context.Context, id uuid.UUID, motivo string) error
	ReativarVenda(ctx context.Context, id uuid.UUID) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	ListarVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
}

type vendaService struct {
	vendas       repository.VendaRepository
	caixas       repository.CaixaRepository
	produtos     repository.ProdutoRepository
	estoque      repository.EstoqueRepository
	clientes     repository.ClienteRepository
	funcionarios repository.FuncionarioRepository
	contas       repository.ContaReceberRepository
	descontos    DescontoService
	relogio      Relogio
	dispatcher   *worker.Dispatcher
}

func NewVendaService(
	vendas repository.VendaRepository,
	caixas repository.CaixaRepository,
	produtos repository.ProdutoRepository,
	estoque repository.EstoqueRepository,
	clientes repository.ClienteRepository,
	funcionarios repository.FuncionarioRepository,
	contas repository.ContaReceberRepository,
	descontos DescontoService,
	relogio Relogio,
	dispatcher *worker.Dispatcher,
) VendaService {
	return &vendaService{
		vendas:       vendas,
		caixas:       caixas,
		produtos:     produtos,
		estoque:      estoque,
		clientes:     clientes,
		funcionarios: funcionarios,
		contas:       contas,
		descontos:    descontos,
		relogio:      relogio,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenda ───────────────────────────────────────────────────────────
// One unit of work:
//   1. seller has an ABERTO caixa; cliente exists and is active
//   2. resolve items against the catalog at current prices
//   3. resolve discounts (voucher, then manual) and floor the net at zero
//   4. settle by tender: cash change, card normalization or crediário
//      authorization (PIN + signature + limit + installment plan)
//   5. inside the tx: persist the sale, decrement stock through guarded
//      updates, consume the voucher, create the receivable
// Sales never write caixa movements; close-time expectations are derived
// from the sale records themselves.

func (s *vendaService) RegistrarVenda(ctx context.Context, funcionarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	vendedor, err := s.funcionarios.FindByID(ctx, funcionarioID)
	if err != nil {
		return nil, apierror.NotFound("Funcionário não encontrado")
	}
	if !vendedor.Ativo {
		return nil, apierror.InactiveEntity("Funcionário inativo não pode vender")
	}

	caixa, err := s.caixas.FindAbertoPorFuncionario(ctx, funcionarioID)
	if err != nil {
		return nil, apierror.SessionNotOpen("Funcionário não possui caixa aberto")
	}

	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, apierror.New(apierror.CodeValidation, "cliente_id inválido")
	}
	cliente, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil {
		return nil, apierror.NotFound("Cliente não encontrado")
	}
	if !cliente.Ativo {
		return nil, apierror.InactiveEntity("Cliente inativo")
	}

	if !model.MetodoPagamentoValido(req.MetodoPagamento) {
		return nil, apierror.New(apierror.CodeValidation, "Método de pagamento desconhecido")
	}

	// Resolve items at current catalog prices.
	type itemResolvido struct {
		variacaoID uuid.UUID
		nome       string
		preco      decimal.Decimal
		quantidade int
		subtotal   decimal.Decimal
	}
	var resolvidos []itemResolvido
	valorBruto := decimal.Zero

	for _, item := range req.Itens {
		vid, err := uuid.Parse(item.ProdutoVariacaoID)
		if err != nil {
			return nil, apierror.New(apierror.CodeValidation, "produto_variacao_id inválido")
		}
		variacao, err := s.produtos.FindVariacaoByID(ctx, vid)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("Variação %s não encontrada", item.ProdutoVariacaoID))
		}
		if !variacao.Ativo || (variacao.Pai != nil && !variacao.Pai.Ativo) {
			return nil, apierror.InactiveEntity(fmt.Sprintf("Produto %s está inativo", variacao.NomeCompleto()))
		}
		subtotal := variacao.PrecoVenda.Mul(decimal.NewFromInt(int64(item.Quantidade)))
		valorBruto = valorBruto.Add(subtotal)
		resolvidos = append(resolvidos, itemResolvido{
			variacaoID: vid,
			nome:       variacao.NomeCompleto(),
			preco:      variacao.PrecoVenda,
			quantidade: item.Quantidade,
			subtotal:   subtotal,
		})
	}

	// Discounts: voucher first, then manual, net floored at zero.
	var descontosVenda []model.VendaDesconto
	descontoTotal := decimal.Zero
	var voucher *model.Voucher

	if req.CodigoVoucher != nil && *req.CodigoVoucher != "" {
		v, valor, err := s.descontos.ResolverVoucher(ctx, *req.CodigoVoucher, valorBruto)
		if err != nil {
			return nil, err
		}
		voucher = v
		descontoTotal = descontoTotal.Add(valor)
		descontosVenda = append(descontosVenda, model.VendaDesconto{
			Origem:           model.DescontoOrigemVoucher,
			CodigoReferencia: v.Codigo,
			ValorAplicado:    valor,
		})
	}
	if req.DescontoManual != nil {
		autorizadorID, err := s.descontos.AutorizarManual(ctx, vendedor, *req.DescontoManual)
		if err != nil {
			return nil, err
		}
		ref := vendedor.ID.String()
		if autorizadorID != nil {
			ref = autorizadorID.String()
		}
		descontosVenda = append(descontosVenda, model.VendaDesconto{
			Origem:           model.DescontoOrigemManual,
			CodigoReferencia: ref,
			ValorAplicado:    req.DescontoManual.Valor,
		})
		descontoTotal = descontoTotal.Add(req.DescontoManual.Valor)
	}

	valorTotal := valorBruto.Sub(descontoTotal)
	if valorTotal.IsNegative() {
		valorTotal = decimal.Zero
	}

	// Settlement per tender type.
	valorPago := req.ValorPago
	troco := decimal.Zero
	var plano []model.Parcela
	var funcionarioComprador *model.Funcionario

	switch req.MetodoPagamento {
	case model.MetodoDinheiro:
		// Absent tendered amount means exact payment.
		if valorPago.IsZero() {
			valorPago = valorTotal
		}
		if valorPago.LessThan(valorTotal) {
			return nil, apierror.New(apierror.CodeValidation, "Valor pago insuficiente")
		}
		troco = valorPago.Sub(valorTotal)
	case model.MetodoPix, model.MetodoDebito, model.MetodoCredito:
		// Electronic tenders settle exactly; declared amounts are normalized.
		valorPago = valorTotal
	case model.MetodoCrediario:
		if req.Crediario == nil {
			return nil, apierror.New(apierror.CodeValidation, "Venda no crediário exige PIN, assinatura e parcelas")
		}
		funcionarioComprador, err = s.autorizarCrediario(ctx, cliente, valorTotal, *req.Crediario)
		if err != nil {
			return nil, err
		}
		valorPago = valorTotal
		plano = montarParcelas(valorTotal, req.Crediario.QuantidadeParcelas, s.relogio.Agora())
	}

	agora := s.relogio.Agora()
	venda := model.Venda{
		FuncionarioID:   funcionarioID,
		ClienteID:       clienteID,
		CaixaID:         caixa.ID,
		MetodoPagamento: req.MetodoPagamento,
		Status:          model.StatusVendaRealizada,
		ValorBruto:      valorBruto,
		DescontoTotal:   descontoTotal,
		ValorTotal:      valorTotal,
		TrocoTotal:      troco,
		Observacoes:     req.Observacoes,
		DataVenda:       agora,
		Descontos:       descontosVenda,
	}
	if req.Crediario != nil {
		n := req.Crediario.QuantidadeParcelas
		venda.ParcelasCrediario = &n
	}
	for _, r := range resolvidos {
		venda.Itens = append(venda.Itens, model.VendaItem{
			ProdutoVariacaoID: r.variacaoID,
			Quantidade:        r.quantidade,
			PrecoUnitario:     r.preco,
			Subtotal:          r.subtotal,
		})
	}
	venda.Pagamentos = append(venda.Pagamentos, model.VendaPagamento{
		CaixaID:        caixa.ID,
		FormaPagamento: req.MetodoPagamento,
		ValorPago:      valorPago,
		TrocoGerado:    troco,
		ValorLiquido:   valorTotal,
	})

	var contaID *uuid.UUID
	txErr := runTx(ctx, s.vendas.DB(), func(tx *gorm.DB) error {
		if err := s.vendas.CreateTx(tx, &venda); err != nil {
			return err
		}
		for _, r := range resolvidos {
			ok, err := s.estoque.DecrementarTx(tx, vendedor.UnidadeID, r.variacaoID, r.quantidade)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.InsufficientStock(fmt.Sprintf("Estoque insuficiente para %s", r.nome))
			}
		}
		if voucher != nil {
			if err := s.descontos.ConsumirVoucherTx(tx, voucher.ID); err != nil {
				return err
			}
		}
		if req.MetodoPagamento == model.MetodoCrediario {
			conta := model.ContaReceber{
				VendaID:            venda.ID,
				ClienteID:          clienteID,
				ValorTotal:         valorTotal,
				QuantidadeParcelas: len(plano),
				Status:             model.StatusContaAberta,
				DataCriacao:        agora,
				Parcelas:           plano,
			}
			if err := s.contas.CreateTx(tx, &conta); err != nil {
				return err
			}
			contaID = &conta.ID
			evidencia := model.VendaEvidencia{
				VendaID:          venda.ID,
				AssinaturaBase64: req.Crediario.AssinaturaBase64,
				DataRegistro:     agora,
			}
			if err := s.vendas.CreateEvidenciaTx(tx, &evidencia); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("venda_id", venda.ID.String()).
		Str("caixa_id", caixa.ID.String()).
		Str("metodo", req.MetodoPagamento).
		Str("valor_total", valorTotal.StringFixed(2)).
		Msg("venda registrada")

	// Crediário confirmation mail, best effort.
	if s.dispatcher != nil && funcionarioComprador != nil &&
		cliente.Pessoa != nil && cliente.Pessoa.Email != nil {
		_ = s.dispatcher.Enqueue(ctx, worker.Job{
			Tipo: worker.JobCrediarioConfirmacao,
			Payload: map[string]interface{}{
				"venda_id": venda.ID.String(),
				"email":    *cliente.Pessoa.Email,
				"valor":    valorTotal.StringFixed(2),
				"parcelas": len(plano),
			},
		})
	}

	resp := vendaToResponse(&venda)
	for i, r := range resolvidos {
		resp.Itens[i].Produto = r.nome
	}
	resp.ValorPago = valorPago
	resp.Troco = troco
	if contaID != nil {
		id := contaID.String()
		resp.ContaReceberID = &id
	}
	return resp, nil
}

// autorizarCrediario enforces the three crediário gates: the cliente's pessoa
// must also be an active funcionario, the funcionario's PIN must match, and
// the new debt must fit the credit limit.
func (s *vendaService) autorizarCrediario(ctx context.Context, cliente *model.Cliente, valorTotal decimal.Decimal, req dto.CrediarioRequest) (*model.Funcionario, error) {
	comprador, err := s.funcionarios.FindByPessoaID(ctx, cliente.PessoaID)
	if err != nil || !comprador.Ativo {
		return nil, apierror.CreditNotEligible("Crediário disponível apenas para funcionários ativos")
	}
	if comprador.PinHash == nil {
		return nil, apierror.CreditAuthFailed("Funcionário não possui PIN cadastrado")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*comprador.PinHash), []byte(req.Pin)); err != nil {
		return nil, apierror.CreditAuthFailed("PIN incorreto")
	}
	if req.QuantidadeParcelas < 1 || req.QuantidadeParcelas > MaxParcelas {
		return nil, apierror.New(apierror.CodeValidation,
			fmt.Sprintf("Quantidade de parcelas deve estar entre 1 e %d", MaxParcelas))
	}

	divida, err := s.contas.SomarDividaAberta(ctx, cliente.ID)
	if err != nil {
		return nil, err
	}
	if divida.Add(valorTotal).GreaterThan(cliente.LimiteCredito) {
		return nil, apierror.CreditLimitExceeded(fmt.Sprintf(
			"Compra excede o limite: dívida atual R$ %s, limite R$ %s",
			divida.StringFixed(2), cliente.LimiteCredito.StringFixed(2)))
	}
	return comprador, nil
}

// montarParcelas splits total into n installments. Division truncates at two
// decimals and the residual cents land on parcela 1, so the sum always equals
// the total. Parcela n is due n*30 days after the sale.
func montarParcelas(total decimal.Decimal, n int, base time.Time) []model.Parcela {
	valorBase := total.Div(decimal.NewFromInt(int64(n))).RoundDown(2)
	residuo := total.Sub(valorBase.Mul(decimal.NewFromInt(int64(n))))

	parcelas := make([]model.Parcela, 0, n)
	for i := 1; i <= n; i++ {
		valor := valorBase
		if i == 1 {
			valor = valor.Add(residuo)
		}
		parcelas = append(parcelas, model.Parcela{
			NumeroParcela:  i,
			ValorOriginal:  valor,
			ValorPago:      decimal.Zero,
			DataVencimento: base.AddDate(0, 0, i*DiasEntreParcelas),
			Status:         model.StatusParcelaPendente,
		})
	}
	return parcelas
}

// ── CancelarVenda / ReativarVenda ────────────────────────────────────────────

func (s *vendaService) CancelarVenda(ctx context.Context, id uuid.UUID, motivo string) error {
	venda, err := s.vendas.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Venda não encontrada")
	}
	if venda.Status != model.StatusVendaRealizada {
		return apierror.Conflict("Venda já está cancelada")
	}

	caixa, err := s.caixas.FindByID(ctx, venda.CaixaID)
	if err != nil {
		return err
	}
	if caixa.Status != model.StatusCaixaAberto {
		return apierror.AlreadyClosed("Caixa da venda já foi fechado; venda não pode ser alterada")
	}

	funcionario, err := s.funcionarios.FindByID(ctx, venda.FuncionarioID)
	if err != nil {
		return err
	}

	return runTx(ctx, s.vendas.DB(), func(tx *gorm.DB) error {
		ok, err := s.vendas.UpdateStatusTx(tx, id, model.StatusVendaRealizada, model.StatusVendaCancelada)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("Venda foi alterada por outra operação")
		}
		for _, item := range venda.Itens {
			if _, err := s.estoque.IncrementarTx(tx, funcionario.UnidadeID, item.ProdutoVariacaoID, item.Quantidade); err != nil {
				return err
			}
		}
		if venda.MetodoPagamento == model.MetodoCrediario {
			conta, err := s.contas.FindPorVenda(ctx, venda.ID)
			if err != nil {
				return err
			}
			for _, p := range conta.Parcelas {
				if p.ValorPago.GreaterThan(decimal.Zero) {
					return apierror.Conflict("Conta do crediário já recebeu pagamentos; estorne antes de cancelar")
				}
			}
			if err := s.contas.CancelarContaTx(tx, conta.ID); err != nil {
				return err
			}
		}
		log.Info().
			Str("venda_id", id.String()).
			Str("motivo", motivo).
			Msg("venda cancelada")
		return nil
	})
}

func (s *vendaService) ReativarVenda(ctx context.Context, id uuid.UUID) error {
	venda, err := s.vendas.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Venda não encontrada")
	}
	if venda.Status != model.StatusVendaCancelada {
		return apierror.Conflict("Apenas vendas canceladas podem ser reativadas")
	}

	caixa, err := s.caixas.FindByID(ctx, venda.CaixaID)
	if err != nil {
		return err
	}
	if caixa.Status != model.StatusCaixaAberto {
		return apierror.AlreadyClosed("Caixa da venda já foi fechado; venda não pode ser alterada")
	}

	funcionario, err := s.funcionarios.FindByID(ctx, venda.FuncionarioID)
	if err != nil {
		return err
	}

	return runTx(ctx, s.vendas.DB(), func(tx *gorm.DB) error {
		ok, err := s.vendas.UpdateStatusTx(tx, id, model.StatusVendaCancelada, model.StatusVendaRealizada)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("Venda foi alterada por outra operação")
		}
		// Reactivation must re-take the stock it returned on cancel.
		for _, item := range venda.Itens {
			ok, err := s.estoque.DecrementarTx(tx, funcionario.UnidadeID, item.ProdutoVariacaoID, item.Quantidade)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.InsufficientStock("Estoque insuficiente para reativar a venda")
			}
		}
		if venda.MetodoPagamento == model.MetodoCrediario && venda.ParcelasCrediario != nil {
			conta := model.ContaReceber{
				VendaID:            venda.ID,
				ClienteID:          venda.ClienteID,
				ValorTotal:         venda.ValorTotal,
				QuantidadeParcelas: *venda.ParcelasCrediario,
				Status:             model.StatusContaAberta,
				DataCriacao:        s.relogio.Agora(),
				Parcelas:           montarParcelas(venda.ValorTotal, *venda.ParcelasCrediario, venda.DataVenda),
			}
			if err := s.contas.CreateTx(tx, &conta); err != nil {
				return err
			}
		}
		log.Info().Str("venda_id", id.String()).Msg("venda reativada")
		return nil
	})
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *vendaService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.vendas.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Venda não encontrada")
	}
	return vendaToResponse(venda), nil
}

func (s *vendaService) ListarVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	vendas, total, err := s.vendas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.VendaListResponse{
		Data:  make([]dto.VendaResponse, 0, len(vendas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range vendas {
		resp.Data = append(resp.Data, *vendaToResponse(&vendas[i]))
	}
	return resp, nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	resp := &dto.VendaResponse{
		ID:              v.ID.String(),
		CaixaID:         v.CaixaID.String(),
		FuncionarioID:   v.FuncionarioID.String(),
		ClienteID:       v.ClienteID.String(),
		MetodoPagamento: v.MetodoPagamento,
		Status:          v.Status,
		ValorBruto:      v.ValorBruto,
		DescontoTotal:   v.DescontoTotal,
		ValorTotal:      v.ValorTotal,
		Troco:           v.TrocoTotal,
		DataVenda:       v.DataVenda.Format(time.RFC3339),
	}
	for _, item := range v.Itens {
		nome := ""
		if item.Variacao != nil {
			nome = item.Variacao.NomeCompleto()
		}
		resp.Itens = append(resp.Itens, dto.ItemVendaResponse{
			Produto:       nome,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      item.Subtotal,
		})
	}
	for _, d := range v.Descontos {
		resp.Descontos = append(resp.Descontos, dto.DescontoResponse{
			Origem:           d.Origem,
			CodigoReferencia: d.CodigoReferencia,
			ValorAplicado:    d.ValorAplicado,
		})
	}
	for _, p := range v.Pagamentos {
		resp.ValorPago = resp.ValorPago.Add(p.ValorPago)
	}
	return resp
}
