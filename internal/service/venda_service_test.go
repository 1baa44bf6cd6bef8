package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"varejopos/internal/apierror"
	"varejopos/internal/dto"
	"varejopos/internal/model"
)

var agoraFixo = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func hashDe(t *testing.T, s string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func codigoDe(t *testing.T, err error) apierror.Code {
	t.Helper()
	require.Error(t, err)
	e, ok := err.(*apierror.Erro)
	require.True(t, ok, "esperava *apierror.Erro, veio %T: %v", err, err)
	return e.Code
}

// ambienteVenda is a full sale fixture: an open caixa, a priced variation with
// stock, a walk-in cliente and a staff cliente eligible for crediário.
type ambienteVenda struct {
	funcionarios *stubFuncionarioRepo
	clientes     *stubClienteRepo
	produtos     *stubProdutoRepo
	estoque      *stubEstoqueRepo
	caixas       *stubCaixaRepo
	vendas       *stubVendaRepo
	vouchers     *stubVoucherRepo
	contas       *stubContaRepo
	svc          VendaService

	unidadeID  uuid.UUID
	vendedor   *model.Funcionario
	gerente    *model.Funcionario
	cliente    *model.Cliente // walk-in, no staff view
	comprador  *model.Cliente // staff-backed, crediário-eligible
	caixa      *model.Caixa
	variacaoID uuid.UUID
}

func novoAmbienteVenda(t *testing.T) *ambienteVenda {
	t.Helper()
	env := &ambienteVenda{
		funcionarios: newStubFuncionarioRepo(),
		clientes:     newStubClienteRepo(),
		produtos:     newStubProdutoRepo(),
		estoque:      newStubEstoqueRepo(),
		caixas:       newStubCaixaRepo(),
		vendas:       newStubVendaRepo(),
		vouchers:     newStubVoucherRepo(),
		contas:       newStubContaRepo(),
		unidadeID:    uuid.New(),
	}
	relogio := RelogioFixo{Instante: agoraFixo}
	descontos := NewDescontoService(env.vouchers, env.funcionarios, relogio)
	env.svc = NewVendaService(
		env.vendas, env.caixas, env.produtos, env.estoque,
		env.clientes, env.funcionarios, env.contas,
		descontos, relogio, nil,
	)

	ctx := context.Background()

	// Seller (front desk) with an open caixa.
	pv := &model.Pessoa{NomeCompleto: "Vendedora"}
	require.NoError(t, env.funcionarios.CreatePessoaTx(nil, pv))
	env.vendedor = &model.Funcionario{PessoaID: pv.ID, UnidadeID: env.unidadeID, Cargo: model.CargoRecepcionista, Ativo: true}
	require.NoError(t, env.funcionarios.CreateTx(nil, env.vendedor))

	env.caixa = &model.Caixa{FuncionarioID: env.vendedor.ID, SaldoInicial: decimal.NewFromInt(100), Status: model.StatusCaixaAberto, DataAbertura: agoraFixo}
	require.NoError(t, env.caixas.Create(ctx, env.caixa))

	// Manager credential for above-cap discount authorization.
	loginGerente := "gerente"
	senhaGerente := hashDe(t, "segredo123")
	pg := &model.Pessoa{NomeCompleto: "Gerente", Login: &loginGerente, SenhaHash: &senhaGerente}
	require.NoError(t, env.funcionarios.CreatePessoaTx(nil, pg))
	env.gerente = &model.Funcionario{PessoaID: pg.ID, UnidadeID: env.unidadeID, Cargo: model.CargoGerente, Ativo: true}
	require.NoError(t, env.funcionarios.CreateTx(nil, env.gerente))

	// Walk-in customer: pessoa with cliente view only.
	email := "cliente@exemplo.com"
	pc := &model.Pessoa{NomeCompleto: "Cliente Avulso", Email: &email}
	require.NoError(t, env.funcionarios.CreatePessoaTx(nil, pc))
	env.cliente = &model.Cliente{PessoaID: pc.ID, Ativo: true, Pessoa: pc}
	require.NoError(t, env.clientes.CreateTx(nil, env.cliente))

	// Staff-backed customer: pessoa with both views and a PIN.
	pin := hashDe(t, "4321")
	ps := &model.Pessoa{NomeCompleto: "Funcionária Compradora"}
	require.NoError(t, env.funcionarios.CreatePessoaTx(nil, ps))
	comprador := &model.Funcionario{PessoaID: ps.ID, UnidadeID: env.unidadeID, Cargo: model.CargoLiderVenda, Ativo: true, PinHash: &pin}
	require.NoError(t, env.funcionarios.CreateTx(nil, comprador))
	env.comprador = &model.Cliente{PessoaID: ps.ID, Ativo: true, LimiteCredito: decimal.NewFromInt(500), Pessoa: ps}
	require.NoError(t, env.clientes.CreateTx(nil, env.comprador))

	// Catalog: one product, one variation at R$ 10, stock 10.
	pai := &model.ProdutoPai{
		Nome:  "Camiseta",
		Ativo: true,
		Variacoes: []model.ProdutoVariacao{
			{Nome: "P Preta", PrecoCusto: decimal.NewFromInt(4), PrecoVenda: decimal.NewFromInt(10), Ativo: true},
		},
	}
	require.NoError(t, env.produtos.Create(ctx, pai))
	env.variacaoID = pai.Variacoes[0].ID
	env.estoque.definir(env.unidadeID, env.variacaoID, 10)

	return env
}

func (env *ambienteVenda) reqDinheiro(qty int, pago int64) dto.RegistrarVendaRequest {
	return dto.RegistrarVendaRequest{
		ClienteID:       env.cliente.ID.String(),
		MetodoPagamento: model.MetodoDinheiro,
		Itens:           []dto.ItemVendaRequest{{ProdutoVariacaoID: env.variacaoID.String(), Quantidade: qty}},
		ValorPago:       decimal.NewFromInt(pago),
	}
}

func TestRegistrarVendaDinheiroComTroco(t *testing.T) {
	env := novoAmbienteVenda(t)

	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(2, 50))
	require.NoError(t, err)

	assert.Equal(t, model.StatusVendaRealizada, resp.Status)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.Troco.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 8, env.estoque.quantidade(env.unidadeID, env.variacaoID))
}

func TestRegistrarVendaDinheiroSemValorPagoAssumeExato(t *testing.T) {
	env := novoAmbienteVenda(t)

	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(2, 0))
	require.NoError(t, err)

	assert.True(t, resp.ValorPago.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.Troco.IsZero())
	assert.Equal(t, 8, env.estoque.quantidade(env.unidadeID, env.variacaoID))
}

func TestRegistrarVendaDinheiroInsuficiente(t *testing.T) {
	env := novoAmbienteVenda(t)

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(2, 5))
	assert.Equal(t, apierror.CodeValidation, codigoDe(t, err))
	assert.Equal(t, 10, env.estoque.quantidade(env.unidadeID, env.variacaoID))
}

func TestRegistrarVendaSemCaixaAberto(t *testing.T) {
	env := novoAmbienteVenda(t)
	env.caixa.Status = model.StatusCaixaFechado

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(1, 10))
	assert.Equal(t, apierror.CodeSessionNotOpen, codigoDe(t, err))
}

func TestRegistrarVendaEstoqueInsuficiente(t *testing.T) {
	env := novoAmbienteVenda(t)

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(20, 500))
	assert.Equal(t, apierror.CodeInsufficientStock, codigoDe(t, err))
	assert.Equal(t, 10, env.estoque.quantidade(env.unidadeID, env.variacaoID))
}

func TestRegistrarVendaCartaoNormalizaValorPago(t *testing.T) {
	env := novoAmbienteVenda(t)
	req := env.reqDinheiro(3, 999)
	req.MetodoPagamento = model.MetodoDebito

	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	require.NoError(t, err)
	assert.True(t, resp.ValorPago.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.Troco.IsZero())
}

func TestRegistrarVendaVoucherPercentual(t *testing.T) {
	env := novoAmbienteVenda(t)
	voucher := &model.Voucher{Codigo: "PROMO10", Tipo: model.VoucherPercentual, Valor: decimal.NewFromInt(10), QuantidadeDisponivel: 5, Ativo: true}
	require.NoError(t, env.vouchers.Create(context.Background(), voucher))

	codigo := "promo10"
	req := env.reqDinheiro(2, 50)
	req.CodigoVoucher = &codigo

	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	require.NoError(t, err)

	assert.True(t, resp.DescontoTotal.Equal(decimal.NewFromInt(2)), "10%% de 20")
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, 4, voucher.QuantidadeDisponivel)
}

func TestRegistrarVendaVoucherExpirado(t *testing.T) {
	env := novoAmbienteVenda(t)
	fim := agoraFixo.AddDate(0, 0, -1)
	require.NoError(t, env.vouchers.Create(context.Background(), &model.Voucher{
		Codigo: "VELHO", Tipo: model.VoucherFixo, Valor: decimal.NewFromInt(5),
		QuantidadeDisponivel: 5, Ativo: true, ValidadeFim: &fim,
	}))

	codigo := "VELHO"
	req := env.reqDinheiro(1, 10)
	req.CodigoVoucher = &codigo

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	assert.Equal(t, apierror.CodeVoucherInvalid, codigoDe(t, err))
}

func TestRegistrarVendaVoucherEsgotado(t *testing.T) {
	env := novoAmbienteVenda(t)
	require.NoError(t, env.vouchers.Create(context.Background(), &model.Voucher{
		Codigo: "ZERADO", Tipo: model.VoucherFixo, Valor: decimal.NewFromInt(5),
		QuantidadeDisponivel: 0, Ativo: true,
	}))

	codigo := "ZERADO"
	req := env.reqDinheiro(1, 10)
	req.CodigoVoucher = &codigo

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	assert.Equal(t, apierror.CodeVoucherInvalid, codigoDe(t, err))
}

func TestDescontoManualAcimaDoTetoSemAutorizador(t *testing.T) {
	env := novoAmbienteVenda(t)
	req := env.reqDinheiro(3, 50)
	req.DescontoManual = &dto.DescontoManualRequest{Valor: decimal.NewFromInt(25)}

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	assert.Equal(t, apierror.CodeDiscountExceedsAuthority, codigoDe(t, err))
}

func TestDescontoManualComAutorizacaoDeGerente(t *testing.T) {
	env := novoAmbienteVenda(t)
	login, senha := "gerente", "segredo123"
	req := env.reqDinheiro(3, 50)
	req.DescontoManual = &dto.DescontoManualRequest{
		Valor:            decimal.NewFromInt(25),
		AutorizadorLogin: &login,
		AutorizadorSenha: &senha,
	}

	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	require.NoError(t, err)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(5)))
	require.Len(t, resp.Descontos, 1)
	assert.Equal(t, env.gerente.ID.String(), resp.Descontos[0].CodigoReferencia)
}

func TestDescontoManualSenhaErrada(t *testing.T) {
	env := novoAmbienteVenda(t)
	login, senha := "gerente", "senha-errada"
	req := env.reqDinheiro(3, 50)
	req.DescontoManual = &dto.DescontoManualRequest{
		Valor:            decimal.NewFromInt(25),
		AutorizadorLogin: &login,
		AutorizadorSenha: &senha,
	}

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	assert.Equal(t, apierror.CodeDiscountExceedsAuthority, codigoDe(t, err))
}

func TestDescontoManualDentroDoTeto(t *testing.T) {
	env := novoAmbienteVenda(t)
	req := env.reqDinheiro(3, 50)
	req.DescontoManual = &dto.DescontoManualRequest{Valor: decimal.NewFromInt(20)}

	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	require.NoError(t, err)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(10)))
}

func TestDescontoNuncaDeixaTotalNegativo(t *testing.T) {
	env := novoAmbienteVenda(t)
	login, senha := "gerente", "segredo123"
	req := env.reqDinheiro(1, 10)
	req.DescontoManual = &dto.DescontoManualRequest{
		Valor:            decimal.NewFromInt(50),
		AutorizadorLogin: &login,
		AutorizadorSenha: &senha,
	}

	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, req)
	require.NoError(t, err)
	assert.True(t, resp.ValorTotal.IsZero())
}

// ─── crediário ───────────────────────────────────────────────────────────────

func (env *ambienteVenda) reqCrediario(clienteID uuid.UUID, qty, parcelas int, pin string) dto.RegistrarVendaRequest {
	return dto.RegistrarVendaRequest{
		ClienteID:       clienteID.String(),
		MetodoPagamento: model.MetodoCrediario,
		Itens:           []dto.ItemVendaRequest{{ProdutoVariacaoID: env.variacaoID.String(), Quantidade: qty}},
		Crediario: &dto.CrediarioRequest{
			Pin:                pin,
			AssinaturaBase64:   "ZmFrZS1zaWduYXR1cmU=",
			QuantidadeParcelas: parcelas,
		},
	}
}

func TestCrediarioClienteSemVinculoFuncional(t *testing.T) {
	env := novoAmbienteVenda(t)

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqCrediario(env.cliente.ID, 1, 3, "4321"))
	assert.Equal(t, apierror.CodeCreditNotEligible, codigoDe(t, err))
}

func TestCrediarioPinIncorreto(t *testing.T) {
	env := novoAmbienteVenda(t)

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqCrediario(env.comprador.ID, 1, 3, "0000"))
	assert.Equal(t, apierror.CodeCreditAuthFailed, codigoDe(t, err))
}

func TestCrediarioLimiteExcedido(t *testing.T) {
	env := novoAmbienteVenda(t)
	env.comprador.LimiteCredito = decimal.NewFromInt(15)

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqCrediario(env.comprador.ID, 2, 3, "4321"))
	assert.Equal(t, apierror.CodeCreditLimitExceeded, codigoDe(t, err))
}

func TestCrediarioLimiteConsideraDividaAberta(t *testing.T) {
	env := novoAmbienteVenda(t)
	env.comprador.LimiteCredito = decimal.NewFromInt(50)
	require.NoError(t, env.contas.CreateTx(nil, &model.ContaReceber{
		VendaID:   uuid.New(),
		ClienteID: env.comprador.ID,
		Status:    model.StatusContaAberta,
		Parcelas: []model.Parcela{
			{NumeroParcela: 1, ValorOriginal: decimal.NewFromInt(40), ValorPago: decimal.Zero, Status: model.StatusParcelaPendente},
		},
	}))

	_, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqCrediario(env.comprador.ID, 2, 2, "4321"))
	assert.Equal(t, apierror.CodeCreditLimitExceeded, codigoDe(t, err))
}

func TestCrediarioCriaContaComParcelas(t *testing.T) {
	env := novoAmbienteVenda(t)

	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqCrediario(env.comprador.ID, 3, 3, "4321"))
	require.NoError(t, err)
	require.NotNil(t, resp.ContaReceberID)

	contaID, err := uuid.Parse(*resp.ContaReceberID)
	require.NoError(t, err)
	conta, err := env.contas.FindByID(context.Background(), contaID)
	require.NoError(t, err)

	require.Len(t, conta.Parcelas, 3)
	soma := decimal.Zero
	for i, p := range conta.Parcelas {
		assert.Equal(t, i+1, p.NumeroParcela)
		assert.Equal(t, model.StatusParcelaPendente, p.Status)
		assert.Equal(t, agoraFixo.AddDate(0, 0, (i+1)*30), p.DataVencimento)
		soma = soma.Add(p.ValorOriginal)
	}
	assert.True(t, soma.Equal(decimal.NewFromInt(30)), "parcelas somam o total")
	assert.Len(t, env.vendas.evidencias, 1, "assinatura registrada")
}

func TestMontarParcelasDistribuiResiduoNaPrimeira(t *testing.T) {
	base := agoraFixo

	exatas := montarParcelas(decimal.NewFromInt(45), 3, base)
	for _, p := range exatas {
		assert.True(t, p.ValorOriginal.Equal(decimal.NewFromInt(15)))
	}

	comResiduo := montarParcelas(decimal.NewFromInt(100), 3, base)
	assert.True(t, comResiduo[0].ValorOriginal.Equal(decimal.RequireFromString("33.34")))
	assert.True(t, comResiduo[1].ValorOriginal.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, comResiduo[2].ValorOriginal.Equal(decimal.RequireFromString("33.33")))

	soma := decimal.Zero
	for i, p := range comResiduo {
		soma = soma.Add(p.ValorOriginal)
		assert.Equal(t, base.AddDate(0, 0, (i+1)*30), p.DataVencimento)
	}
	assert.True(t, soma.Equal(decimal.NewFromInt(100)))
}

// ─── cancelamento e reativação ───────────────────────────────────────────────

func TestCancelarVendaRestauraEstoque(t *testing.T) {
	env := novoAmbienteVenda(t)
	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(2, 20))
	require.NoError(t, err)
	vendaID := uuid.MustParse(resp.ID)

	require.NoError(t, env.svc.CancelarVenda(context.Background(), vendaID, "cliente desistiu"))

	assert.Equal(t, 10, env.estoque.quantidade(env.unidadeID, env.variacaoID))
	venda, err := env.vendas.FindByID(context.Background(), vendaID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusVendaCancelada, venda.Status)
}

func TestCancelarVendaComCaixaFechado(t *testing.T) {
	env := novoAmbienteVenda(t)
	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(1, 10))
	require.NoError(t, err)
	env.caixa.Status = model.StatusCaixaFechado

	err = env.svc.CancelarVenda(context.Background(), uuid.MustParse(resp.ID), "tentativa tardia")
	assert.Equal(t, apierror.CodeAlreadyClosed, codigoDe(t, err))
}

func TestCancelarVendaJaCancelada(t *testing.T) {
	env := novoAmbienteVenda(t)
	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(1, 10))
	require.NoError(t, err)
	vendaID := uuid.MustParse(resp.ID)
	require.NoError(t, env.svc.CancelarVenda(context.Background(), vendaID, "primeira vez"))

	err = env.svc.CancelarVenda(context.Background(), vendaID, "segunda vez")
	assert.Equal(t, apierror.CodeConflict, codigoDe(t, err))
}

func TestCancelarCrediarioComParcelaPagaFalha(t *testing.T) {
	env := novoAmbienteVenda(t)
	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqCrediario(env.comprador.ID, 3, 3, "4321"))
	require.NoError(t, err)

	contaID := uuid.MustParse(*resp.ContaReceberID)
	conta, err := env.contas.FindByID(context.Background(), contaID)
	require.NoError(t, err)
	conta.Parcelas[0].ValorPago = decimal.NewFromInt(5)

	err = env.svc.CancelarVenda(context.Background(), uuid.MustParse(resp.ID), "tentativa com pagamento")
	assert.Equal(t, apierror.CodeConflict, codigoDe(t, err))
}

func TestReativarVendaCrediarioRecriaConta(t *testing.T) {
	env := novoAmbienteVenda(t)
	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqCrediario(env.comprador.ID, 3, 3, "4321"))
	require.NoError(t, err)
	vendaID := uuid.MustParse(resp.ID)

	require.NoError(t, env.svc.CancelarVenda(context.Background(), vendaID, "engano"))
	assert.Equal(t, 10, env.estoque.quantidade(env.unidadeID, env.variacaoID))
	_, err = env.contas.FindPorVenda(context.Background(), vendaID)
	assert.Error(t, err, "conta removida no cancelamento")

	require.NoError(t, env.svc.ReativarVenda(context.Background(), vendaID))

	assert.Equal(t, 7, env.estoque.quantidade(env.unidadeID, env.variacaoID))
	conta, err := env.contas.FindPorVenda(context.Background(), vendaID)
	require.NoError(t, err)
	assert.Len(t, conta.Parcelas, 3)
	assert.True(t, conta.ValorTotal.Equal(decimal.NewFromInt(30)))
}

func TestReativarVendaSemEstoqueFalha(t *testing.T) {
	env := novoAmbienteVenda(t)
	resp, err := env.svc.RegistrarVenda(context.Background(), env.vendedor.ID, env.reqDinheiro(8, 80))
	require.NoError(t, err)
	vendaID := uuid.MustParse(resp.ID)
	require.NoError(t, env.svc.CancelarVenda(context.Background(), vendaID, "desfazer"))

	// Someone else takes the stock before the reactivation.
	env.estoque.definir(env.unidadeID, env.variacaoID, 2)

	err = env.svc.ReativarVenda(context.Background(), vendaID)
	assert.Equal(t, apierror.CodeInsufficientStock, codigoDe(t, err))
}
