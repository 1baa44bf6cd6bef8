package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varejopos/internal/apierror"
	"varejopos/internal/dto"
	"varejopos/internal/model"
)

type ambienteConta struct {
	contas *stubContaRepo
	caixas *stubCaixaRepo
	svc    ContaReceberService

	cobradorID uuid.UUID
	caixa      *model.Caixa
	conta      *model.ContaReceber
}

// novoAmbienteConta monta uma conta ABERTA com três parcelas de R$ 30 e um
// caixa aberto para o cobrador.
func novoAmbienteConta(t *testing.T) *ambienteConta {
	t.Helper()
	env := &ambienteConta{
		contas:     newStubContaRepo(),
		caixas:     newStubCaixaRepo(),
		cobradorID: uuid.New(),
	}
	relogio := RelogioFixo{Instante: agoraFixo}
	caixaSvc := NewCaixaService(env.caixas, relogio)
	env.svc = NewContaReceberService(env.contas, env.caixas, caixaSvc, relogio, nil)

	env.caixa = &model.Caixa{
		FuncionarioID: env.cobradorID,
		SaldoInicial:  decimal.NewFromInt(50),
		Status:        model.StatusCaixaAberto,
		DataAbertura:  agoraFixo,
	}
	require.NoError(t, env.caixas.Create(context.Background(), env.caixa))

	env.conta = &model.ContaReceber{
		VendaID:            uuid.New(),
		ClienteID:          uuid.New(),
		ValorTotal:         decimal.NewFromInt(90),
		QuantidadeParcelas: 3,
		Status:             model.StatusContaAberta,
		DataCriacao:        agoraFixo,
	}
	for i := 1; i <= 3; i++ {
		env.conta.Parcelas = append(env.conta.Parcelas, model.Parcela{
			NumeroParcela:  i,
			ValorOriginal:  decimal.NewFromInt(30),
			ValorPago:      decimal.Zero,
			DataVencimento: agoraFixo.AddDate(0, 0, i*30),
			Status:         model.StatusParcelaPendente,
		})
	}
	require.NoError(t, env.contas.CreateTx(nil, env.conta))
	return env
}

func (env *ambienteConta) pagar(t *testing.T, numero int, valor int64) (*dto.PagamentoParcelaResponse, error) {
	t.Helper()
	return env.svc.PagarParcela(context.Background(), env.cobradorID, env.conta.ID, dto.PagarParcelaRequest{
		NumeroParcela: numero,
		Valor:         decimal.NewFromInt(valor),
	})
}

func TestPagarParcelaExata(t *testing.T) {
	env := novoAmbienteConta(t)

	resp, err := env.pagar(t, 1, 30)
	require.NoError(t, err)

	assert.Equal(t, model.StatusContaAberta, resp.StatusConta)
	require.Len(t, resp.Parcelas, 1)
	assert.Equal(t, model.StatusParcelaPaga, resp.Parcelas[0].Status)
	assert.True(t, resp.Parcelas[0].SaldoDevedor.IsZero())
}

func TestPagamentoCascataAtravessaParcelas(t *testing.T) {
	env := novoAmbienteConta(t)

	resp, err := env.pagar(t, 1, 45)
	require.NoError(t, err)

	require.Len(t, resp.Parcelas, 2)
	assert.Equal(t, model.StatusParcelaPaga, resp.Parcelas[0].Status)
	assert.Equal(t, model.StatusParcelaPendente, resp.Parcelas[1].Status)
	assert.True(t, resp.Parcelas[1].ValorPago.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, model.StatusContaAberta, resp.StatusConta)
}

func TestPagamentoSempreComecaNaPrimeiraParcelaAberta(t *testing.T) {
	env := novoAmbienteConta(t)

	// Naming parcela 2 only addresses the conta; the money still fills the
	// installments in ascending order, starting at parcela 1.
	resp, err := env.pagar(t, 2, 40)
	require.NoError(t, err)

	require.Len(t, resp.Parcelas, 2)
	assert.Equal(t, 1, resp.Parcelas[0].NumeroParcela)
	assert.Equal(t, model.StatusParcelaPaga, resp.Parcelas[0].Status)
	assert.Equal(t, 2, resp.Parcelas[1].NumeroParcela)
	assert.True(t, resp.Parcelas[1].ValorPago.Equal(decimal.NewFromInt(10)))

	conta, err := env.contas.FindByID(context.Background(), env.conta.ID)
	require.NoError(t, err)
	assert.True(t, conta.Parcelas[2].ValorPago.IsZero())
}

func TestPagamentoTotalQuitaConta(t *testing.T) {
	env := novoAmbienteConta(t)

	resp, err := env.pagar(t, 1, 90)
	require.NoError(t, err)

	assert.Equal(t, model.StatusContaQuitada, resp.StatusConta)
	for _, p := range resp.Parcelas {
		assert.Equal(t, model.StatusParcelaPaga, p.Status)
	}
}

func TestPagamentoAcimaDoSaldoRejeitadoInteiro(t *testing.T) {
	env := novoAmbienteConta(t)

	_, err := env.pagar(t, 1, 100)
	assert.Equal(t, apierror.CodeOverpaymentRejected, codigoDe(t, err))

	// Nada foi aplicado.
	conta, err := env.contas.FindByID(context.Background(), env.conta.ID)
	require.NoError(t, err)
	for _, p := range conta.Parcelas {
		assert.True(t, p.ValorPago.IsZero())
		assert.Equal(t, model.StatusParcelaPendente, p.Status)
	}
}

func TestOverpaymentMedidoPelaContaInteira(t *testing.T) {
	env := novoAmbienteConta(t)
	_, err := env.pagar(t, 1, 30)
	require.NoError(t, err)

	// Restam R$ 60 em aberto na conta; R$ 70 é recusado por inteiro.
	_, err = env.pagar(t, 2, 70)
	assert.Equal(t, apierror.CodeOverpaymentRejected, codigoDe(t, err))

	conta, err := env.contas.FindByID(context.Background(), env.conta.ID)
	require.NoError(t, err)
	assert.True(t, conta.Parcelas[1].ValorPago.IsZero())
	assert.True(t, conta.Parcelas[2].ValorPago.IsZero())
}

func TestPagamentoNomeandoUltimaParcelaAindaCascateiaDesdeAPrimeira(t *testing.T) {
	env := novoAmbienteConta(t)

	// O saldo de referência é o da conta inteira (R$ 90), não o da parcela
	// nomeada em diante; R$ 45 é aceito e preenche P1 e metade de P2.
	resp, err := env.pagar(t, 3, 45)
	require.NoError(t, err)

	require.Len(t, resp.Parcelas, 2)
	assert.Equal(t, 1, resp.Parcelas[0].NumeroParcela)
	assert.Equal(t, model.StatusParcelaPaga, resp.Parcelas[0].Status)
	assert.True(t, resp.Parcelas[1].ValorPago.Equal(decimal.NewFromInt(15)))
}

func TestPagarParcelaJaPaga(t *testing.T) {
	env := novoAmbienteConta(t)
	_, err := env.pagar(t, 1, 30)
	require.NoError(t, err)

	_, err = env.pagar(t, 1, 10)
	assert.Equal(t, apierror.CodeAlreadyPaid, codigoDe(t, err))
}

func TestPagarContaQuitada(t *testing.T) {
	env := novoAmbienteConta(t)
	_, err := env.pagar(t, 1, 90)
	require.NoError(t, err)

	_, err = env.pagar(t, 1, 10)
	assert.Equal(t, apierror.CodeAlreadyPaid, codigoDe(t, err))
}

func TestPagarParcelaInexistente(t *testing.T) {
	env := novoAmbienteConta(t)

	_, err := env.pagar(t, 7, 10)
	assert.Equal(t, apierror.CodeNotFound, codigoDe(t, err))
}

func TestPagamentoParcialMantemPendente(t *testing.T) {
	env := novoAmbienteConta(t)

	resp, err := env.pagar(t, 1, 12)
	require.NoError(t, err)

	require.Len(t, resp.Parcelas, 1)
	assert.Equal(t, model.StatusParcelaPendente, resp.Parcelas[0].Status)
	assert.True(t, resp.Parcelas[0].SaldoDevedor.Equal(decimal.NewFromInt(18)))
}

func TestPagamentoRegistraEntradaNoCaixaDoCobrador(t *testing.T) {
	env := novoAmbienteConta(t)

	_, err := env.pagar(t, 1, 45)
	require.NoError(t, err)

	entradas, err := env.caixas.SomarMovimentacoesPorTipo(context.Background(), env.caixa.ID, model.MovimentacaoEntrada)
	require.NoError(t, err)
	assert.True(t, entradas.Equal(decimal.NewFromInt(45)))

	// One consolidated movement naming each installment it touched.
	movs, err := env.caixas.ListMovimentacoes(context.Background(), env.caixa.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Contains(t, movs[0].Motivo, "P1(Quitada)")
	assert.Contains(t, movs[0].Motivo, "P2(Parcial)")
}

func TestPagamentoSemCaixaAbertoRejeitado(t *testing.T) {
	env := novoAmbienteConta(t)
	env.caixa.Status = model.StatusCaixaFechado

	_, err := env.pagar(t, 1, 30)
	assert.Equal(t, apierror.CodeSessionNotOpen, codigoDe(t, err))

	// O dinheiro não entrou em lugar nenhum e a parcela segue em aberto.
	conta, err := env.contas.FindByID(context.Background(), env.conta.ID)
	require.NoError(t, err)
	assert.True(t, conta.Parcelas[0].ValorPago.IsZero())
	assert.Empty(t, env.caixas.movimentacoes)
}

// ─── varredura de vencimento ─────────────────────────────────────────────────

func TestVarrerVencidasMarcaAtrasadas(t *testing.T) {
	env := novoAmbienteConta(t)
	// Duas parcelas já venceram, uma ainda não.
	env.conta.Parcelas[0].DataVencimento = agoraFixo.AddDate(0, 0, -40)
	env.conta.Parcelas[1].DataVencimento = agoraFixo.AddDate(0, 0, -10)

	marcadas, err := env.svc.VarrerVencidas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, marcadas)

	conta, err := env.contas.FindByID(context.Background(), env.conta.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusParcelaAtrasada, conta.Parcelas[0].Status)
	assert.Equal(t, model.StatusParcelaAtrasada, conta.Parcelas[1].Status)
	assert.Equal(t, model.StatusParcelaPendente, conta.Parcelas[2].Status)
}

func TestVarrerVencidasIdempotente(t *testing.T) {
	env := novoAmbienteConta(t)
	env.conta.Parcelas[0].DataVencimento = agoraFixo.AddDate(0, 0, -1)

	marcadas, err := env.svc.VarrerVencidas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marcadas)

	marcadas, err = env.svc.VarrerVencidas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, marcadas, "ATRASADA não é varrida de novo")
}

func TestParcelaAtrasadaAindaRecebePagamento(t *testing.T) {
	env := novoAmbienteConta(t)
	env.conta.Parcelas[0].DataVencimento = agoraFixo.AddDate(0, 0, -1)
	_, err := env.svc.VarrerVencidas(context.Background())
	require.NoError(t, err)

	resp, err := env.pagar(t, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, model.StatusParcelaPaga, resp.Parcelas[0].Status)
}
