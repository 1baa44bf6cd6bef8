// Package authz centralizes role checks in a single capability table so the
// operation-to-role mapping can be read (and reviewed) in one place instead of
// being scattered through handlers and services.
package authz

import "varejopos/internal/model"

// Operacao names a protected business operation.
type Operacao string

const (
	OpAbrirCaixa          Operacao = "caixa.abrir"
	OpFecharCaixa         Operacao = "caixa.fechar"
	OpMovimentarCaixa     Operacao = "caixa.movimentar"
	OpRelatorioCaixa      Operacao = "caixa.relatorio"
	OpRelatorioCaixaTodos Operacao = "caixa.relatorio.todos"

	OpRegistrarVenda Operacao = "venda.registrar"
	OpCancelarVenda  Operacao = "venda.cancelar"
	OpReativarVenda  Operacao = "venda.reativar"
	OpListarVendas   Operacao = "venda.listar"

	OpPagarParcela       Operacao = "conta.pagar_parcela"
	OpConsultarContas    Operacao = "conta.consultar"
	OpDescontoManual     Operacao = "desconto.manual"
	OpDescontoSemLimite  Operacao = "desconto.sem_limite"
	OpGerenciarVouchers  Operacao = "voucher.gerenciar"
	OpGerenciarProdutos  Operacao = "produto.gerenciar"
	OpGerenciarEstoque   Operacao = "estoque.gerenciar"
	OpGerenciarPessoas   Operacao = "pessoa.gerenciar"
	OpDefinirLimite      Operacao = "cliente.definir_limite"
	OpAutorizarSangria   Operacao = "caixa.autorizar_sangria"
)

var todos = []model.Cargo{
	model.CargoAdmin, model.CargoDono, model.CargoGerente,
	model.CargoLiderVenda, model.CargoRecepcionista,
}

var gestao = []model.Cargo{model.CargoAdmin, model.CargoDono, model.CargoGerente}

// capacidades maps each operation to the roles allowed to perform it.
var capacidades = map[Operacao][]model.Cargo{
	OpAbrirCaixa:          todos,
	OpFecharCaixa:         todos,
	OpMovimentarCaixa:     todos,
	OpRelatorioCaixa:      todos,
	OpRelatorioCaixaTodos: gestao,

	OpRegistrarVenda: todos,
	OpCancelarVenda:  gestao,
	OpReativarVenda:  gestao,
	OpListarVendas:   todos,

	OpPagarParcela:      todos,
	OpConsultarContas:   todos,
	OpDescontoManual:    todos,
	OpDescontoSemLimite: gestao,
	OpGerenciarVouchers: gestao,
	OpGerenciarProdutos: gestao,
	OpGerenciarEstoque:  gestao,
	OpGerenciarPessoas:  gestao,
	OpDefinirLimite:     gestao,
	OpAutorizarSangria:  gestao,
}

// Permitido reports whether cargo may perform op. Unknown operations are
// always denied.
func Permitido(cargo model.Cargo, op Operacao) bool {
	for _, c := range capacidades[op] {
		if c == cargo {
			return true
		}
	}
	return false
}

// Gestao reports whether cargo belongs to the management tier
// (ADMIN, DONO, GERENTE). Management skips the manual-discount cap and sees
// every register in reports.
func Gestao(cargo model.Cargo) bool {
	switch cargo {
	case model.CargoAdmin, model.CargoDono, model.CargoGerente:
		return true
	}
	return false
}

// CargosPara returns the roles allowed for op, for route-level middleware.
func CargosPara(op Operacao) []model.Cargo {
	return capacidades[op]
}
