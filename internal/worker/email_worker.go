package worker

// Processes jobs from QueueEmail: crediário purchase confirmations and
// overdue installment notices.

import (
	"context"
	"fmt"

	"varejopos/internal/infra"
)

type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, job Job) error {
	switch job.Tipo {
	case JobCrediarioConfirmacao:
		return w.enviarConfirmacao(job.Payload)
	case JobParcelaAtrasada:
		return w.enviarAvisoAtraso(job.Payload)
	}
	return fmt.Errorf("email_worker: tipo de job desconhecido %q", job.Tipo)
}

func (w *EmailWorker) enviarConfirmacao(payload map[string]interface{}) error {
	to, _ := payload["email"].(string)
	if to == "" {
		return fmt.Errorf("email_worker: payload sem email")
	}
	valor, _ := payload["valor"].(string)
	parcelas, _ := payload["parcelas"].(float64)

	subject := "Compra no crediário registrada"
	body := fmt.Sprintf(
		"Sua compra no crediário foi registrada.\n\nValor total: R$ %s\nParcelas: %d\n\nAcompanhe seus vencimentos com o setor financeiro.",
		valor, int(parcelas))
	return w.mailer.Enviar(to, subject, body)
}

func (w *EmailWorker) enviarAvisoAtraso(payload map[string]interface{}) error {
	to, _ := payload["email"].(string)
	if to == "" {
		return fmt.Errorf("email_worker: payload sem email")
	}
	nome, _ := payload["nome"].(string)
	numero, _ := payload["numero_parcela"].(float64)
	valor, _ := payload["valor"].(string)
	vencimento, _ := payload["data_vencimento"].(string)

	subject := "Parcela do crediário em atraso"
	body := fmt.Sprintf(
		"Olá %s,\n\nA parcela %d do seu crediário venceu em %s e segue em aberto.\nSaldo devedor: R$ %s\n\nProcure o caixa para regularizar.",
		nome, int(numero), vencimento, valor)
	return w.mailer.Enviar(to, subject, body)
}
