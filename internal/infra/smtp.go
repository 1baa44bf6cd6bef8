package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"

	"varejopos/internal/config"
)

// Mailer sends the crediário notification mails. When SMTP_HOST is unset the
// mailer runs in no-op mode and only logs, so local development does not need
// a mail server.
type Mailer struct {
	habilitado bool
	remetente  string
	senha      string
	host       string
	endereco   string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		habilitado: cfg.SMTPHost != "",
		remetente:  cfg.SMTPUser,
		senha:      cfg.SMTPPassword,
		host:       cfg.SMTPHost,
		endereco:   fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enviar sends a plain-text mail.
func (m *Mailer) Enviar(para, assunto, corpo string) error {
	if !m.habilitado {
		log.Info().Str("para", para).Str("assunto", assunto).Msg("smtp desabilitado, email não enviado")
		return nil
	}

	e := email.NewEmail()
	e.From = m.remetente
	e.To = []string{para}
	e.Subject = assunto
	e.Text = []byte(corpo)

	auth := smtp.PlainAuth("", m.remetente, m.senha, m.host)
	return e.Send(m.endereco, auth)
}
