package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/Alakh11/bizztrack-api/internal/application/billing"
	"github.com/Alakh11/bizztrack-api/pkg/config"
	"github.com/Alakh11/bizztrack-api/pkg/logger"
)

var _ billing.EmailSender = (*GomailSender)(nil)

// GomailSender envía facturas por SMTP usando gomail. El documento HTML viaja
// como cuerpo del mensaje; el texto plano del usuario (si lo hay) va como
// alternativa.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

// NewGomailSender construye el sender desde la configuración SMTP. Retorna nil
// si SMTP_HOST está vacío: el caso de uso trata el sender nil como "envío de
// correo deshabilitado".
func NewGomailSender(cfg config.SMTPConfig, log *logger.Logger) *GomailSender {
	if cfg.Host == "" {
		return nil
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
		log:    log,
	}
}

// Send despacha el mensaje. El dial es bloqueante; se respeta la cancelación
// del contexto solo a nivel de chequeo previo (gomail no acepta ctx).
func (s *GomailSender) Send(ctx context.Context, msg billing.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	if msg.Body != "" {
		m.SetBody("text/plain", msg.Body)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", msg.To, err)
	}
	s.log.Info().Str("to", msg.To).Str("invoice_id", msg.InvoiceID).Msg("factura enviada por correo")
	return nil
}
