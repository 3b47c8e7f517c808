package billing

import (
	"context"

	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
)

// CommitTxRunner ejecuta el guardado del commit dentro de una sola transacción:
// cabecera y líneas se confirman o se revierten juntas. No existe la ventana
// "cabecera creada, líneas fallidas".
type CommitTxRunner interface {
	RunCommit(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// EmailMessage payload que se entrega al colaborador de envío de correo. El
// motor no envía directamente: arma el contenido y reporta el resultado del
// colaborador al usuario.
type EmailMessage struct {
	To            string
	Subject       string
	Body          string
	ReplyTo       string // email del negocio, para que el cliente responda directo
	RecipientName string
	InvoiceID     string
	HTML          string // documento renderizado como cuerpo/adjunto
}

// EmailSender colaborador externo de envío de correo.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
