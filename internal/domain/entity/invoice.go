package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	StatusDraft     = "draft"     // Guardada pero aún no enviada al cliente
	StatusSent      = "sent"      // Enviada (email, descarga o impresión)
	StatusPaid      = "paid"      // Pagada
	StatusOverdue   = "overdue"   // Vencida sin pago
	StatusCancelled = "cancelled" // Anulada
)

// Invoice representa la cabecera persistida de una factura.
//
// Los campos Client* son una copia instantánea (snapshot) de los datos del
// cliente al momento de facturar: editar el cliente después NO cambia la
// factura, y editar estos campos NO escribe de vuelta en el cliente.
type Invoice struct {
	ID            string
	InvoiceNumber string
	ClientID      string
	ClientName    string
	ClientAddress string
	ClientEmail   string
	ClientPhone   string
	InvoiceDate   time.Time
	DueDate       time.Time
	Status        string
	Notes         string
	Terms         string
	TotalAmount   decimal.Decimal
	Metadata      string // blob JSON serializado de metadata.InvoiceMetadata (opaco para la persistencia)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
