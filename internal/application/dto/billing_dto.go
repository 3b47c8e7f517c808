package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Alakh11/bizztrack-api/internal/domain/metadata"
)

// SaveInvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
// Trae el estado acumulado de los tres pasos del builder. Las fechas van en
// formato YYYY-MM-DD. Metadata nil en una edición significa "no tocar la
// metadata existente"; presente, sus ramas nil deshabilitan las secciones
// correspondientes (shipping/transport).
type SaveInvoiceRequest struct {
	InvoiceNumber string `json:"invoice_number,omitempty"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
	DueDate       string `json:"due_date,omitempty"`

	// Campos Client* overrides opcionales de la copia snapshot: el valor no
	// vacío pisa el copiado, el vacío se ignora (no limpia).
	ClientID      string `json:"client_id,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	ClientAddress string `json:"client_address,omitempty"`
	ClientEmail   string `json:"client_email,omitempty"`
	ClientPhone   string `json:"client_phone,omitempty"`
	// SaveToClient acción explícita "guardar en los datos del cliente":
	// escribe las ediciones locales de vuelta en el registro del cliente.
	SaveToClient bool `json:"save_to_client,omitempty"`

	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
	Terms  string `json:"terms,omitempty"`

	Items    []InvoiceItemRequest      `json:"items"`
	Metadata *metadata.InvoiceMetadata `json:"metadata,omitempty"`
}

// InvoiceItemRequest línea del builder (el amount siempre se deriva, nunca se acepta).
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// InvoiceResponse factura con detalle completo.
type InvoiceResponse struct {
	ID            string                    `json:"id"`
	InvoiceNumber string                    `json:"invoice_number"`
	InvoiceDate   string                    `json:"invoice_date"`
	DueDate       string                    `json:"due_date"`
	ClientID      string                    `json:"client_id,omitempty"`
	ClientName    string                    `json:"client_name"`
	ClientAddress string                    `json:"client_address,omitempty"`
	ClientEmail   string                    `json:"client_email,omitempty"`
	ClientPhone   string                    `json:"client_phone,omitempty"`
	Status        string                    `json:"status"`
	Notes         string                    `json:"notes,omitempty"`
	Terms         string                    `json:"terms,omitempty"`
	TotalAmount   decimal.Decimal           `json:"total_amount"`
	Metadata      *metadata.InvoiceMetadata `json:"metadata"`
	Items         []InvoiceItemResponse     `json:"items"`
}

// InvoiceItemResponse línea persistida en la respuesta.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceSummary fila para el listado de facturas.
type InvoiceSummary struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"`
	DueDate       string          `json:"due_date"`
	ClientName    string          `json:"client_name"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// ClientResponse cliente en respuestas (colaborador de solo lectura).
type ClientResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// EmailInvoiceRequest body para POST /api/invoices/:id/email. Campos vacíos se
// completan con valores derivados (destinatario = email del cliente, asunto con
// el número de factura).
type EmailInvoiceRequest struct {
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}
