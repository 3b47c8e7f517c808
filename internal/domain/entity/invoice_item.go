package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea persistida de una factura.
// Amount queda congelado al momento del guardado (quantity * unit_price sin redondear).
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}
