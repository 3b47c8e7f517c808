package repository

import (
	"context"

	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia de facturas (colaborador externo para el builder).
// GetByID retorna (nil, nil) si no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	// ReplaceItems reemplaza todas las líneas de la factura por la lista dada (modo edición).
	ReplaceItems(ctx context.Context, invoiceID string, items []*entity.InvoiceItem) error
	GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
}
