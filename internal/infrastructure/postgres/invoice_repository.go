package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, client_id, client_name, client_address, client_email, client_phone,
	       invoice_date, due_date, status, COALESCE(notes, ''), COALESCE(terms, ''),
	       total_amount, COALESCE(metadata, ''), created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	now := time.Now()
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = now
	}
	invoice.UpdatedAt = now
	query := `
		INSERT INTO invoices (id, invoice_number, client_id, client_name, client_address, client_email, client_phone,
		                      invoice_date, due_date, status, notes, terms, total_amount, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, nullIfEmpty(invoice.ClientID),
		invoice.ClientName, invoice.ClientAddress, invoice.ClientEmail, invoice.ClientPhone,
		invoice.InvoiceDate, invoice.DueDate, invoice.Status,
		nullIfEmpty(invoice.Notes), nullIfEmpty(invoice.Terms),
		invoice.TotalAmount, nullIfEmpty(invoice.Metadata),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update actualiza la cabecera completa (modo edición y cambios de estado).
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	invoice.UpdatedAt = time.Now()
	query := `
		UPDATE invoices
		SET invoice_number = $2,
		    client_id      = $3,
		    client_name    = $4,
		    client_address = $5,
		    client_email   = $6,
		    client_phone   = $7,
		    invoice_date   = $8,
		    due_date       = $9,
		    status         = $10,
		    notes          = $11,
		    terms          = $12,
		    total_amount   = $13,
		    metadata       = $14,
		    updated_at     = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, nullIfEmpty(invoice.ClientID),
		invoice.ClientName, invoice.ClientAddress, invoice.ClientEmail, invoice.ClientPhone,
		invoice.InvoiceDate, invoice.DueDate, invoice.Status,
		nullIfEmpty(invoice.Notes), nullIfEmpty(invoice.Terms),
		invoice.TotalAmount, nullIfEmpty(invoice.Metadata),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update invoice %s: no existe", invoice.ID)
	}
	return nil
}

// GetByID obtiene una factura por ID. Retorna (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List devuelve todas las facturas, las más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// ReplaceItems borra las líneas existentes de la factura e inserta la lista dada
// (la edición reemplaza el conjunto completo, no hace diff).
func (r *InvoiceRepo) ReplaceItems(ctx context.Context, invoiceID string, items []*entity.InvoiceItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	for _, item := range items {
		item.InvoiceID = invoiceID
		if err := r.CreateItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// GetItemsByInvoiceID obtiene todas las líneas de una factura en orden de inserción
// (position es un BIGSERIAL asignado por la base).
func (r *InvoiceRepo) GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var clientID *string
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &clientID,
		&inv.ClientName, &inv.ClientAddress, &inv.ClientEmail, &inv.ClientPhone,
		&inv.InvoiceDate, &inv.DueDate, &inv.Status, &inv.Notes, &inv.Terms,
		&inv.TotalAmount, &inv.Metadata, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if clientID != nil {
		inv.ClientID = *clientID
	}
	return &inv, nil
}
