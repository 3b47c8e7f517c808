package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alakh11/bizztrack-api/internal/application/billing"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
)

var _ billing.CommitTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCommit inicia una transacción, ejecuta fn con un repo de facturas atado a la
// tx y hace Commit o Rollback. Cabecera y líneas se escriben en la misma tx: un
// fallo en cualquier punto no deja registro padre huérfano.
func (r *TxRunner) RunCommit(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
