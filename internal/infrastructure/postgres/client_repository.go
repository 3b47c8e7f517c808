package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// GetByID obtiene un cliente por ID. Retorna (nil, nil) si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `
		SELECT id, name, COALESCE(address, ''), COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at
		FROM clients WHERE id = $1`
	var c entity.Client
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// List devuelve todos los clientes ordenados por nombre.
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	query := `
		SELECT id, name, COALESCE(address, ''), COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at
		FROM clients ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update persiste los datos editables del cliente (acción explícita "guardar en
// los datos del cliente" del builder).
func (r *ClientRepo) Update(ctx context.Context, client *entity.Client) error {
	client.UpdatedAt = time.Now()
	query := `
		UPDATE clients
		SET name       = $2,
		    address    = $3,
		    email      = $4,
		    phone      = $5,
		    updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		client.ID, client.Name, nullIfEmpty(client.Address),
		nullIfEmpty(client.Email), nullIfEmpty(client.Phone), client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update client %s: no existe", client.ID)
	}
	return nil
}
