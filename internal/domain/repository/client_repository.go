package repository

import (
	"context"

	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
)

// ClientRepository puerto de lectura de clientes. Update existe solo para la acción
// explícita "guardar en los datos del cliente" del builder (write-back opcional).
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
}
