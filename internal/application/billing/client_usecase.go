package billing

import (
	"context"
	"fmt"

	"github.com/Alakh11/bizztrack-api/internal/application/dto"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
)

// ClientUseCase lectura de clientes (colaborador de solo lectura para el builder).
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// ListClients lista los clientes disponibles para seleccionar en el builder.
func (uc *ClientUseCase) ListClients(ctx context.Context) ([]dto.ClientResponse, error) {
	clients, err := uc.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, dto.ClientResponse{
			ID:      c.ID,
			Name:    c.Name,
			Address: c.Address,
			Email:   c.Email,
			Phone:   c.Phone,
		})
	}
	return out, nil
}
