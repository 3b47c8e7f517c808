package repository

import (
	"context"

	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
)

// ProfileRepository puerto de lectura del perfil del negocio (usuario actual).
type ProfileRepository interface {
	Get(ctx context.Context) (*entity.BusinessProfile, error)
}
