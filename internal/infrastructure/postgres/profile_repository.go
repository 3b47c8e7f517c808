package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación de ProfileRepository. El dashboard es de un solo
// negocio, así que el perfil es la única fila de business_profiles.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// Get obtiene el perfil del negocio. Retorna (nil, nil) si aún no se configuró.
func (r *ProfileRepo) Get(ctx context.Context) (*entity.BusinessProfile, error) {
	query := `
		SELECT id, business_name, COALESCE(business_address, ''), COALESCE(business_phone, ''), COALESCE(business_email, '')
		FROM business_profiles ORDER BY created_at LIMIT 1`
	var p entity.BusinessProfile
	err := r.q.QueryRow(ctx, query).Scan(
		&p.ID, &p.BusinessName, &p.BusinessAddress, &p.BusinessPhone, &p.BusinessEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business profile: %w", err)
	}
	return &p, nil
}
