package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"profile-hub/internal/domain"
)

// IdentityRepository expone las identidades externas del principal. Solo lectura:
// la tabla pertenece al proveedor de autenticacion.
type IdentityRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.IdentityClaim, error)
}

// PgIdentityRepository implementa IdentityRepository usando pgxpool.
type PgIdentityRepository struct {
	pool *pgxpool.Pool
}

func NewPgIdentityRepository(pool *pgxpool.Pool) *PgIdentityRepository {
	return &PgIdentityRepository{pool: pool}
}

func (r *PgIdentityRepository) ListByUser(ctx context.Context, userID string) ([]domain.IdentityClaim, error) {
	const query = `
		SELECT user_id, provider, created_at
		FROM auth_identities
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.IdentityClaim, error) {
		var c domain.IdentityClaim
		err := row.Scan(&c.UserID, &c.Provider, &c.CreatedAt)
		return c, err
	})
}
