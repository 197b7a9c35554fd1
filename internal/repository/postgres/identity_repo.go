package postgres

import (
	"context"
	"errors"
	"go-profile-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type identityRepo struct {
	db *pgxpool.Pool
}

func NewIdentityRepository(db *pgxpool.Pool) domain.IdentityRepository {
	return &identityRepo{db: db}
}

func (r *identityRepo) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	query := `SELECT id, name, email, avatar, created_at FROM users WHERE id = $1`
	var identity domain.Identity
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&identity.ID, &identity.Name, &identity.Email, &identity.Avatar, &identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// Delete removes the account. Deleting a missing account is not an error.
func (r *identityRepo) Delete(ctx context.Context, id string) error {
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
