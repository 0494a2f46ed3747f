package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(id uuid.UUID) (*domain.Profile, error) {
	ctx := context.Background()

	var p domain.Profile
	err := r.pool.QueryRow(ctx, `SELECT id, auth_id, email, full_name
		FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.AuthID, &p.Email, &p.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByAuthID retrieves a profile by its auth provider subject
func (r *ProfileRepository) GetByAuthID(authID string) (*domain.Profile, error) {
	ctx := context.Background()

	var p domain.Profile
	err := r.pool.QueryRow(ctx, `SELECT id, auth_id, email, full_name
		FROM profiles WHERE auth_id = $1`, authID).
		Scan(&p.ID, &p.AuthID, &p.Email, &p.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreateOrGetByAuthID inserts a profile for a new auth subject or returns
// the existing one
func (r *ProfileRepository) CreateOrGetByAuthID(authID, email, fullName string) (*domain.Profile, error) {
	existing, err := r.GetByAuthID(authID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	ctx := context.Background()
	p := domain.Profile{AuthID: authID, Email: email, FullName: fullName}
	err = r.pool.QueryRow(ctx, `INSERT INTO profiles (auth_id, email, full_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (auth_id) DO UPDATE SET email = EXCLUDED.email
		RETURNING id`, authID, email, fullName).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
