package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// TagRepository implements domain.TagRepository using PostgreSQL
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// ListByWallet lists a wallet's tags ordered by name
func (r *TagRepository) ListByWallet(walletID uuid.UUID) ([]*domain.Tag, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `SELECT id, name FROM tags
		WHERE wallet_id = $1 ORDER BY name ASC`, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]*domain.Tag, 0)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// GetByID retrieves a tag by ID within a wallet
func (r *TagRepository) GetByID(walletID, id uuid.UUID) (*domain.Tag, error) {
	ctx := context.Background()

	var t domain.Tag
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM tags
		WHERE wallet_id = $1 AND id = $2`, walletID, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tag
func (r *TagRepository) Create(walletID uuid.UUID, name string) (*domain.Tag, error) {
	ctx := context.Background()

	t := domain.Tag{Name: name}
	err := r.pool.QueryRow(ctx, `INSERT INTO tags (wallet_id, name)
		VALUES ($1, $2) RETURNING id`, walletID, name).Scan(&t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a tag; transaction links go with it via ON DELETE CASCADE
func (r *TagRepository) Delete(walletID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE wallet_id = $1 AND id = $2`, walletID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}
