package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// GetByID retrieves a category by ID within a wallet
func (r *CategoryRepository) GetByID(walletID, id uuid.UUID) (*domain.Category, error) {
	ctx := context.Background()

	var c domain.Category
	var categoryType string
	err := r.pool.QueryRow(ctx, `SELECT id, wallet_id, name, type, created_at
		FROM categories WHERE wallet_id = $1 AND id = $2`, walletID, id).
		Scan(&c.ID, &c.WalletID, &c.Name, &categoryType, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	c.Type = domain.CategoryType(categoryType)
	return &c, nil
}

// ListByWallet lists a wallet's categories ordered by name
func (r *CategoryRepository) ListByWallet(walletID uuid.UUID) ([]*domain.Category, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `SELECT id, wallet_id, name, type, created_at
		FROM categories WHERE wallet_id = $1 ORDER BY name ASC`, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		var categoryType string
		if err := rows.Scan(&c.ID, &c.WalletID, &c.Name, &categoryType, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Type = domain.CategoryType(categoryType)
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Create inserts a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	err := r.pool.QueryRow(ctx, `INSERT INTO categories (wallet_id, name, type)
		VALUES ($1, $2, $3) RETURNING id, created_at`,
		category.WalletID, category.Name, string(category.Type)).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Update renames or retypes a category
func (r *CategoryRepository) Update(walletID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $3, type = $4
		WHERE wallet_id = $1 AND id = $2`, walletID, id, name, string(categoryType))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return r.GetByID(walletID, id)
}

// Delete removes a category; transactions referencing it keep a null
// category via ON DELETE SET NULL
func (r *CategoryRepository) Delete(walletID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE wallet_id = $1 AND id = $2`, walletID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
