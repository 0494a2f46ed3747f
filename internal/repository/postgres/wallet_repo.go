package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// WalletRepository implements domain.WalletRepository using PostgreSQL
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// GetByID retrieves a wallet by ID
func (r *WalletRepository) GetByID(id uuid.UUID) (*domain.Wallet, error) {
	ctx := context.Background()

	var w domain.Wallet
	err := r.pool.QueryRow(ctx, `SELECT id, name, default_currency_code, created_by, created_at
		FROM wallets WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.DefaultCurrencyCode, &w.CreatedBy, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

// ListByProfile lists wallets the profile is a member of
func (r *WalletRepository) ListByProfile(profileID uuid.UUID) ([]*domain.Wallet, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `SELECT w.id, w.name, w.default_currency_code, w.created_by, w.created_at
		FROM wallets w
		JOIN wallet_members m ON m.wallet_id = w.id
		WHERE m.profile_id = $1
		ORDER BY w.created_at ASC`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0)
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(&w.ID, &w.Name, &w.DefaultCurrencyCode, &w.CreatedBy, &w.CreatedAt); err != nil {
			return nil, err
		}
		wallets = append(wallets, &w)
	}
	return wallets, rows.Err()
}

// Create inserts a new wallet
func (r *WalletRepository) Create(wallet *domain.Wallet) (*domain.Wallet, error) {
	ctx := context.Background()

	err := r.pool.QueryRow(ctx, `INSERT INTO wallets (name, default_currency_code, created_by)
		VALUES ($1, $2, $3) RETURNING id, created_at`,
		wallet.Name, wallet.DefaultCurrencyCode, wallet.CreatedBy).
		Scan(&wallet.ID, &wallet.CreatedAt)
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// Update renames a wallet or changes its default currency
func (r *WalletRepository) Update(id uuid.UUID, name, defaultCurrencyCode string) (*domain.Wallet, error) {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `UPDATE wallets SET name = $2, default_currency_code = $3
		WHERE id = $1`, id, name, defaultCurrencyCode)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrWalletNotFound
	}
	return r.GetByID(id)
}

// IsMember reports whether the profile belongs to the wallet
func (r *WalletRepository) IsMember(walletID, profileID uuid.UUID) (bool, error) {
	ctx := context.Background()

	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM wallet_members WHERE wallet_id = $1 AND profile_id = $2
	)`, walletID, profileID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// AddMember enrolls a profile into a wallet
func (r *WalletRepository) AddMember(walletID, profileID uuid.UUID) error {
	ctx := context.Background()

	_, err := r.pool.Exec(ctx, `INSERT INTO wallet_members (wallet_id, profile_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`, walletID, profileID)
	return err
}
