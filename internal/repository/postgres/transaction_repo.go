package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	t.id, t.wallet_id, t.type, t.amount, t.date, t.note,
	t.category_id, c.name AS category_name,
	t.created_by, COALESCE(p.full_name, '') AS created_by_name,
	t.created_at, t.updated_at`

const transactionJoins = `
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN profiles p ON p.id = t.created_by`

// FetchByWalletAndRange returns the wallet's transactions with date within
// [start, end] inclusive, category and creator names resolved and tags
// populated, newest first. A row that fails validation aborts the whole
// fetch; malformed rows are never silently dropped.
func (r *TransactionRepository) FetchByWalletAndRange(walletID uuid.UUID, start, end domain.Date, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `SELECT ` + transactionColumns + `
		FROM transactions t` + transactionJoins + `
		WHERE t.wallet_id = $1 AND t.date >= $2 AND t.date <= $3`
	args := []interface{}{walletID, dateToPgDate(start), dateToPgDate(end)}

	if filters != nil {
		if filters.CategoryID != nil {
			args = append(args, *filters.CategoryID)
			query += fmt.Sprintf(" AND t.category_id = $%d", len(args))
		}
		if filters.CreatedBy != nil {
			args = append(args, *filters.CreatedBy)
			query += fmt.Sprintf(" AND t.created_by = $%d", len(args))
		}
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetByID retrieves a transaction by its ID within a wallet
func (r *TransactionRepository) GetByID(walletID, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+`
		FROM transactions t`+transactionJoins+`
		WHERE t.wallet_id = $1 AND t.id = $2`, walletID, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	if err := r.attachTags(ctx, []*domain.Transaction{tx}); err != nil {
		return nil, err
	}
	return tx, nil
}

// Create inserts a transaction and its tag links
func (r *TransactionRepository) Create(transaction *domain.Transaction, tagIDs []uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var note pgtype.Text
	if transaction.Note != nil {
		note = pgtype.Text{String: *transaction.Note, Valid: true}
	}

	dbtx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer dbtx.Rollback(ctx)

	var id uuid.UUID
	err = dbtx.QueryRow(ctx, `INSERT INTO transactions
			(wallet_id, type, amount, date, note, category_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		transaction.WalletID, string(transaction.Type), amount,
		dateToPgDate(transaction.Date), note, transaction.CategoryID,
		transaction.CreatedBy).Scan(&id)
	if err != nil {
		return nil, err
	}

	if err := insertTagLinks(ctx, dbtx, id, tagIDs); err != nil {
		return nil, err
	}

	if err := dbtx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(transaction.WalletID, id)
}

// Update replaces the transaction's state including its tag links
func (r *TransactionRepository) Update(walletID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var note pgtype.Text
	if data.Note != nil {
		note = pgtype.Text{String: *data.Note, Valid: true}
	}

	dbtx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer dbtx.Rollback(ctx)

	tag, err := dbtx.Exec(ctx, `UPDATE transactions
		SET type = $3, amount = $4, date = $5, note = $6, category_id = $7, updated_at = now()
		WHERE wallet_id = $1 AND id = $2`,
		walletID, id, string(data.Type), amount, dateToPgDate(data.Date), note, data.CategoryID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	if _, err := dbtx.Exec(ctx, `DELETE FROM transaction_tags WHERE transaction_id = $1`, id); err != nil {
		return nil, err
	}
	if err := insertTagLinks(ctx, dbtx, id, data.TagIDs); err != nil {
		return nil, err
	}

	if err := dbtx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(walletID, id)
}

// Delete removes a transaction; tag links go with it via ON DELETE CASCADE
func (r *TransactionRepository) Delete(walletID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE wallet_id = $1 AND id = $2`, walletID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// attachTags loads the tag lists for the given transactions in one query
func (r *TransactionRepository) attachTags(ctx context.Context, transactions []*domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Transaction, len(transactions))
	ids := make([]uuid.UUID, 0, len(transactions))
	for _, tx := range transactions {
		tx.Tags = []domain.Tag{}
		byID[tx.ID] = tx
		ids = append(ids, tx.ID)
	}

	rows, err := r.pool.Query(ctx, `SELECT tt.transaction_id, tg.id, tg.name
		FROM transaction_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		WHERE tt.transaction_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var txID uuid.UUID
		var tag domain.Tag
		if err := rows.Scan(&txID, &tag.ID, &tag.Name); err != nil {
			return err
		}
		if tx, ok := byID[txID]; ok {
			tx.Tags = append(tx.Tags, tag)
		}
	}
	return rows.Err()
}

func insertTagLinks(ctx context.Context, dbtx pgx.Tx, transactionID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := dbtx.Exec(ctx, `INSERT INTO transaction_tags (transaction_id, tag_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`, transactionID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// scanTransaction reads one joined row and validates it at the boundary.
// The store is external; a row with an unknown type, a negative amount or
// an invalid date fails the fetch fast instead of leaking into aggregation.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx           domain.Transaction
		txType       string
		amount       pgtype.Numeric
		date         pgtype.Date
		note         pgtype.Text
		categoryName pgtype.Text
	)

	err := row.Scan(&tx.ID, &tx.WalletID, &txType, &amount, &date, &note,
		&tx.CategoryID, &categoryName, &tx.CreatedBy, &tx.CreatedByName,
		&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}

	tx.Type = domain.TransactionType(txType)
	if tx.Type != domain.TransactionTypeIncome && tx.Type != domain.TransactionTypeExpense {
		return nil, fmt.Errorf("%w: transaction %s has type %q", domain.ErrMalformedRow, tx.ID, txType)
	}

	tx.Amount, err = pgNumericToDecimal(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction %s: %v", domain.ErrMalformedRow, tx.ID, err)
	}
	if tx.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: transaction %s has negative amount", domain.ErrMalformedRow, tx.ID)
	}

	if !date.Valid {
		return nil, fmt.Errorf("%w: transaction %s has no date", domain.ErrMalformedRow, tx.ID)
	}
	tx.Date = pgDateToDate(date)
	if !tx.Date.IsValid() {
		return nil, fmt.Errorf("%w: transaction %s has invalid date", domain.ErrMalformedRow, tx.ID)
	}

	tx.Note = textOrNil(note)
	tx.CategoryName = textOrNil(categoryName)
	tx.Tags = []domain.Tag{}
	return &tx, nil
}
