package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/model"
)

// FundRepository provides data access methods for the fund and
// fund_transaction tables. Each user has at most one fund row; the
// transaction table is the fund's ordered, append-only mutation log.
type FundRepository struct {
	db *sql.DB
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// GetFundByUserID retrieves the fund record for a user.
// Returns apperrors.ErrFundNotFound if the user has no fund yet.
func (r *FundRepository) GetFundByUserID(userID string) (model.Fund, error) {
	query := `
		SELECT id, user_id, available_amount, invested_amount, opening_balance, payin, payout
		FROM fund
		WHERE user_id = ?
	`

	var f model.Fund
	err := r.db.QueryRow(query, userID).Scan(
		&f.ID,
		&f.UserID,
		&f.AvailableAmount,
		&f.InvestedAmount,
		&f.OpeningBalance,
		&f.Payin,
		&f.Payout,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, apperrors.ErrFundNotFound
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to scan fund row: %w", err)
	}

	return f, nil
}

// InsertFund stores a new fund record.
func (r *FundRepository) InsertFund(ctx context.Context, fund *model.Fund) error {
	query := `
		INSERT INTO fund (id, user_id, available_amount, invested_amount, opening_balance, payin, payout)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		fund.ID,
		fund.UserID,
		fund.AvailableAmount,
		fund.InvestedAmount,
		fund.OpeningBalance,
		fund.Payin,
		fund.Payout,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund: %w", err)
	}

	return nil
}

// UpdateFund overwrites the fund's balance columns.
func (r *FundRepository) UpdateFund(ctx context.Context, fund *model.Fund) error {
	query := `
		UPDATE fund
		SET available_amount = ?, invested_amount = ?, opening_balance = ?, payin = ?, payout = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		fund.AvailableAmount,
		fund.InvestedAmount,
		fund.OpeningBalance,
		fund.Payin,
		fund.Payout,
		fund.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrFundNotFound
	}

	return nil
}

// InsertTransaction appends one entry to the fund's transaction log.
func (r *FundRepository) InsertTransaction(ctx context.Context, tx *model.FundTransaction) error {
	query := `
		INSERT INTO fund_transaction (id, fund_id, kind, amount, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.FundID,
		tx.Kind,
		tx.Amount,
		tx.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund transaction: %w", err)
	}

	return nil
}

// GetTransactions retrieves a fund's transaction log in insertion order.
func (r *FundRepository) GetTransactions(fundID string) ([]model.FundTransaction, error) {
	query := `
		SELECT id, fund_id, kind, amount, created_at
		FROM fund_transaction
		WHERE fund_id = ?
		ORDER BY rowid ASC
	`

	rows, err := r.db.Query(query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.FundTransaction{}

	for rows.Next() {
		var t model.FundTransaction
		var createdAtStr string

		err := rows.Scan(&t.ID, &t.FundID, &t.Kind, &t.Amount, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_transaction row: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_transaction table: %w", err)
	}

	return transactions, nil
}
