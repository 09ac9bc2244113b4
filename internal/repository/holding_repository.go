package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
//
// Every update is guarded by the row's version column: writers read a
// holding, compute the new state, and write back with the version they read.
// A version mismatch means another writer got there first and surfaces as
// apperrors.ErrLedgerConflict for the caller to retry.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

const holdingColumns = `id, user_id, symbol, quantity, average_cost, last_price,
	previous_close, net_change, day_change, COALESCE(last_order_id, ''), version`

// GetHolding retrieves one user's holding in one instrument.
// Returns apperrors.ErrHoldingNotFound if the user holds no shares of it.
func (r *HoldingRepository) GetHolding(userID, symbol string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE user_id = ? AND symbol = ?`

	var h model.Holding
	err := r.db.QueryRow(query, userID, symbol).Scan(
		&h.ID,
		&h.UserID,
		&h.Symbol,
		&h.Quantity,
		&h.AverageCost,
		&h.LastPrice,
		&h.PreviousClose,
		&h.NetChange,
		&h.DayChange,
		&h.LastOrderID,
		&h.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding row: %w", err)
	}

	return h, nil
}

// GetHoldingsByUser retrieves all of a user's holdings ordered by symbol.
func (r *HoldingRepository) GetHoldingsByUser(userID string) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE user_id = ? ORDER BY symbol ASC`
	return r.queryHoldings(query, userID)
}

// GetAllHoldings retrieves every holding across all users, for the price
// refresh batch.
func (r *HoldingRepository) GetAllHoldings() ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding ORDER BY symbol ASC`
	return r.queryHoldings(query)
}

func (r *HoldingRepository) queryHoldings(query string, args ...any) ([]model.Holding, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}

	for rows.Next() {
		var h model.Holding
		err := rows.Scan(
			&h.ID,
			&h.UserID,
			&h.Symbol,
			&h.Quantity,
			&h.AverageCost,
			&h.LastPrice,
			&h.PreviousClose,
			&h.NetChange,
			&h.DayChange,
			&h.LastOrderID,
			&h.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding row: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// InsertHolding stores a new holding at version 0.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h *model.Holding) error {
	query := `
		INSERT INTO holding (id, user_id, symbol, quantity, average_cost, last_price,
			previous_close, net_change, day_change, last_order_id, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`

	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.UserID,
		h.Symbol,
		h.Quantity,
		h.AverageCost,
		h.LastPrice,
		h.PreviousClose,
		h.NetChange,
		h.DayChange,
		nullable(h.LastOrderID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}

	h.Version = 0
	return nil
}

// UpdateHolding writes back all mutable columns, guarded by h.Version.
// On success the holding's version is bumped in place.
func (r *HoldingRepository) UpdateHolding(ctx context.Context, h *model.Holding) error {
	query := `
		UPDATE holding
		SET quantity = ?, average_cost = ?, last_price = ?, previous_close = ?,
			net_change = ?, day_change = ?, last_order_id = ?, version = version + 1
		WHERE id = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		h.Quantity,
		h.AverageCost,
		h.LastPrice,
		h.PreviousClose,
		h.NetChange,
		h.DayChange,
		nullable(h.LastOrderID),
		h.ID,
		h.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrLedgerConflict
	}

	h.Version++
	return nil
}

// UpdateHoldingPrices writes back only the price and display columns, guarded
// by h.Version. Quantity and average cost are never touched on this path, so
// the refresh job cannot corrupt the accounting fields. On success the
// holding's version is bumped in place.
func (r *HoldingRepository) UpdateHoldingPrices(ctx context.Context, h *model.Holding) error {
	query := `
		UPDATE holding
		SET last_price = ?, previous_close = ?, net_change = ?, day_change = ?,
			version = version + 1
		WHERE id = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		h.LastPrice,
		h.PreviousClose,
		h.NetChange,
		h.DayChange,
		h.ID,
		h.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding prices: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrLedgerConflict
	}

	h.Version++
	return nil
}

// DeleteHolding removes a holding whose quantity reached zero.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holding WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrHoldingNotFound
	}

	return nil
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
