package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/model"
)

// PositionRepository provides data access methods for the position table,
// keyed by user, symbol and product type.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetPosition retrieves one position by its full key.
// Returns apperrors.ErrPositionNotFound if no open position exists.
func (r *PositionRepository) GetPosition(userID, symbol, productType string) (model.Position, error) {
	query := `
		SELECT id, user_id, symbol, product_type, quantity, average_price, last_price, mtm, created_at
		FROM position
		WHERE user_id = ? AND symbol = ? AND product_type = ?
	`

	var p model.Position
	var createdAtStr string
	err := r.db.QueryRow(query, userID, symbol, productType).Scan(
		&p.ID,
		&p.UserID,
		&p.Symbol,
		&p.ProductType,
		&p.Quantity,
		&p.AveragePrice,
		&p.LastPrice,
		&p.MTM,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to scan position row: %w", err)
	}

	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Position{}, err
	}

	return p, nil
}

// GetPositionsByUser retrieves all of a user's open positions.
func (r *PositionRepository) GetPositionsByUser(userID string) ([]model.Position, error) {
	query := `
		SELECT id, user_id, symbol, product_type, quantity, average_price, last_price, mtm, created_at
		FROM position
		WHERE user_id = ?
		ORDER BY symbol ASC, product_type ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}

	for rows.Next() {
		var p model.Position
		var createdAtStr string

		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Symbol,
			&p.ProductType,
			&p.Quantity,
			&p.AveragePrice,
			&p.LastPrice,
			&p.MTM,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position row: %w", err)
		}

		p.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

// InsertPosition stores a new position.
func (r *PositionRepository) InsertPosition(ctx context.Context, p *model.Position) error {
	query := `
		INSERT INTO position (id, user_id, symbol, product_type, quantity, average_price, last_price, mtm, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Symbol,
		p.ProductType,
		p.Quantity,
		p.AveragePrice,
		p.LastPrice,
		p.MTM,
		p.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	return nil
}

// UpdatePosition writes back a position's mutable columns.
func (r *PositionRepository) UpdatePosition(ctx context.Context, p *model.Position) error {
	query := `
		UPDATE position
		SET quantity = ?, average_price = ?, last_price = ?, mtm = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Quantity,
		p.AveragePrice,
		p.LastPrice,
		p.MTM,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}

// DeletePosition removes a position whose quantity reached zero.
func (r *PositionRepository) DeletePosition(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM position WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}
