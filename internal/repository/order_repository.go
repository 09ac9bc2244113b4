package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brokersim/backend/internal/model"
)

// OrderRepository provides data access methods for the append-only order log.
// Orders are never updated or deleted once written.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository with the provided database connection.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// InsertOrder appends one order record with its resolved status.
func (r *OrderRepository) InsertOrder(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO "order" (id, user_id, symbol, quantity, price, side, order_type,
			product_type, validity, trigger_price, status, remarks, created_at, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var executedAt any
	if o.ExecutedAt != nil {
		executedAt = o.ExecutedAt.UTC().Format("2006-01-02 15:04:05")
	}

	var triggerPrice any
	if o.TriggerPrice > 0 {
		triggerPrice = o.TriggerPrice
	}

	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.UserID,
		o.Symbol,
		o.Quantity,
		o.Price,
		o.Side,
		o.OrderType,
		o.ProductType,
		o.Validity,
		triggerPrice,
		o.Status,
		o.Remarks,
		o.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		executedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// ListOrdersByUser retrieves a user's orders, most recent first.
func (r *OrderRepository) ListOrdersByUser(userID string) ([]model.Order, error) {
	query := `
		SELECT id, user_id, symbol, quantity, price, side, order_type, product_type,
			validity, COALESCE(trigger_price, 0), status, remarks, created_at, executed_at
		FROM "order"
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order table: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}

	for rows.Next() {
		var o model.Order
		var createdAtStr string
		var executedAtStr sql.NullString

		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Symbol,
			&o.Quantity,
			&o.Price,
			&o.Side,
			&o.OrderType,
			&o.ProductType,
			&o.Validity,
			&o.TriggerPrice,
			&o.Status,
			&o.Remarks,
			&createdAtStr,
			&executedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		o.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		if executedAtStr.Valid {
			executedAt, err := ParseTime(executedAtStr.String)
			if err != nil {
				return nil, err
			}
			o.ExecutedAt = &executedAt
		}

		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order table: %w", err)
	}

	return orders, nil
}
