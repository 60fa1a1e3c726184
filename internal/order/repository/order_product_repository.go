package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"deliverus/internal/domain"
)

// MySQLOrderProductRepository stores order lines.
type MySQLOrderProductRepository struct {
	db *sql.DB
}

func NewMySQLOrderProductRepository(db *sql.DB) *MySQLOrderProductRepository {
	return &MySQLOrderProductRepository{db: db}
}

func (r *MySQLOrderProductRepository) Insert(ctx context.Context, tx *sql.Tx, line domain.OrderProduct) (uint, error) {
	query := `INSERT INTO OrderProducts (orderId, productId, quantity, unityPrice) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, line.OrderID, line.ProductID, line.Quantity, line.UnityPrice)
	if err != nil {
		return 0, fmt.Errorf("inserting order line: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderProductRepository) DeleteByOrder(ctx context.Context, tx *sql.Tx, orderID uint) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM OrderProducts WHERE orderId = ?`, orderID); err != nil {
		return fmt.Errorf("deleting order lines: %w", err)
	}
	return nil
}

// FindByOrders groups the lines of the given orders by order id, each group
// in insertion order.
func (r *MySQLOrderProductRepository) FindByOrders(ctx context.Context, orderIDs []uint) (map[uint][]domain.OrderProduct, error) {
	if len(orderIDs) == 0 {
		return map[uint][]domain.OrderProduct{}, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]interface{}, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT op.orderId, op.productId, p.name, op.quantity, op.unityPrice
		FROM OrderProducts op
		JOIN Products p ON p.id = op.productId
		WHERE op.orderId IN (%s)
		ORDER BY op.orderId, op.id
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[uint][]domain.OrderProduct, len(orderIDs))
	for rows.Next() {
		var l domain.OrderProduct
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.Name, &l.Quantity, &l.UnityPrice); err != nil {
			return nil, fmt.Errorf("scanning order line: %w", err)
		}
		lines[l.OrderID] = append(lines[l.OrderID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order lines: %w", err)
	}
	return lines, nil
}
