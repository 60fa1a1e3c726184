package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"deliverus/internal/domain"
	"deliverus/internal/errors"
)

const orderSelect = `
	SELECT o.id, o.userId, o.restaurantId, o.address, o.price, o.shippingCosts,
	       o.createdAt, o.startedAt, o.sentAt, o.deliveredAt, o.updatedAt,
	       r.id, r.name, r.logo, r.shippingCosts, r.status, r.userId
	FROM Orders o
	JOIN Restaurants r ON r.id = o.restaurantId
`

type MySQLOrderRepository struct {
	db    *sql.DB
	lines *MySQLOrderProductRepository
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, lines: NewMySQLOrderProductRepository(db)}
}

func scanOrder(row interface{ Scan(...interface{}) error }) (*domain.Order, error) {
	var o domain.Order
	var r domain.Restaurant
	var status string
	var startedAt, sentAt, deliveredAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.UserID, &o.RestaurantID, &o.Address, &o.Price, &o.ShippingCosts,
		&o.CreatedAt, &startedAt, &sentAt, &deliveredAt, &o.UpdatedAt,
		&r.ID, &r.Name, &r.Logo, &r.ShippingCosts, &status, &r.UserID,
	)
	if err != nil {
		return nil, err
	}
	o.StartedAt = timePtr(startedAt)
	o.SentAt = timePtr(sentAt)
	o.DeliveredAt = timePtr(deliveredAt)
	r.Status = domain.RestaurantStatus(status)
	o.Restaurant = &r
	return &o, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// FindByID returns the order with its restaurant and lines.
func (repo *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	o, err := scanOrder(repo.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	lines, err := repo.lines.FindByOrders(ctx, []uint{o.ID})
	if err != nil {
		return nil, err
	}
	o.Products = lines[o.ID]
	return o, nil
}

// FindByCustomer lists the customer's orders, newest first.
func (repo *MySQLOrderRepository) FindByCustomer(ctx context.Context, userID uint) ([]domain.Order, error) {
	return repo.list(ctx, orderSelect+` WHERE o.userId = ? ORDER BY o.createdAt DESC, o.id DESC`, userID)
}

// FindByRestaurant lists the restaurant's orders, newest first.
func (repo *MySQLOrderRepository) FindByRestaurant(ctx context.Context, restaurantID uint) ([]domain.Order, error) {
	return repo.list(ctx, orderSelect+` WHERE o.restaurantId = ? ORDER BY o.createdAt DESC, o.id DESC`, restaurantID)
}

func (repo *MySQLOrderRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	ids := []uint{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lines, err := repo.lines.FindByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Products = lines[orders[i].ID]
	}
	return orders, nil
}

func (repo *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (userId, restaurantId, address, price, shippingCosts, createdAt)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, o.UserID, o.RestaurantID, o.Address, o.Price, o.ShippingCosts, o.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return uint(id), nil
}

// UpdateContents rewrites address and totals of an order that has not been
// started yet.
func (repo *MySQLOrderRepository) UpdateContents(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	query := `
		UPDATE Orders SET address = ?, price = ?, shippingCosts = ?
		WHERE id = ? AND startedAt IS NULL
	`

	result, err := tx.ExecContext(ctx, query, o.Address, o.Price, o.ShippingCosts, o.ID)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}
	return requireAffected(result, errors.NewConflictError("The order is already confirmed"))
}

func (repo *MySQLOrderRepository) MarkStarted(ctx context.Context, id uint, at time.Time) error {
	return repo.transition(ctx,
		`UPDATE Orders SET startedAt = ? WHERE id = ? AND startedAt IS NULL`,
		id, at, "The order has already been started")
}

func (repo *MySQLOrderRepository) MarkSent(ctx context.Context, id uint, at time.Time) error {
	return repo.transition(ctx,
		`UPDATE Orders SET sentAt = ? WHERE id = ? AND startedAt IS NOT NULL AND sentAt IS NULL`,
		id, at, "The order cannot be sent")
}

func (repo *MySQLOrderRepository) MarkDelivered(ctx context.Context, id uint, at time.Time) error {
	return repo.transition(ctx,
		`UPDATE Orders SET deliveredAt = ? WHERE id = ? AND sentAt IS NOT NULL AND deliveredAt IS NULL`,
		id, at, "The order cannot be delivered")
}

// transition sets one lifecycle timestamp. The WHERE clause repeats the
// state precondition so two concurrent requests cannot both move the order.
func (repo *MySQLOrderRepository) transition(ctx context.Context, query string, id uint, at time.Time, conflict string) error {
	result, err := repo.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return requireAffected(result, errors.NewConflictError(conflict))
}

// Delete removes the order while it is still pending. Lines go with it
// through ON DELETE CASCADE.
func (repo *MySQLOrderRepository) Delete(ctx context.Context, id uint) error {
	result, err := repo.db.ExecContext(ctx, `DELETE FROM Orders WHERE id = ? AND startedAt IS NULL`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}
	return requireAffected(result, errors.NewConflictError("The order is already confirmed"))
}

// Analytics aggregates a restaurant's orders relative to today, the start
// of the current day.
func (repo *MySQLOrderRepository) Analytics(ctx context.Context, restaurantID uint, today time.Time) (*domain.RestaurantAnalytics, error) {
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	query := `
		SELECT
			COALESCE(SUM(createdAt >= ? AND createdAt < ?), 0),
			COALESCE(SUM(startedAt IS NULL), 0),
			COALESCE(SUM(deliveredAt >= ? AND deliveredAt < ?), 0),
			COALESCE(SUM(CASE WHEN deliveredAt >= ? AND deliveredAt < ? THEN price + shippingCosts ELSE 0 END), 0)
		FROM Orders
		WHERE restaurantId = ?
	`

	a := domain.RestaurantAnalytics{RestaurantID: restaurantID}
	err := repo.db.QueryRowContext(ctx, query,
		yesterday, today,
		today, tomorrow,
		today, tomorrow,
		restaurantID,
	).Scan(&a.NumYesterdayOrders, &a.NumPendingOrders, &a.NumDeliveredTodayOrders, &a.InvoicedToday)
	if err != nil {
		return nil, fmt.Errorf("computing restaurant analytics: %w", err)
	}
	return &a, nil
}

func requireAffected(result sql.Result, onZero error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return onZero
	}
	return nil
}
