package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deliverus/internal/domain"
	apperrors "deliverus/internal/errors"
)

type mockProductRepository struct {
	FindByIDsForShareFunc func(ctx context.Context, tx *sql.Tx, ids []uint) ([]domain.Product, error)
}

func (m *mockProductRepository) FindByIDsForShare(ctx context.Context, tx *sql.Tx, ids []uint) ([]domain.Product, error) {
	return m.FindByIDsForShareFunc(ctx, tx, ids)
}

type mockOrderProductRepository struct {
	inserted []domain.OrderProduct
	deleted  []uint
}

func (m *mockOrderProductRepository) Insert(ctx context.Context, tx *sql.Tx, line domain.OrderProduct) (uint, error) {
	m.inserted = append(m.inserted, line)
	return uint(len(m.inserted)), nil
}

func (m *mockOrderProductRepository) DeleteByOrder(ctx context.Context, tx *sql.Tx, orderID uint) error {
	m.deleted = append(m.deleted, orderID)
	return nil
}

type mockOrderRepository struct {
	InsertFunc         func(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error)
	UpdateContentsFunc func(ctx context.Context, tx *sql.Tx, o domain.Order) error
}

func (m *mockOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error) {
	return m.InsertFunc(ctx, tx, o)
}

func (m *mockOrderRepository) UpdateContents(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	return m.UpdateContentsFunc(ctx, tx, o)
}

var menu = []domain.Product{
	{ID: 1, Price: 2.5, Availability: true, RestaurantID: 3},
	{ID: 2, Price: 4, Availability: true, RestaurantID: 3},
	{ID: 3, Price: 12, Availability: true, RestaurantID: 3},
	{ID: 4, Price: 1, Availability: false, RestaurantID: 3},
	{ID: 6, Price: 3, Availability: true, RestaurantID: 4},
}

func productsByID(ctx context.Context, tx *sql.Tx, ids []uint) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		for _, p := range menu {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func newTestOrderService(t *testing.T, orders OrderRepository, lines OrderProductRepository) (*OrderService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewOrderService(db, &mockProductRepository{FindByIDsForShareFunc: productsByID}, lines, orders, zap.NewNop(), 5*time.Second)
	return svc, mock
}

var restaurant = domain.Restaurant{ID: 3, ShippingCosts: 2}

func TestSave_NewOrderChargesShipping(t *testing.T) {
	var inserted domain.Order
	orders := &mockOrderRepository{
		InsertFunc: func(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error) {
			inserted = o
			return 40, nil
		},
	}
	lines := &mockOrderProductRepository{}
	svc, mock := newTestOrderService(t, orders, lines)
	mock.ExpectBegin()
	mock.ExpectCommit()

	id, err := svc.Save(context.Background(), domain.Order{UserID: 2, RestaurantID: 3, Address: "Calle Feria 3"}, restaurant,
		[]Line{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}})
	require.NoError(t, err)

	assert.Equal(t, uint(40), id)
	assert.Equal(t, 9.0, inserted.Price)
	assert.Equal(t, 2.0, inserted.ShippingCosts)
	require.Len(t, lines.inserted, 2)
	assert.Equal(t, uint(40), lines.inserted[0].OrderID)
	assert.Equal(t, 2.5, lines.inserted[0].UnityPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_FreeShippingAboveThreshold(t *testing.T) {
	var inserted domain.Order
	orders := &mockOrderRepository{
		InsertFunc: func(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error) {
			inserted = o
			return 41, nil
		},
	}
	svc, mock := newTestOrderService(t, orders, &mockOrderProductRepository{})
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Save(context.Background(), domain.Order{RestaurantID: 3}, restaurant, []Line{{ProductID: 3, Quantity: 1}})
	require.NoError(t, err)

	assert.Equal(t, 12.0, inserted.Price)
	assert.Equal(t, 0.0, inserted.ShippingCosts)
}

func TestSave_UpdateReplacesLines(t *testing.T) {
	var updated domain.Order
	orders := &mockOrderRepository{
		UpdateContentsFunc: func(ctx context.Context, tx *sql.Tx, o domain.Order) error {
			updated = o
			return nil
		},
	}
	lines := &mockOrderProductRepository{}
	svc, mock := newTestOrderService(t, orders, lines)
	mock.ExpectBegin()
	mock.ExpectCommit()

	id, err := svc.Save(context.Background(), domain.Order{ID: 8, RestaurantID: 3, Address: "B"}, restaurant,
		[]Line{{ProductID: 2, Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, uint(8), id)
	assert.Equal(t, 12.0, updated.Price)
	assert.Equal(t, []uint{8}, lines.deleted)
	require.Len(t, lines.inserted, 1)
	assert.Equal(t, uint(8), lines.inserted[0].OrderID)
}

// Products are re-read under the lock and may have changed since the request
// was validated.
func TestSave_ProductChangedSinceValidationRollsBack(t *testing.T) {
	tests := []struct {
		name    string
		lines   []Line
		message string
	}{
		{
			name:    "no longer available",
			lines:   []Line{{ProductID: 1, Quantity: 1}, {ProductID: 4, Quantity: 1}},
			message: "Products are not available.",
		},
		{
			name:    "moved to another restaurant",
			lines:   []Line{{ProductID: 1, Quantity: 1}, {ProductID: 6, Quantity: 1}},
			message: "Products do not belong to the same Restaurant",
		},
		{
			name:    "deleted",
			lines:   []Line{{ProductID: 1, Quantity: 1}, {ProductID: 99, Quantity: 1}},
			message: "Product 99 does not exist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &mockOrderRepository{
				InsertFunc: func(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error) {
					t.Fatal("order must not be inserted")
					return 0, nil
				},
			}
			svc, mock := newTestOrderService(t, orders, &mockOrderProductRepository{})
			mock.ExpectBegin()
			mock.ExpectRollback()

			_, err := svc.Save(context.Background(), domain.Order{RestaurantID: 3}, restaurant, tt.lines)

			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.Len(t, ve.Details, 1)
			assert.Equal(t, "products", ve.Details[0].Field)
			assert.Equal(t, tt.message, ve.Details[0].Message)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSave_InsertErrorRollsBack(t *testing.T) {
	orders := &mockOrderRepository{
		InsertFunc: func(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error) {
			return 0, errors.New("connection reset")
		},
	}
	svc, mock := newTestOrderService(t, orders, &mockOrderProductRepository{})
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Save(context.Background(), domain.Order{RestaurantID: 3}, restaurant, []Line{{ProductID: 1, Quantity: 1}})
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
