package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	apperrors "deliverus/internal/errors"
	"deliverus/internal/order/service"
)

type mockOrderRepository struct {
	orders     map[uint]domain.Order
	byCustomer map[uint][]domain.Order
	marked     []string
	MarkErr    error
	DeleteFunc func(ctx context.Context, id uint) error
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	return &o, nil
}

func (m *mockOrderRepository) FindByCustomer(ctx context.Context, userID uint) ([]domain.Order, error) {
	return m.byCustomer[userID], nil
}

func (m *mockOrderRepository) mark(what string, id uint, at time.Time) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.marked = append(m.marked, what)
	o := m.orders[id]
	switch what {
	case "started":
		o.StartedAt = &at
	case "sent":
		o.SentAt = &at
	case "delivered":
		o.DeliveredAt = &at
	}
	m.orders[id] = o
	return nil
}

func (m *mockOrderRepository) MarkStarted(ctx context.Context, id uint, at time.Time) error {
	return m.mark("started", id, at)
}

func (m *mockOrderRepository) MarkSent(ctx context.Context, id uint, at time.Time) error {
	return m.mark("sent", id, at)
}

func (m *mockOrderRepository) MarkDelivered(ctx context.Context, id uint, at time.Time) error {
	return m.mark("delivered", id, at)
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uint) error {
	return m.DeleteFunc(ctx, id)
}

type mockRestaurantRepository struct{}

func (m *mockRestaurantRepository) FindByID(ctx context.Context, id uint) (*domain.Restaurant, error) {
	if id != 3 && id != 4 {
		return nil, apperrors.NewNotFoundError("restaurant not found")
	}
	return &domain.Restaurant{ID: id, ShippingCosts: 2}, nil
}

type mockProductService struct {
	products map[uint]domain.Product
}

func (m *mockProductService) OrderableProducts(ctx context.Context, restaurantID uint, ids []uint) (map[uint]domain.Product, error) {
	found := map[uint]domain.Product{}
	for _, id := range ids {
		p, ok := m.products[id]
		if !ok {
			return nil, domain.ProductMissing(id)
		}
		found[id] = p
	}
	for _, id := range ids {
		if err := found[id].CheckOrderable(restaurantID); err != nil {
			return nil, err
		}
	}
	return found, nil
}

type mockSaver struct {
	SaveFunc func(ctx context.Context, o domain.Order, restaurant domain.Restaurant, lines []service.Line) (uint, error)
	calls    int
}

func (m *mockSaver) Save(ctx context.Context, o domain.Order, restaurant domain.Restaurant, lines []service.Line) (uint, error) {
	m.calls++
	return m.SaveFunc(ctx, o, restaurant, lines)
}

type mockRecorder struct {
	statuses []string
}

func (m *mockRecorder) RecordOrderTransition(status string) {
	m.statuses = append(m.statuses, status)
}

func newTestOrderUseCase(orders *mockOrderRepository, saver *mockSaver, recorder *mockRecorder) *OrderUseCase {
	uc := NewOrderUseCase(
		orders,
		&mockRestaurantRepository{},
		&mockProductService{products: map[uint]domain.Product{
			1: {ID: 1, Price: 2.5, Availability: true, RestaurantID: 3},
			2: {ID: 2, Price: 4, Availability: true, RestaurantID: 3},
			5: {ID: 5, Price: 1, Availability: false, RestaurantID: 3},
			9: {ID: 9, Price: 3, Availability: true, RestaurantID: 4},
		}},
		saver,
		recorder,
		zap.NewNop(),
		3,
	)
	uc.sleep = func(time.Duration) {}
	uc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return uc
}

func createRequest(restaurantID uint, lines ...dto.OrderLineRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{RestaurantID: restaurantID, Address: "Calle Feria 3", Products: lines}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateOrderRequest
		field   string
		message string
	}{
		{
			name:    "restaurant does not exist",
			req:     createRequest(8, dto.OrderLineRequest{ProductID: 1, Quantity: 1}),
			field:   "restaurantId",
			message: "The restaurant does not exist.",
		},
		{
			name:    "unknown product",
			req:     createRequest(3, dto.OrderLineRequest{ProductID: 77, Quantity: 1}),
			field:   "products",
			message: "Product 77 does not exist.",
		},
		{
			name:    "unavailable product",
			req:     createRequest(3, dto.OrderLineRequest{ProductID: 1, Quantity: 1}, dto.OrderLineRequest{ProductID: 5, Quantity: 1}),
			field:   "products",
			message: "Products are not available.",
		},
		{
			name:    "product from another restaurant",
			req:     createRequest(3, dto.OrderLineRequest{ProductID: 1, Quantity: 1}, dto.OrderLineRequest{ProductID: 9, Quantity: 1}),
			field:   "products",
			message: "Products do not belong to the same Restaurant",
		},
		{
			name:    "repeated product",
			req:     createRequest(3, dto.OrderLineRequest{ProductID: 1, Quantity: 1}, dto.OrderLineRequest{ProductID: 1, Quantity: 2}),
			field:   "products",
			message: "Product 1 appears more than once.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &mockSaver{}
			uc := newTestOrderUseCase(&mockOrderRepository{}, saver, &mockRecorder{})

			_, err := uc.Create(context.Background(), domain.User{ID: 2}, tt.req)

			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.Len(t, ve.Details, 1)
			assert.Equal(t, tt.field, ve.Details[0].Field)
			assert.Equal(t, tt.message, ve.Details[0].Message)
			assert.Zero(t, saver.calls)
		})
	}
}

func TestCreate_SortsLinesAndReturnsPersistedOrder(t *testing.T) {
	orders := &mockOrderRepository{orders: map[uint]domain.Order{50: {ID: 50, UserID: 2, RestaurantID: 3}}}
	var saved domain.Order
	var savedLines []service.Line
	saver := &mockSaver{SaveFunc: func(ctx context.Context, o domain.Order, r domain.Restaurant, lines []service.Line) (uint, error) {
		saved = o
		savedLines = lines
		return 50, nil
	}}
	recorder := &mockRecorder{}
	uc := newTestOrderUseCase(orders, saver, recorder)

	o, err := uc.Create(context.Background(), domain.User{ID: 2},
		createRequest(3, dto.OrderLineRequest{ProductID: 2, Quantity: 1}, dto.OrderLineRequest{ProductID: 1, Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, uint(50), o.ID)
	assert.Equal(t, uint(2), saved.UserID)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), saved.CreatedAt)
	assert.Equal(t, []service.Line{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 1}}, savedLines)
	assert.Equal(t, []string{"pending"}, recorder.statuses)
}

func TestCreate_RetriesDeadlock(t *testing.T) {
	orders := &mockOrderRepository{orders: map[uint]domain.Order{51: {ID: 51}}}
	saver := &mockSaver{}
	saver.SaveFunc = func(ctx context.Context, o domain.Order, r domain.Restaurant, lines []service.Line) (uint, error) {
		if saver.calls < 3 {
			return 0, &mysql.MySQLError{Number: 1213}
		}
		return 51, nil
	}
	uc := newTestOrderUseCase(orders, saver, &mockRecorder{})

	o, err := uc.Create(context.Background(), domain.User{ID: 2}, createRequest(3, dto.OrderLineRequest{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, uint(51), o.ID)
	assert.Equal(t, 3, saver.calls)
}

func TestCreate_DeadlockMaxRetries(t *testing.T) {
	saver := &mockSaver{SaveFunc: func(ctx context.Context, o domain.Order, r domain.Restaurant, lines []service.Line) (uint, error) {
		return 0, &mysql.MySQLError{Number: 1205}
	}}
	uc := newTestOrderUseCase(&mockOrderRepository{}, saver, &mockRecorder{})

	_, err := uc.Create(context.Background(), domain.User{ID: 2}, createRequest(3, dto.OrderLineRequest{ProductID: 1, Quantity: 1}))

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, saver.calls)
}

func TestUpdate_UsesSavedRestaurant(t *testing.T) {
	current := domain.Order{ID: 7, UserID: 2, RestaurantID: 3, Address: "Old"}
	orders := &mockOrderRepository{orders: map[uint]domain.Order{7: current}}
	var saved domain.Order
	saver := &mockSaver{SaveFunc: func(ctx context.Context, o domain.Order, r domain.Restaurant, lines []service.Line) (uint, error) {
		saved = o
		return o.ID, nil
	}}
	uc := newTestOrderUseCase(orders, saver, &mockRecorder{})

	_, err := uc.Update(context.Background(), current, dto.UpdateOrderRequest{
		Address:  "New",
		Products: []dto.OrderLineRequest{{ProductID: 9, Quantity: 1}},
	})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok, "product of restaurant 4 rejected for an order of restaurant 3")
	assert.Equal(t, "products", ve.Details[0].Field)

	_, err = uc.Update(context.Background(), current, dto.UpdateOrderRequest{
		Address:  "New",
		Products: []dto.OrderLineRequest{{ProductID: 2, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), saved.ID)
	assert.Equal(t, "New", saved.Address)
}

func TestUpdate_StartedOrderConflicts(t *testing.T) {
	started := time.Now()
	uc := newTestOrderUseCase(&mockOrderRepository{}, &mockSaver{}, &mockRecorder{})

	_, err := uc.Update(context.Background(), domain.Order{ID: 7, RestaurantID: 3, StartedAt: &started}, dto.UpdateOrderRequest{})

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, "The order is already confirmed", ce.Message)
}

func TestLifecycle_RecordsTransitions(t *testing.T) {
	orders := &mockOrderRepository{orders: map[uint]domain.Order{7: {ID: 7}}}
	recorder := &mockRecorder{}
	uc := newTestOrderUseCase(orders, &mockSaver{}, recorder)
	ctx := context.Background()

	o, err := uc.Confirm(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProcess, o.Status())

	o, err = uc.Send(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusSent, o.Status())

	o, err = uc.Deliver(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, o.Status())

	assert.Equal(t, []string{"in process", "sent", "delivered"}, recorder.statuses)
}

func TestConfirm_ConflictNotRecorded(t *testing.T) {
	orders := &mockOrderRepository{
		orders:  map[uint]domain.Order{7: {ID: 7}},
		MarkErr: apperrors.NewConflictError("The order has already been started"),
	}
	recorder := &mockRecorder{}
	uc := newTestOrderUseCase(orders, &mockSaver{}, recorder)

	_, err := uc.Confirm(context.Background(), 7)

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.Empty(t, recorder.statuses)
}
