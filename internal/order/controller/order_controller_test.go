package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	apperrors "deliverus/internal/errors"
	"deliverus/internal/middleware"
	ordermw "deliverus/internal/order/middleware"
)

type mockOrderUseCase struct {
	IndexFunc   func(ctx context.Context, customer domain.User) ([]domain.Order, error)
	CreateFunc  func(ctx context.Context, customer domain.User, req dto.CreateOrderRequest) (*domain.Order, error)
	UpdateFunc  func(ctx context.Context, current domain.Order, req dto.UpdateOrderRequest) (*domain.Order, error)
	ConfirmFunc func(ctx context.Context, id uint) (*domain.Order, error)
	DeleteFunc  func(ctx context.Context, id uint) error
}

func (m *mockOrderUseCase) Index(ctx context.Context, customer domain.User) ([]domain.Order, error) {
	return m.IndexFunc(ctx, customer)
}

func (m *mockOrderUseCase) Create(ctx context.Context, customer domain.User, req dto.CreateOrderRequest) (*domain.Order, error) {
	return m.CreateFunc(ctx, customer, req)
}

func (m *mockOrderUseCase) Update(ctx context.Context, current domain.Order, req dto.UpdateOrderRequest) (*domain.Order, error) {
	return m.UpdateFunc(ctx, current, req)
}

func (m *mockOrderUseCase) Confirm(ctx context.Context, id uint) (*domain.Order, error) {
	return m.ConfirmFunc(ctx, id)
}

func (m *mockOrderUseCase) Send(ctx context.Context, id uint) (*domain.Order, error) {
	return nil, apperrors.NewConflictError("The order cannot be sent")
}

func (m *mockOrderUseCase) Deliver(ctx context.Context, id uint) (*domain.Order, error) {
	return nil, apperrors.NewConflictError("The order cannot be delivered")
}

func (m *mockOrderUseCase) Delete(ctx context.Context, id uint) error {
	return m.DeleteFunc(ctx, id)
}

type stubOrders struct {
	order domain.Order
}

func (s *stubOrders) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	o := s.order
	return &o, nil
}

var customer = &domain.User{ID: 2, UserType: domain.UserTypeCustomer}

// newTestRouter mounts c behind CheckOrderExists so handlers find the order
// in the context, as they do in production.
func newTestRouter(c *OrderController, stored domain.Order) http.Handler {
	guards := ordermw.NewGuards(&stubOrders{order: stored}, nil, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), customer)))
		})
	})
	r.Get("/orders", c.Index)
	r.Post("/orders", c.Create)
	r.Route("/orders/{orderId}", func(r chi.Router) {
		r.Use(guards.CheckOrderExists)
		r.Get("/", c.Show)
		r.Put("/", c.Update)
		r.Delete("/", c.Destroy)
		r.Patch("/confirm", c.Confirm)
		r.Patch("/send", c.Send)
	})
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreate_RendersPersistedOrder(t *testing.T) {
	var got dto.CreateOrderRequest
	uc := &mockOrderUseCase{
		CreateFunc: func(ctx context.Context, c domain.User, req dto.CreateOrderRequest) (*domain.Order, error) {
			got = req
			return &domain.Order{
				ID: 9, UserID: c.ID, RestaurantID: req.RestaurantID, Address: req.Address, Price: 5, ShippingCosts: 2,
				Products: []domain.OrderProduct{{ProductID: 1, Quantity: 2, UnityPrice: 2.5}},
			}, nil
		},
	}
	h := newTestRouter(NewOrderController(uc, zap.NewNop()), domain.Order{})

	rec := do(h, http.MethodPost, "/orders", `{"restaurantId":3,"address":"  Calle Feria 3 ","products":[{"productId":1,"quantity":2}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Calle Feria 3", got.Address)

	var body dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint(9), body.ID)
	assert.Equal(t, "pending", body.Status)
	require.Len(t, body.Products, 1)
	assert.Equal(t, 2.5, body.Products[0].UnityPrice)
}

func TestCreate_ValidationFailures(t *testing.T) {
	uc := &mockOrderUseCase{
		CreateFunc: func(ctx context.Context, c domain.User, req dto.CreateOrderRequest) (*domain.Order, error) {
			t.Fatal("use case must not run")
			return nil, nil
		},
	}
	h := newTestRouter(NewOrderController(uc, zap.NewNop()), domain.Order{})

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"empty products", `{"restaurantId":3,"address":"A","products":[]}`, http.StatusUnprocessableEntity},
		{"zero quantity", `{"restaurantId":3,"address":"A","products":[{"productId":1,"quantity":0}]}`, http.StatusUnprocessableEntity},
		{"blank address", `{"restaurantId":3,"address":"   ","products":[{"productId":1,"quantity":1}]}`, http.StatusUnprocessableEntity},
		{"missing restaurant", `{"address":"A","products":[{"productId":1,"quantity":1}]}`, http.StatusUnprocessableEntity},
		{"fractional quantity", `{"restaurantId":3,"address":"A","products":[{"productId":1,"quantity":1.5}]}`, http.StatusUnprocessableEntity},
		{"negative product id", `{"restaurantId":3,"address":"A","products":[{"productId":-1,"quantity":1}]}`, http.StatusUnprocessableEntity},
		{"products not a list", `{"restaurantId":3,"address":"A","products":"x"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{"restaurantId":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, do(h, http.MethodPost, "/orders", tt.body).Code)
		})
	}
}

func TestUpdate_RejectsRestaurantID(t *testing.T) {
	uc := &mockOrderUseCase{
		UpdateFunc: func(ctx context.Context, current domain.Order, req dto.UpdateOrderRequest) (*domain.Order, error) {
			return &current, nil
		},
	}
	h := newTestRouter(NewOrderController(uc, zap.NewNop()), domain.Order{ID: 4, UserID: 2})

	rec := do(h, http.MethodPut, "/orders/4", `{"restaurantId":3,"address":"A","products":[{"productId":1,"quantity":1}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(h, http.MethodPut, "/orders/4", `{"address":"A","products":[{"productId":1,"quantity":1}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShow_UsesLoadedOrder(t *testing.T) {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	h := newTestRouter(NewOrderController(&mockOrderUseCase{}, zap.NewNop()), domain.Order{ID: 4, StartedAt: &started})

	rec := do(h, http.MethodGet, "/orders/4", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "in process", body.Status)
}

func TestTransitions(t *testing.T) {
	uc := &mockOrderUseCase{
		ConfirmFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			now := time.Now()
			return &domain.Order{ID: id, StartedAt: &now}, nil
		},
	}
	h := newTestRouter(NewOrderController(uc, zap.NewNop()), domain.Order{ID: 4})

	rec := do(h, http.MethodPatch, "/orders/4/confirm", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"in process"`)

	rec = do(h, http.MethodPatch, "/orders/4/send", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDestroy(t *testing.T) {
	var deleted uint
	uc := &mockOrderUseCase{
		DeleteFunc: func(ctx context.Context, id uint) error {
			deleted = id
			return nil
		},
	}
	h := newTestRouter(NewOrderController(uc, zap.NewNop()), domain.Order{ID: 4})

	rec := do(h, http.MethodDelete, "/orders/4", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(4), deleted)
	assert.JSONEq(t, `{"message":"Successfully deleted order id 4."}`, rec.Body.String())
}

func TestIndex(t *testing.T) {
	var gotCustomer uint
	uc := &mockOrderUseCase{
		IndexFunc: func(ctx context.Context, c domain.User) ([]domain.Order, error) {
			gotCustomer = c.ID
			return []domain.Order{}, nil
		},
	}
	h := newTestRouter(NewOrderController(uc, zap.NewNop()), domain.Order{})

	rec := do(h, http.MethodGet, "/orders", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(2), gotCustomer)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
