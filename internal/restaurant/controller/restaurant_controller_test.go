package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	apperrors "deliverus/internal/errors"
	"deliverus/internal/middleware"
	restaurantmw "deliverus/internal/restaurant/middleware"
)

type mockRestaurantUseCase struct {
	RestaurantUseCase
	CreateFunc func(ctx context.Context, owner domain.User, req dto.RestaurantRequest) (*domain.Restaurant, error)
	ShowFunc   func(ctx context.Context, id uint) (*domain.Restaurant, error)
}

func (m *mockRestaurantUseCase) Create(ctx context.Context, owner domain.User, req dto.RestaurantRequest) (*domain.Restaurant, error) {
	return m.CreateFunc(ctx, owner, req)
}

func (m *mockRestaurantUseCase) Show(ctx context.Context, id uint) (*domain.Restaurant, error) {
	return m.ShowFunc(ctx, id)
}

func (m *mockRestaurantUseCase) Delete(ctx context.Context, id uint) error {
	return nil
}

func (m *mockRestaurantUseCase) Analytics(ctx context.Context, restaurantID uint) (*domain.RestaurantAnalytics, error) {
	return &domain.RestaurantAnalytics{RestaurantID: restaurantID, NumPendingOrders: 2, InvoicedToday: 17.5}, nil
}

type stubRestaurants struct{}

func (s *stubRestaurants) FindByID(ctx context.Context, id uint) (*domain.Restaurant, error) {
	return &domain.Restaurant{ID: id, UserID: 5}, nil
}

func (s *stubRestaurants) CountOrders(ctx context.Context, restaurantID uint) (int, error) {
	return 0, nil
}

func newTestRouter(uc RestaurantUseCase) http.Handler {
	c := NewController(uc, zap.NewNop())
	guards := restaurantmw.NewGuards(&stubRestaurants{}, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := &domain.User{ID: 5, UserType: domain.UserTypeOwner}
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), owner)))
		})
	})
	r.Post("/restaurants", c.Create)
	r.Get("/restaurants/{restaurantId}", c.Show)
	r.With(guards.CheckRestaurantOwnership).Get("/restaurants/{restaurantId}/analytics", c.Analytics)
	r.With(guards.CheckRestaurantOwnership, guards.RestaurantHasNoOrders).Delete("/restaurants/{restaurantId}", c.Destroy)
	return r
}

func TestCreate_ValidatesBody(t *testing.T) {
	uc := &mockRestaurantUseCase{
		CreateFunc: func(ctx context.Context, owner domain.User, req dto.RestaurantRequest) (*domain.Restaurant, error) {
			r := req.ToDomain(domain.Restaurant{ID: 8, UserID: owner.ID, Status: domain.RestaurantStatusOffline})
			return &r, nil
		},
	}
	h := newTestRouter(uc)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"valid", `{"name":"Casa Pepe","address":"Calle Sierpes 1","postalCode":"41004","shippingCosts":2,"restaurantCategoryId":1}`, http.StatusOK},
		{"negative shipping", `{"name":"Casa Pepe","address":"A","postalCode":"41004","shippingCosts":-1,"restaurantCategoryId":1}`, http.StatusUnprocessableEntity},
		{"unknown status", `{"name":"Casa Pepe","address":"A","postalCode":"41004","status":"busy","restaurantCategoryId":1}`, http.StatusUnprocessableEntity},
		{"bad email", `{"name":"Casa Pepe","address":"A","postalCode":"41004","email":"nope","restaurantCategoryId":1}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/restaurants", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestShow_NotFound(t *testing.T) {
	uc := &mockRestaurantUseCase{
		ShowFunc: func(ctx context.Context, id uint) (*domain.Restaurant, error) {
			return nil, apperrors.NewNotFoundError("restaurant with id 4 not found")
		},
	}
	rec := httptest.NewRecorder()
	newTestRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants/4", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalytics(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&mockRestaurantUseCase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants/3/analytics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.AnalyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint(3), body.RestaurantID)
	assert.Equal(t, 2, body.NumPendingOrders)
	assert.Equal(t, 17.5, body.InvoicedToday)
}

func TestDestroy(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&mockRestaurantUseCase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/restaurants/3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Successfully deleted restaurant id 3."}`, rec.Body.String())
}
