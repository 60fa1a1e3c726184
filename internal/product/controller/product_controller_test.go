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
)

type mockProductUseCase struct {
	ProductUseCase
	PopularFunc func(ctx context.Context) ([]domain.PopularProduct, error)
	ShowFunc    func(ctx context.Context, id uint) (*domain.Product, error)
	CreateFunc  func(ctx context.Context, owner domain.User, req dto.ProductRequest) (*domain.Product, error)
}

func (m *mockProductUseCase) Popular(ctx context.Context) ([]domain.PopularProduct, error) {
	return m.PopularFunc(ctx)
}

func (m *mockProductUseCase) Show(ctx context.Context, id uint) (*domain.Product, error) {
	return m.ShowFunc(ctx, id)
}

func (m *mockProductUseCase) Create(ctx context.Context, owner domain.User, req dto.ProductRequest) (*domain.Product, error) {
	return m.CreateFunc(ctx, owner, req)
}

func newProductRouter(uc ProductUseCase) http.Handler {
	c := NewController(uc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := &domain.User{ID: 5, UserType: domain.UserTypeOwner}
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), owner)))
		})
	})
	r.Get("/products/popular", c.Popular)
	r.Get("/products/{productId}", c.Show)
	r.Post("/products", c.Create)
	return r
}

func TestPopular(t *testing.T) {
	h := newProductRouter(&mockProductUseCase{
		PopularFunc: func(ctx context.Context) ([]domain.PopularProduct, error) {
			return []domain.PopularProduct{{Product: domain.Product{ID: 7, Name: "Salmorejo"}, SoldUnits: 12}}, nil
		},
	})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/popular", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []dto.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	require.NotNil(t, body[0].SoldUnits)
	assert.Equal(t, 12, *body[0].SoldUnits)
}

func TestShowProduct(t *testing.T) {
	h := newProductRouter(&mockProductUseCase{
		ShowFunc: func(ctx context.Context, id uint) (*domain.Product, error) {
			if id != 7 {
				return nil, apperrors.NewNotFoundError("product not found")
			}
			return &domain.Product{ID: 7, Name: "Salmorejo", Availability: true}, nil
		},
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"existing", "/products/7", http.StatusOK},
		{"missing", "/products/8", http.StatusNotFound},
		{"bad id", "/products/x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestCreateProduct_PassesOwner(t *testing.T) {
	var gotOwner uint
	h := newProductRouter(&mockProductUseCase{
		CreateFunc: func(ctx context.Context, owner domain.User, req dto.ProductRequest) (*domain.Product, error) {
			gotOwner = owner.ID
			return &domain.Product{ID: 9, Name: req.Name, RestaurantID: req.RestaurantID}, nil
		},
	})
	body := `{"name":"Flan","price":3,"restaurantId":2,"productCategoryId":1}`
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(5), gotOwner)
	assert.Contains(t, rec.Body.String(), `"name":"Flan"`)
}

func TestCreateProduct_ValidationFails(t *testing.T) {
	h := newProductRouter(&mockProductUseCase{})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"price":-1}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
