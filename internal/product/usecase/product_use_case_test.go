package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	apperrors "deliverus/internal/errors"
)

type mockProductRepository struct {
	FindByIDFunc    func(ctx context.Context, id uint) (*domain.Product, error)
	FindPopularFunc func(ctx context.Context, limit int) ([]domain.PopularProduct, error)
	CreateFunc      func(ctx context.Context, p domain.Product) (uint, error)
	UpdateFunc      func(ctx context.Context, p domain.Product) error
	DeleteFunc      func(ctx context.Context, id uint) error
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockProductRepository) FindPopular(ctx context.Context, limit int) ([]domain.PopularProduct, error) {
	return m.FindPopularFunc(ctx, limit)
}

func (m *mockProductRepository) Create(ctx context.Context, p domain.Product) (uint, error) {
	return m.CreateFunc(ctx, p)
}

func (m *mockProductRepository) Update(ctx context.Context, p domain.Product) error {
	return m.UpdateFunc(ctx, p)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uint) error {
	return m.DeleteFunc(ctx, id)
}

type mockCategoryRepository struct {
	existing map[uint]bool
}

func (m *mockCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Starters"}}, nil
}

func (m *mockCategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return m.existing[id], nil
}

type mockRestaurantRepository struct {
	restaurants map[uint]domain.Restaurant
}

func (m *mockRestaurantRepository) FindByID(ctx context.Context, id uint) (*domain.Restaurant, error) {
	r, ok := m.restaurants[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("restaurant not found")
	}
	return &r, nil
}

func newTestProductUseCase(products ProductRepository) *ProductUseCase {
	return NewProductUseCase(
		products,
		&mockCategoryRepository{existing: map[uint]bool{1: true}},
		&mockRestaurantRepository{restaurants: map[uint]domain.Restaurant{
			10: {ID: 10, UserID: 2},
			11: {ID: 11, UserID: 99},
		}},
		zap.NewNop(),
	)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ProductRequest
		wantCheck func(error) bool
	}{
		{
			name: "own restaurant",
			req:  dto.ProductRequest{Name: "Gazpacho", Price: 4, RestaurantID: 10, ProductCategoryID: 1},
		},
		{
			name:      "someone else's restaurant",
			req:       dto.ProductRequest{Name: "Gazpacho", Price: 4, RestaurantID: 11, ProductCategoryID: 1},
			wantCheck: func(err error) bool { _, ok := apperrors.IsForbiddenError(err); return ok },
		},
		{
			name:      "missing restaurant",
			req:       dto.ProductRequest{Name: "Gazpacho", Price: 4, RestaurantID: 12, ProductCategoryID: 1},
			wantCheck: func(err error) bool { _, ok := apperrors.IsValidationError(err); return ok },
		},
		{
			name:      "missing category",
			req:       dto.ProductRequest{Name: "Gazpacho", Price: 4, RestaurantID: 10, ProductCategoryID: 7},
			wantCheck: func(err error) bool { _, ok := apperrors.IsValidationError(err); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *domain.Product
			repo := &mockProductRepository{
				CreateFunc: func(ctx context.Context, p domain.Product) (uint, error) {
					created = &p
					return 30, nil
				},
				FindByIDFunc: func(ctx context.Context, id uint) (*domain.Product, error) {
					p := *created
					p.ID = id
					return &p, nil
				},
			}
			uc := newTestProductUseCase(repo)

			p, err := uc.Create(context.Background(), domain.User{ID: 2, UserType: domain.UserTypeOwner}, tt.req)

			if tt.wantCheck != nil {
				assert.True(t, tt.wantCheck(err))
				assert.Nil(t, created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(30), p.ID)
			assert.True(t, p.Availability, "availability defaults to true")
		})
	}
}

func TestUpdate_KeepsIdentity(t *testing.T) {
	var saved domain.Product
	repo := &mockProductRepository{
		UpdateFunc: func(ctx context.Context, p domain.Product) error {
			saved = p
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Product, error) {
			p := saved
			return &p, nil
		},
	}
	uc := newTestProductUseCase(repo)
	unavailable := false

	p, err := uc.Update(context.Background(),
		domain.User{ID: 2},
		domain.Product{ID: 5, Name: "Old", RestaurantID: 10, ProductCategoryID: 1},
		dto.ProductRequest{Name: "New", Price: 3, Availability: &unavailable, RestaurantID: 10, ProductCategoryID: 1},
	)

	require.NoError(t, err)
	assert.Equal(t, uint(5), p.ID)
	assert.Equal(t, "New", p.Name)
	assert.False(t, p.Availability)
}

func TestPopular_UsesLimit(t *testing.T) {
	var gotLimit int
	repo := &mockProductRepository{
		FindPopularFunc: func(ctx context.Context, limit int) ([]domain.PopularProduct, error) {
			gotLimit = limit
			return nil, nil
		},
	}

	_, err := newTestProductUseCase(repo).Popular(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PopularLimit, gotLimit)
}
