package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	apperrors "deliverus/internal/errors"
	authmw "deliverus/internal/middleware"
	"deliverus/internal/request"
	"deliverus/internal/response"
)

type productKey struct{}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	IsOrdered(ctx context.Context, id uint) (bool, error)
}

type RestaurantRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Restaurant, error)
}

// ProductFromContext returns the product loaded by CheckProductOwnership.
func ProductFromContext(ctx context.Context) (*domain.Product, bool) {
	p, ok := ctx.Value(productKey{}).(*domain.Product)
	return p, ok && p != nil
}

type Guards struct {
	products    ProductRepository
	restaurants RestaurantRepository
	logger      *zap.Logger
}

func NewGuards(products ProductRepository, restaurants RestaurantRepository, logger *zap.Logger) *Guards {
	return &Guards{products: products, restaurants: restaurants, logger: logger}
}

// CheckProductOwnership loads {productId} (404 when missing) and requires the
// logged-in owner to own its restaurant (403).
func (g *Guards) CheckProductOwnership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := request.ID(r, "productId")
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}
		product, err := g.products.FindByID(r.Context(), id)
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}
		restaurant, err := g.restaurants.FindByID(r.Context(), product.RestaurantID)
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}

		user, _ := authmw.UserFromContext(r.Context())
		if user == nil || !restaurant.OwnedBy(user.ID) {
			response.Error(w, r, g.logger, apperrors.NewForbiddenError("Not enough privileges. This entity does not belong to you"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), productKey{}, product)))
	})
}

// CheckProductHasNotBeenOrdered rejects with 409 once any order references
// the product. It must run after CheckProductOwnership.
func (g *Guards) CheckProductHasNotBeenOrdered(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		product, _ := ProductFromContext(r.Context())
		ordered, err := g.products.IsOrdered(r.Context(), product.ID)
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}
		if ordered {
			response.Error(w, r, g.logger, apperrors.NewConflictError("This product has already been ordered"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
