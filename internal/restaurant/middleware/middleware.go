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

type restaurantKey struct{}

type RestaurantRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Restaurant, error)
	CountOrders(ctx context.Context, restaurantID uint) (int, error)
}

func RestaurantFromContext(ctx context.Context) (*domain.Restaurant, bool) {
	r, ok := ctx.Value(restaurantKey{}).(*domain.Restaurant)
	return r, ok && r != nil
}

type Guards struct {
	restaurants RestaurantRepository
	logger      *zap.Logger
}

func NewGuards(restaurants RestaurantRepository, logger *zap.Logger) *Guards {
	return &Guards{restaurants: restaurants, logger: logger}
}

// CheckRestaurantOwnership loads {restaurantId} and lets the request through
// only for its owner. The loaded restaurant is available to later handlers
// through RestaurantFromContext.
func (g *Guards) CheckRestaurantOwnership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := request.ID(r, "restaurantId")
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}
		restaurant, err := g.restaurants.FindByID(r.Context(), id)
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}

		user, _ := authmw.UserFromContext(r.Context())
		if user == nil || !restaurant.OwnedBy(user.ID) {
			response.Error(w, r, g.logger, apperrors.NewForbiddenError("Not enough privileges. This entity does not belong to you"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), restaurantKey{}, restaurant)))
	})
}

// RestaurantHasNoOrders must run after CheckRestaurantOwnership.
func (g *Guards) RestaurantHasNoOrders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		restaurant, _ := RestaurantFromContext(r.Context())
		n, err := g.restaurants.CountOrders(r.Context(), restaurant.ID)
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}
		if n > 0 {
			response.Error(w, r, g.logger, apperrors.NewConflictError("Some orders belong to this restaurant."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
