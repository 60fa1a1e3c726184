package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"deliverus/internal/domain"
	apperrors "deliverus/internal/errors"
	authmw "deliverus/internal/middleware"
	"deliverus/internal/request"
	"deliverus/internal/response"
)

// maxPeekBytes caps how much of a request body CheckRestaurantExists buffers.
const maxPeekBytes = 1 << 20

type orderKey struct{}

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
}

type RestaurantRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Restaurant, error)
}

// OrderFromContext returns the order loaded by CheckOrderExists.
func OrderFromContext(ctx context.Context) (*domain.Order, bool) {
	o, ok := ctx.Value(orderKey{}).(*domain.Order)
	return o, ok && o != nil
}

// Guards holds the order route checks. Everything after CheckOrderExists
// reads the order it stored in the request context.
type Guards struct {
	orders      OrderRepository
	restaurants RestaurantRepository
	logger      *zap.Logger
}

func NewGuards(orders OrderRepository, restaurants RestaurantRepository, logger *zap.Logger) *Guards {
	return &Guards{orders: orders, restaurants: restaurants, logger: logger}
}

func (g *Guards) CheckOrderExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := request.ID(r, "orderId")
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}
		order, err := g.orders.FindByID(r.Context(), id)
		if err != nil {
			response.Error(w, r, g.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), orderKey{}, order)))
	})
}

// CheckOrderVisible lets owners see orders of their restaurants and
// customers their own orders. Any other user type is rejected.
func (g *Guards) CheckOrderVisible(next http.Handler) http.Handler {
	return g.check(func(user *domain.User, o *domain.Order) error {
		switch user.UserType {
		case domain.UserTypeOwner:
			return ownedByRestaurantOwner(user, o)
		case domain.UserTypeCustomer:
			return placedBy(user, o)
		}
		return apperrors.NewForbiddenError("Not enough privileges. This entity does not belong to you")
	}, next)
}

func (g *Guards) CheckOrderCustomer(next http.Handler) http.Handler {
	return g.check(placedBy, next)
}

func (g *Guards) CheckOrderOwnership(next http.Handler) http.Handler {
	return g.check(ownedByRestaurantOwner, next)
}

func (g *Guards) CheckOrderIsPending(next http.Handler) http.Handler {
	return g.check(func(_ *domain.User, o *domain.Order) error { return o.CanBeConfirmed() }, next)
}

func (g *Guards) CheckOrderCanBeSent(next http.Handler) http.Handler {
	return g.check(func(_ *domain.User, o *domain.Order) error { return o.CanBeSent() }, next)
}

func (g *Guards) CheckOrderCanBeDelivered(next http.Handler) http.Handler {
	return g.check(func(_ *domain.User, o *domain.Order) error { return o.CanBeDelivered() }, next)
}

func (g *Guards) CheckOrderIsEditable(next http.Handler) http.Handler {
	return g.check(func(_ *domain.User, o *domain.Order) error { return o.IsEditable() }, next)
}

func (g *Guards) check(rule func(user *domain.User, o *domain.Order) error, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order, ok := OrderFromContext(r.Context())
		if !ok {
			response.Error(w, r, g.logger, apperrors.NewInternalError("order guard used without CheckOrderExists", nil))
			return
		}
		user, _ := authmw.UserFromContext(r.Context())
		if user == nil {
			response.Unauthorized(w, r, "Unauthorized")
			return
		}
		if err := rule(user, order); err != nil {
			response.Error(w, r, g.logger, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func placedBy(user *domain.User, o *domain.Order) error {
	if !o.BelongsToCustomer(user.ID) {
		return apperrors.NewForbiddenError("Not enough privileges. This entity does not belong to you")
	}
	return nil
}

func ownedByRestaurantOwner(user *domain.User, o *domain.Order) error {
	if o.Restaurant == nil || !o.Restaurant.OwnedBy(user.ID) {
		return apperrors.NewForbiddenError("Not enough privileges. This entity does not belong to you")
	}
	return nil
}

// CheckRestaurantExists answers 409 when the body names a restaurant that
// does not exist. A body without restaurantId, or one that is not JSON, is
// passed on for validation to report. The body is restored for the handler.
func (g *Guards) CheckRestaurantExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
		if err != nil {
			response.Error(w, r, g.logger, apperrors.NewBadRequestError("request body could not be read"))
			return
		}
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		var target struct {
			RestaurantID *uint `json:"restaurantId"`
		}
		if err := render.DecodeJSON(bytes.NewReader(body), &target); err != nil || target.RestaurantID == nil || *target.RestaurantID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := g.restaurants.FindByID(r.Context(), *target.RestaurantID); err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				response.Error(w, r, g.logger, apperrors.NewConflictError("The restaurant does not exist"))
				return
			}
			response.Error(w, r, g.logger, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
