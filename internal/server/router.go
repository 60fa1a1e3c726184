package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/infrastructure/metrics"
	"deliverus/internal/middleware"
	"deliverus/internal/order"
	"deliverus/internal/product"
	"deliverus/internal/response"
	"deliverus/internal/restaurant"
	"deliverus/internal/user"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Modules struct {
	Users       *user.Module
	Restaurants *restaurant.Module
	Products    *product.Module
	Orders      *order.Module
}

type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

func NewRouter(mods Modules, db Pinger, m *metrics.Metrics, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Trace-ID"},
		MaxAge:         300,
	}))
	r.Use(m.Instrument)

	r.Get("/health", health(db))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Public routes are limited per client IP. Authenticated routes are
	// limited after IsLoggedIn so that each user gets their own bucket.
	limit := func(next http.Handler) http.Handler { return next }
	if opts.RateLimiter != nil {
		limit = opts.RateLimiter.Handler
	}
	isLoggedIn := chi.Chain(middleware.IsLoggedIn(mods.Users.Authenticator, logger), limit).Handler
	customer := middleware.HasRole(domain.UserTypeCustomer)
	owner := middleware.HasRole(domain.UserTypeOwner)

	users := mods.Users.Controller
	restaurants := mods.Restaurants.Controller
	restaurantGuards := mods.Restaurants.Guards
	products := mods.Products.Controller
	productGuards := mods.Products.Guards
	orders := mods.Orders.Controller
	orderGuards := mods.Orders.Guards

	r.Route("/users", func(r chi.Router) {
		r.With(limit).Post("/register", users.Register)
		r.With(limit).Post("/registerOwner", users.RegisterOwner)
		r.With(limit).Post("/login", users.Login)
		r.With(limit).Post("/loginOwner", users.LoginOwner)
		r.With(limit).Put("/isTokenValid", users.IsTokenValid)
		r.With(isLoggedIn).Put("/", users.Update)
		r.With(isLoggedIn).Delete("/", users.Destroy)
		r.With(isLoggedIn, owner).Get("/myrestaurants", restaurants.IndexOwner)
		r.With(limit).Get("/{userId}", users.Show)
	})

	r.With(limit).Get("/restaurantCategories", restaurants.IndexCategories)
	r.Route("/restaurants", func(r chi.Router) {
		r.With(limit).Get("/", restaurants.Index)
		r.With(isLoggedIn, owner).Post("/", restaurants.Create)
		r.With(limit).Get("/{restaurantId}", restaurants.Show)

		r.Group(func(r chi.Router) {
			r.Use(isLoggedIn, owner, restaurantGuards.CheckRestaurantOwnership)
			r.Put("/{restaurantId}", restaurants.Update)
			r.With(restaurantGuards.RestaurantHasNoOrders).Delete("/{restaurantId}", restaurants.Destroy)
			r.Get("/{restaurantId}/orders", restaurants.IndexOrders)
			r.Get("/{restaurantId}/analytics", restaurants.Analytics)
		})
	})

	r.With(limit).Get("/productCategories", products.IndexCategories)
	r.Route("/products", func(r chi.Router) {
		r.With(limit).Get("/popular", products.Popular)
		r.With(limit).Get("/{productId}", products.Show)
		r.With(isLoggedIn, owner).Post("/", products.Create)
		r.With(isLoggedIn, owner, productGuards.CheckProductOwnership).Put("/{productId}", products.Update)
		r.With(isLoggedIn, owner, productGuards.CheckProductOwnership, productGuards.CheckProductHasNotBeenOrdered).
			Delete("/{productId}", products.Destroy)
	})

	r.Route("/orders", func(r chi.Router) {
		r.With(isLoggedIn, customer).Get("/", orders.Index)
		r.With(isLoggedIn, customer, orderGuards.CheckRestaurantExists).Post("/", orders.Create)

		r.Route("/{orderId}", func(r chi.Router) {
			r.Use(isLoggedIn)
			r.With(orderGuards.CheckOrderExists, orderGuards.CheckOrderVisible).Get("/", orders.Show)

			r.Group(func(r chi.Router) {
				r.Use(owner, orderGuards.CheckOrderExists, orderGuards.CheckOrderOwnership)
				r.With(orderGuards.CheckOrderIsPending).Patch("/confirm", orders.Confirm)
				r.With(orderGuards.CheckOrderCanBeSent).Patch("/send", orders.Send)
				r.With(orderGuards.CheckOrderCanBeDelivered).Patch("/deliver", orders.Deliver)
			})

			r.Group(func(r chi.Router) {
				r.Use(customer, orderGuards.CheckOrderExists, orderGuards.CheckOrderCustomer, orderGuards.CheckOrderIsEditable)
				r.Put("/", orders.Update)
				r.Delete("/", orders.Destroy)
			})
		})
	})

	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			response.JSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
