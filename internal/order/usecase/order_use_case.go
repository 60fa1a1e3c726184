package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	apperrors "deliverus/internal/errors"
	"deliverus/internal/infrastructure/mysql"
	"deliverus/internal/order/service"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindByCustomer(ctx context.Context, userID uint) ([]domain.Order, error)
	MarkStarted(ctx context.Context, id uint, at time.Time) error
	MarkSent(ctx context.Context, id uint, at time.Time) error
	MarkDelivered(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
}

type RestaurantRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Restaurant, error)
}

type ProductService interface {
	OrderableProducts(ctx context.Context, restaurantID uint, ids []uint) (map[uint]domain.Product, error)
}

type OrderSaver interface {
	Save(ctx context.Context, o domain.Order, restaurant domain.Restaurant, lines []service.Line) (uint, error)
}

type TransitionRecorder interface {
	RecordOrderTransition(status string)
}

type OrderUseCase struct {
	orders           OrderRepository
	restaurants      RestaurantRepository
	products         ProductService
	saver            OrderSaver
	metrics          TransitionRecorder
	logger           *zap.Logger
	maxRetryAttempts int
	now              func() time.Time
	sleep            func(time.Duration)
}

func NewOrderUseCase(
	orders OrderRepository,
	restaurants RestaurantRepository,
	products ProductService,
	saver OrderSaver,
	metrics TransitionRecorder,
	logger *zap.Logger,
	maxRetryAttempts int,
) *OrderUseCase {
	return &OrderUseCase{
		orders:           orders,
		restaurants:      restaurants,
		products:         products,
		saver:            saver,
		metrics:          metrics,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		now:              time.Now,
		sleep:            time.Sleep,
	}
}

func (uc *OrderUseCase) Index(ctx context.Context, customer domain.User) ([]domain.Order, error) {
	return uc.orders.FindByCustomer(ctx, customer.ID)
}

func (uc *OrderUseCase) Show(ctx context.Context, id uint) (*domain.Order, error) {
	return uc.orders.FindByID(ctx, id)
}

func (uc *OrderUseCase) Create(ctx context.Context, customer domain.User, req dto.CreateOrderRequest) (*domain.Order, error) {
	restaurant, err := uc.restaurants.FindByID(ctx, req.RestaurantID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "restaurantId",
				Message: "The restaurant does not exist.",
			})
		}
		return nil, err
	}

	lines, err := uc.checkLines(ctx, restaurant.ID, req.Products)
	if err != nil {
		return nil, err
	}

	o := domain.Order{
		UserID:       customer.ID,
		RestaurantID: restaurant.ID,
		Address:      req.Address,
		CreatedAt:    uc.now().UTC(),
	}
	id, err := uc.saveWithRetry(ctx, o, *restaurant, lines)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order created", zap.Uint("orderId", id), zap.Uint("restaurantId", restaurant.ID), zap.Uint("userId", customer.ID))
	uc.metrics.RecordOrderTransition(string(domain.OrderStatusPending))
	return uc.orders.FindByID(ctx, id)
}

// Update replaces address and lines of a pending order. The products must
// belong to the restaurant the order was placed against.
func (uc *OrderUseCase) Update(ctx context.Context, current domain.Order, req dto.UpdateOrderRequest) (*domain.Order, error) {
	if err := current.IsEditable(); err != nil {
		return nil, err
	}

	restaurant, err := uc.restaurants.FindByID(ctx, current.RestaurantID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.checkLines(ctx, restaurant.ID, req.Products)
	if err != nil {
		return nil, err
	}

	current.Address = req.Address
	if _, err := uc.saveWithRetry(ctx, current, *restaurant, lines); err != nil {
		return nil, err
	}

	uc.logger.Info("order updated", zap.Uint("orderId", current.ID))
	return uc.orders.FindByID(ctx, current.ID)
}

func (uc *OrderUseCase) Confirm(ctx context.Context, id uint) (*domain.Order, error) {
	return uc.transition(ctx, id, domain.OrderStatusInProcess, uc.orders.MarkStarted)
}

func (uc *OrderUseCase) Send(ctx context.Context, id uint) (*domain.Order, error) {
	return uc.transition(ctx, id, domain.OrderStatusSent, uc.orders.MarkSent)
}

func (uc *OrderUseCase) Deliver(ctx context.Context, id uint) (*domain.Order, error) {
	return uc.transition(ctx, id, domain.OrderStatusDelivered, uc.orders.MarkDelivered)
}

func (uc *OrderUseCase) transition(
	ctx context.Context,
	id uint,
	to domain.OrderStatus,
	mark func(ctx context.Context, id uint, at time.Time) error,
) (*domain.Order, error) {
	if err := mark(ctx, id, uc.now().UTC()); err != nil {
		return nil, err
	}
	uc.logger.Info("order status changed", zap.Uint("orderId", id), zap.String("status", string(to)))
	uc.metrics.RecordOrderTransition(string(to))
	return uc.orders.FindByID(ctx, id)
}

func (uc *OrderUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.orders.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("order deleted", zap.Uint("orderId", id))
	return nil
}

// checkLines verifies outside any transaction that every product exists, is
// available and belongs to restaurantID. It returns the lines sorted by
// product id so concurrent transactions lock products in the same order.
func (uc *OrderUseCase) checkLines(ctx context.Context, restaurantID uint, req []dto.OrderLineRequest) ([]service.Line, error) {
	ids := make([]uint, len(req))
	seen := make(map[uint]bool, len(req))
	for i, l := range req {
		if seen[l.ProductID] {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "products",
				Message: fmt.Sprintf("Product %d appears more than once.", l.ProductID),
			})
		}
		seen[l.ProductID] = true
		ids[i] = l.ProductID
	}

	if _, err := uc.products.OrderableProducts(ctx, restaurantID, ids); err != nil {
		return nil, err
	}

	lines := make([]service.Line, 0, len(req))
	for _, l := range req {
		lines = append(lines, service.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (uc *OrderUseCase) saveWithRetry(ctx context.Context, o domain.Order, restaurant domain.Restaurant, lines []service.Line) (uint, error) {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		id, err := uc.saver.Save(ctx, o, restaurant, lines)
		if err == nil {
			return id, nil
		}
		if !mysql.IsRetryable(err) {
			return 0, err
		}
		if attempt == uc.maxRetryAttempts {
			break
		}

		base := backoffs[min(attempt, len(backoffs)-1)]
		// ±20% jitter
		wait := base + time.Duration((rand.Float64()*0.4-0.2)*float64(base))
		uc.logger.Warn("order transaction aborted, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.maxRetryAttempts),
			zap.Uint("orderId", o.ID),
			zap.Duration("wait", wait),
		)
		uc.sleep(wait)
	}

	return 0, apperrors.NewConflictError("The order could not be saved, try again")
}
