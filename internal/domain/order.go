package domain

import (
	"time"

	apperrors "deliverus/internal/errors"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInProcess OrderStatus = "in process"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
)

// FreeShippingThreshold is the order price above which shipping is free.
const FreeShippingThreshold = 10.0

type Order struct {
	ID            uint
	UserID        uint
	RestaurantID  uint
	Address       string
	Price         float64
	ShippingCosts float64
	CreatedAt     time.Time
	StartedAt     *time.Time
	SentAt        *time.Time
	DeliveredAt   *time.Time
	UpdatedAt     time.Time
	Products      []OrderProduct
	Restaurant    *Restaurant
}

type OrderProduct struct {
	OrderID    uint
	ProductID  uint
	Name       string
	Quantity   int
	UnityPrice float64
}

// Status is derived from the lifecycle timestamps; it is never stored.
func (o Order) Status() OrderStatus {
	switch {
	case o.DeliveredAt != nil:
		return OrderStatusDelivered
	case o.SentAt != nil:
		return OrderStatusSent
	case o.StartedAt != nil:
		return OrderStatusInProcess
	default:
		return OrderStatusPending
	}
}

func (o Order) Total() float64 {
	return o.Price + o.ShippingCosts
}

func (o Order) CanBeConfirmed() error {
	if o.StartedAt != nil {
		return apperrors.NewConflictError("The order has already been started")
	}
	return nil
}

func (o Order) CanBeSent() error {
	if o.StartedAt == nil || o.SentAt != nil {
		return apperrors.NewConflictError("The order cannot be sent")
	}
	return nil
}

func (o Order) CanBeDelivered() error {
	if o.StartedAt == nil || o.SentAt == nil || o.DeliveredAt != nil {
		return apperrors.NewConflictError("The order cannot be delivered")
	}
	return nil
}

// IsEditable reports whether the customer may still change or remove the order.
func (o Order) IsEditable() error {
	switch o.Status() {
	case OrderStatusInProcess:
		return apperrors.NewConflictError("The order is already confirmed")
	case OrderStatusSent:
		return apperrors.NewConflictError("The order is already sent")
	case OrderStatusDelivered:
		return apperrors.NewConflictError("The order is already delivered")
	}
	return nil
}

func (o Order) BelongsToCustomer(userID uint) bool {
	return o.UserID == userID
}

// PriceOf sums quantity times unity price over the order lines.
func PriceOf(lines []OrderProduct) float64 {
	total := 0.0
	for _, l := range lines {
		total += float64(l.Quantity) * l.UnityPrice
	}
	return total
}

func ShippingCostsFor(price float64, restaurant Restaurant) float64 {
	if price > FreeShippingThreshold {
		return 0
	}
	return restaurant.ShippingCosts
}
