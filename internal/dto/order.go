package dto

import (
	"strings"
	"time"

	"deliverus/internal/domain"
)

type OrderLineRequest struct {
	ProductID uint `json:"productId" validate:"gte=1"`
	Quantity  int  `json:"quantity" validate:"gte=1"`
}

type CreateOrderRequest struct {
	RestaurantID uint               `json:"restaurantId" validate:"required"`
	Address      string             `json:"address" validate:"required,max=255"`
	Products     []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
}

func (r *CreateOrderRequest) Normalize() {
	r.Address = strings.TrimSpace(r.Address)
}

// UpdateOrderRequest rejects restaurantId: an order never moves between
// restaurants.
type UpdateOrderRequest struct {
	RestaurantID *uint              `json:"restaurantId" validate:"isdefault"`
	Address      string             `json:"address" validate:"required,max=255"`
	Products     []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
}

func (r *UpdateOrderRequest) Normalize() {
	r.Address = strings.TrimSpace(r.Address)
}

type OrderLineResponse struct {
	ProductID  uint    `json:"productId"`
	Name       string  `json:"name,omitempty"`
	Quantity   int     `json:"quantity"`
	UnityPrice float64 `json:"unityPrice"`
}

type OrderResponse struct {
	ID            uint                `json:"id"`
	CreatedAt     time.Time           `json:"createdAt"`
	StartedAt     *time.Time          `json:"startedAt"`
	SentAt        *time.Time          `json:"sentAt"`
	DeliveredAt   *time.Time          `json:"deliveredAt"`
	Price         float64             `json:"price"`
	Address       string              `json:"address"`
	ShippingCosts float64             `json:"shippingCosts"`
	RestaurantID  uint                `json:"restaurantId"`
	UserID        uint                `json:"userId"`
	Status        string              `json:"status"`
	Products      []OrderLineResponse `json:"products"`
	Restaurant    *RestaurantSummary  `json:"restaurant,omitempty"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Products))
	for _, p := range o.Products {
		lines = append(lines, OrderLineResponse{
			ProductID:  p.ProductID,
			Name:       p.Name,
			Quantity:   p.Quantity,
			UnityPrice: p.UnityPrice,
		})
	}

	resp := OrderResponse{
		ID:            o.ID,
		CreatedAt:     o.CreatedAt,
		StartedAt:     o.StartedAt,
		SentAt:        o.SentAt,
		DeliveredAt:   o.DeliveredAt,
		Price:         o.Price,
		Address:       o.Address,
		ShippingCosts: o.ShippingCosts,
		RestaurantID:  o.RestaurantID,
		UserID:        o.UserID,
		Status:        string(o.Status()),
		Products:      lines,
	}
	if o.Restaurant != nil {
		summary := NewRestaurantSummary(*o.Restaurant)
		resp.Restaurant = &summary
	}
	return resp
}

func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}
