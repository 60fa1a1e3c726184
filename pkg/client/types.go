package client

import "time"

type Session struct {
	ID              uint       `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Email           string     `json:"email"`
	UserType        string     `json:"userType"`
	Token           string     `json:"token"`
	TokenExpiration *time.Time `json:"tokenExpiration"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description"`
	Price             float64   `json:"price"`
	Image             *string   `json:"image"`
	Order             int       `json:"order"`
	Availability      bool      `json:"availability"`
	RestaurantID      uint      `json:"restaurantId"`
	ProductCategoryID uint      `json:"productCategoryId"`
	ProductCategory   *Category `json:"productCategory,omitempty"`
}

type Restaurant struct {
	ID                    uint      `json:"id"`
	Name                  string    `json:"name"`
	Description           *string   `json:"description"`
	Address               string    `json:"address"`
	PostalCode            string    `json:"postalCode"`
	URL                   *string   `json:"url"`
	ShippingCosts         float64   `json:"shippingCosts"`
	AverageServiceMinutes *float64  `json:"averageServiceMinutes"`
	Email                 *string   `json:"email"`
	Phone                 *string   `json:"phone"`
	Logo                  *string   `json:"logo"`
	HeroImage             *string   `json:"heroImage"`
	Status                string    `json:"status"`
	UserID                uint      `json:"userId"`
	RestaurantCategoryID  uint      `json:"restaurantCategoryId"`
	RestaurantCategory    *Category `json:"restaurantCategory,omitempty"`
	Products              []Product `json:"products,omitempty"`
}

type RestaurantSummary struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Logo          *string `json:"logo"`
	ShippingCosts float64 `json:"shippingCosts"`
	Status        string  `json:"status"`
}

type OrderLine struct {
	ProductID  uint    `json:"productId"`
	Name       string  `json:"name,omitempty"`
	Quantity   int     `json:"quantity"`
	UnityPrice float64 `json:"unityPrice"`
}

type Order struct {
	ID            uint               `json:"id"`
	CreatedAt     time.Time          `json:"createdAt"`
	StartedAt     *time.Time         `json:"startedAt"`
	SentAt        *time.Time         `json:"sentAt"`
	DeliveredAt   *time.Time         `json:"deliveredAt"`
	Price         float64            `json:"price"`
	Address       string             `json:"address"`
	ShippingCosts float64            `json:"shippingCosts"`
	RestaurantID  uint               `json:"restaurantId"`
	UserID        uint               `json:"userId"`
	Status        string             `json:"status"`
	Products      []OrderLine        `json:"products"`
	Restaurant    *RestaurantSummary `json:"restaurant,omitempty"`
}

// Total is what the customer pays.
func (o Order) Total() float64 {
	return o.Price + o.ShippingCosts
}

type LineRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	RestaurantID uint          `json:"restaurantId"`
	Address      string        `json:"address"`
	Products     []LineRequest `json:"products"`
}

type UpdateOrderRequest struct {
	Address  string        `json:"address"`
	Products []LineRequest `json:"products"`
}

type Analytics struct {
	RestaurantID            uint    `json:"restaurantId"`
	NumYesterdayOrders      int     `json:"numYesterdayOrders"`
	NumPendingOrders        int     `json:"numPendingOrders"`
	NumDeliveredTodayOrders int     `json:"numDeliveredTodayOrders"`
	InvoicedToday           float64 `json:"invoicedToday"`
}
