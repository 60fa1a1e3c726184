package dto

import (
	"time"

	"deliverus/internal/domain"
)

type RestaurantRequest struct {
	Name                  string   `json:"name" validate:"required,max=255"`
	Description           *string  `json:"description"`
	Address               string   `json:"address" validate:"required,max=255"`
	PostalCode            string   `json:"postalCode" validate:"required,max=255"`
	URL                   *string  `json:"url" validate:"omitempty,url"`
	ShippingCosts         float64  `json:"shippingCosts" validate:"gte=0"`
	AverageServiceMinutes *float64 `json:"averageServiceMinutes" validate:"omitempty,gte=0"`
	Email                 *string  `json:"email" validate:"omitempty,email"`
	Phone                 *string  `json:"phone" validate:"omitempty,max=255"`
	Logo                  *string  `json:"logo" validate:"omitempty,max=255"`
	HeroImage             *string  `json:"heroImage" validate:"omitempty,max=255"`
	Status                string   `json:"status" validate:"omitempty,oneof=online offline closed 'temporarily closed'"`
	RestaurantCategoryID  uint     `json:"restaurantCategoryId" validate:"required"`
}

// ToDomain maps the request onto r, keeping identity and ownership fields.
func (req RestaurantRequest) ToDomain(r domain.Restaurant) domain.Restaurant {
	r.Name = req.Name
	r.Description = req.Description
	r.Address = req.Address
	r.PostalCode = req.PostalCode
	r.URL = req.URL
	r.ShippingCosts = req.ShippingCosts
	r.AverageServiceMinutes = req.AverageServiceMinutes
	r.Email = req.Email
	r.Phone = req.Phone
	r.Logo = req.Logo
	r.HeroImage = req.HeroImage
	r.RestaurantCategoryID = req.RestaurantCategoryID
	if req.Status != "" {
		r.Status = domain.RestaurantStatus(req.Status)
	}
	return r
}

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}

type RestaurantSummary struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Logo          *string `json:"logo"`
	ShippingCosts float64 `json:"shippingCosts"`
	Status        string  `json:"status"`
}

func NewRestaurantSummary(r domain.Restaurant) RestaurantSummary {
	return RestaurantSummary{
		ID:            r.ID,
		Name:          r.Name,
		Logo:          r.Logo,
		ShippingCosts: r.ShippingCosts,
		Status:        string(r.Status),
	}
}

type RestaurantResponse struct {
	ID                    uint              `json:"id"`
	Name                  string            `json:"name"`
	Description           *string           `json:"description"`
	Address               string            `json:"address"`
	PostalCode            string            `json:"postalCode"`
	URL                   *string           `json:"url"`
	ShippingCosts         float64           `json:"shippingCosts"`
	AverageServiceMinutes *float64          `json:"averageServiceMinutes"`
	Email                 *string           `json:"email"`
	Phone                 *string           `json:"phone"`
	Logo                  *string           `json:"logo"`
	HeroImage             *string           `json:"heroImage"`
	Status                string            `json:"status"`
	UserID                uint              `json:"userId"`
	RestaurantCategoryID  uint              `json:"restaurantCategoryId"`
	RestaurantCategory    *CategoryResponse `json:"restaurantCategory,omitempty"`
	Products              []ProductResponse `json:"products,omitempty"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

func NewRestaurantResponse(r domain.Restaurant) RestaurantResponse {
	resp := RestaurantResponse{
		ID:                    r.ID,
		Name:                  r.Name,
		Description:           r.Description,
		Address:               r.Address,
		PostalCode:            r.PostalCode,
		URL:                   r.URL,
		ShippingCosts:         r.ShippingCosts,
		AverageServiceMinutes: r.AverageServiceMinutes,
		Email:                 r.Email,
		Phone:                 r.Phone,
		Logo:                  r.Logo,
		HeroImage:             r.HeroImage,
		Status:                string(r.Status),
		UserID:                r.UserID,
		RestaurantCategoryID:  r.RestaurantCategoryID,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	if r.RestaurantCategory != nil {
		resp.RestaurantCategory = &CategoryResponse{ID: r.RestaurantCategory.ID, Name: r.RestaurantCategory.Name}
	}
	if r.Products != nil {
		resp.Products = NewProductResponses(r.Products)
	}
	return resp
}

func NewRestaurantResponses(restaurants []domain.Restaurant) []RestaurantResponse {
	out := make([]RestaurantResponse, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, NewRestaurantResponse(r))
	}
	return out
}

type AnalyticsResponse struct {
	RestaurantID            uint    `json:"restaurantId"`
	NumYesterdayOrders      int     `json:"numYesterdayOrders"`
	NumPendingOrders        int     `json:"numPendingOrders"`
	NumDeliveredTodayOrders int     `json:"numDeliveredTodayOrders"`
	InvoicedToday           float64 `json:"invoicedToday"`
}

func NewAnalyticsResponse(a domain.RestaurantAnalytics) AnalyticsResponse {
	return AnalyticsResponse{
		RestaurantID:            a.RestaurantID,
		NumYesterdayOrders:      a.NumYesterdayOrders,
		NumPendingOrders:        a.NumPendingOrders,
		NumDeliveredTodayOrders: a.NumDeliveredTodayOrders,
		InvoicedToday:           a.InvoicedToday,
	}
}
