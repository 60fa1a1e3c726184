package dto

import (
	"time"

	"deliverus/internal/domain"
)

type ProductRequest struct {
	Name              string  `json:"name" validate:"required,max=255"`
	Description       *string `json:"description"`
	Price             float64 `json:"price" validate:"gte=0"`
	Image             *string `json:"image" validate:"omitempty,max=255"`
	Order             int     `json:"order"`
	Availability      *bool   `json:"availability"`
	RestaurantID      uint    `json:"restaurantId" validate:"required"`
	ProductCategoryID uint    `json:"productCategoryId" validate:"required"`
}

// ToDomain maps the request onto p. Availability defaults to true when the
// request omits it.
func (req ProductRequest) ToDomain(p domain.Product) domain.Product {
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.Image = req.Image
	p.Order = req.Order
	p.RestaurantID = req.RestaurantID
	p.ProductCategoryID = req.ProductCategoryID
	p.Availability = true
	if req.Availability != nil {
		p.Availability = *req.Availability
	}
	return p
}

type ProductResponse struct {
	ID                uint              `json:"id"`
	Name              string            `json:"name"`
	Description       *string           `json:"description"`
	Price             float64           `json:"price"`
	Image             *string           `json:"image"`
	Order             int               `json:"order"`
	Availability      bool              `json:"availability"`
	RestaurantID      uint              `json:"restaurantId"`
	ProductCategoryID uint              `json:"productCategoryId"`
	ProductCategory   *CategoryResponse `json:"productCategory,omitempty"`
	SoldUnits         *int              `json:"soldUnits,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func NewProductResponse(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		Image:             p.Image,
		Order:             p.Order,
		Availability:      p.Availability,
		RestaurantID:      p.RestaurantID,
		ProductCategoryID: p.ProductCategoryID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.ProductCategory != nil {
		resp.ProductCategory = &CategoryResponse{ID: p.ProductCategory.ID, Name: p.ProductCategory.Name}
	}
	return resp
}

func NewProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}

func NewPopularProductResponses(products []domain.PopularProduct) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp := NewProductResponse(p.Product)
		sold := p.SoldUnits
		resp.SoldUnits = &sold
		out = append(out, resp)
	}
	return out
}
