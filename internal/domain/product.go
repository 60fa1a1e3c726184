package domain

import (
	"fmt"
	"time"

	apperrors "deliverus/internal/errors"
)

type Product struct {
	ID                uint
	Name              string
	Description       *string
	Price             float64
	Image             *string
	Order             int
	Availability      bool
	RestaurantID      uint
	ProductCategoryID uint
	ProductCategory   *Category
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CheckOrderable rejects a product that cannot go into an order placed
// against restaurantID. Unavailability is reported first.
func (p Product) CheckOrderable(restaurantID uint) error {
	switch {
	case !p.Availability:
		return invalidProducts("Products are not available.")
	case p.RestaurantID != restaurantID:
		return invalidProducts("Products do not belong to the same Restaurant")
	}
	return nil
}

func ProductMissing(id uint) error {
	return invalidProducts(fmt.Sprintf("Product %d does not exist.", id))
}

func invalidProducts(message string) error {
	return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
		Field:   "products",
		Message: message,
	})
}

// PopularProduct is a product together with the units sold across all orders.
type PopularProduct struct {
	Product
	SoldUnits int
}
