package domain

import "time"

type RestaurantStatus string

const (
	RestaurantStatusOnline            RestaurantStatus = "online"
	RestaurantStatusOffline           RestaurantStatus = "offline"
	RestaurantStatusClosed            RestaurantStatus = "closed"
	RestaurantStatusTemporarilyClosed RestaurantStatus = "temporarily closed"
)

func (s RestaurantStatus) Valid() bool {
	switch s {
	case RestaurantStatusOnline, RestaurantStatusOffline, RestaurantStatusClosed, RestaurantStatusTemporarilyClosed:
		return true
	}
	return false
}

// Category is shared by restaurant and product categories; both are plain
// id/name lookup tables.
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Restaurant struct {
	ID                    uint
	Name                  string
	Description           *string
	Address               string
	PostalCode            string
	URL                   *string
	ShippingCosts         float64
	AverageServiceMinutes *float64
	Email                 *string
	Phone                 *string
	Logo                  *string
	HeroImage             *string
	Status                RestaurantStatus
	UserID                uint
	RestaurantCategoryID  uint
	RestaurantCategory    *Category
	Products              []Product
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (r Restaurant) OwnedBy(userID uint) bool {
	return r.UserID == userID
}

type RestaurantAnalytics struct {
	RestaurantID            uint
	NumYesterdayOrders      int
	NumPendingOrders        int
	NumDeliveredTodayOrders int
	InvoicedToday           float64
}
