package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	apperrors "deliverus/internal/errors"
)

type RestaurantRepository interface {
	FindAll(ctx context.Context) ([]domain.Restaurant, error)
	FindByOwner(ctx context.Context, userID uint) ([]domain.Restaurant, error)
	FindByID(ctx context.Context, id uint) (*domain.Restaurant, error)
	Create(ctx context.Context, r domain.Restaurant) (uint, error)
	Update(ctx context.Context, r domain.Restaurant) error
	Delete(ctx context.Context, id uint) error
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type ProductRepository interface {
	FindByRestaurant(ctx context.Context, restaurantID uint) ([]domain.Product, error)
}

type OrderRepository interface {
	FindByRestaurant(ctx context.Context, restaurantID uint) ([]domain.Order, error)
	Analytics(ctx context.Context, restaurantID uint, today time.Time) (*domain.RestaurantAnalytics, error)
}

type RestaurantUseCase struct {
	restaurants RestaurantRepository
	categories  CategoryRepository
	products    ProductRepository
	orders      OrderRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewRestaurantUseCase(
	restaurants RestaurantRepository,
	categories CategoryRepository,
	products ProductRepository,
	orders OrderRepository,
	logger *zap.Logger,
) *RestaurantUseCase {
	return &RestaurantUseCase{
		restaurants: restaurants,
		categories:  categories,
		products:    products,
		orders:      orders,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *RestaurantUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.FindAll(ctx)
}

func (uc *RestaurantUseCase) Index(ctx context.Context) ([]domain.Restaurant, error) {
	return uc.restaurants.FindAll(ctx)
}

func (uc *RestaurantUseCase) MyRestaurants(ctx context.Context, owner domain.User) ([]domain.Restaurant, error) {
	return uc.restaurants.FindByOwner(ctx, owner.ID)
}

// Show returns the restaurant with its menu.
func (uc *RestaurantUseCase) Show(ctx context.Context, id uint) (*domain.Restaurant, error) {
	r, err := uc.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.FindByRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Products = products
	return r, nil
}

func (uc *RestaurantUseCase) Create(ctx context.Context, owner domain.User, req dto.RestaurantRequest) (*domain.Restaurant, error) {
	if err := uc.checkCategory(ctx, req.RestaurantCategoryID); err != nil {
		return nil, err
	}

	r := req.ToDomain(domain.Restaurant{Status: domain.RestaurantStatusOffline})
	r.UserID = owner.ID

	id, err := uc.restaurants.Create(ctx, r)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("restaurant created", zap.Uint("restaurantId", id), zap.Uint("userId", owner.ID))
	return uc.restaurants.FindByID(ctx, id)
}

func (uc *RestaurantUseCase) Update(ctx context.Context, current domain.Restaurant, req dto.RestaurantRequest) (*domain.Restaurant, error) {
	if err := uc.checkCategory(ctx, req.RestaurantCategoryID); err != nil {
		return nil, err
	}

	r := req.ToDomain(current)
	if err := uc.restaurants.Update(ctx, r); err != nil {
		return nil, err
	}
	return uc.restaurants.FindByID(ctx, r.ID)
}

func (uc *RestaurantUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.restaurants.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("restaurant deleted", zap.Uint("restaurantId", id))
	return nil
}

func (uc *RestaurantUseCase) Orders(ctx context.Context, restaurantID uint) ([]domain.Order, error) {
	return uc.orders.FindByRestaurant(ctx, restaurantID)
}

// Analytics counts against UTC calendar days.
func (uc *RestaurantUseCase) Analytics(ctx context.Context, restaurantID uint) (*domain.RestaurantAnalytics, error) {
	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return uc.orders.Analytics(ctx, restaurantID, today)
}

func (uc *RestaurantUseCase) checkCategory(ctx context.Context, id uint) error {
	ok, err := uc.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "restaurantCategoryId",
			Message: "The restaurant category does not exist.",
		})
	}
	return nil
}
