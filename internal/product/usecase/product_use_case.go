package usecase

import (
	"context"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	apperrors "deliverus/internal/errors"
)

// PopularLimit is how many products GET /products/popular returns.
const PopularLimit = 3

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	FindPopular(ctx context.Context, limit int) ([]domain.PopularProduct, error)
	Create(ctx context.Context, p domain.Product) (uint, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id uint) error
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type RestaurantRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Restaurant, error)
}

type ProductUseCase struct {
	products    ProductRepository
	categories  CategoryRepository
	restaurants RestaurantRepository
	logger      *zap.Logger
}

func NewProductUseCase(
	products ProductRepository,
	categories CategoryRepository,
	restaurants RestaurantRepository,
	logger *zap.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		products:    products,
		categories:  categories,
		restaurants: restaurants,
		logger:      logger,
	}
}

func (uc *ProductUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.FindAll(ctx)
}

func (uc *ProductUseCase) Popular(ctx context.Context) ([]domain.PopularProduct, error) {
	return uc.products.FindPopular(ctx, PopularLimit)
}

func (uc *ProductUseCase) Show(ctx context.Context, id uint) (*domain.Product, error) {
	return uc.products.FindByID(ctx, id)
}

func (uc *ProductUseCase) Create(ctx context.Context, owner domain.User, req dto.ProductRequest) (*domain.Product, error) {
	if err := uc.checkTargets(ctx, owner, req); err != nil {
		return nil, err
	}

	p := req.ToDomain(domain.Product{})
	id, err := uc.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("product created", zap.Uint("productId", id), zap.Uint("restaurantId", p.RestaurantID))
	return uc.products.FindByID(ctx, id)
}

// Update assumes the product's current restaurant was already checked
// against owner; the target restaurant is checked here.
func (uc *ProductUseCase) Update(ctx context.Context, owner domain.User, current domain.Product, req dto.ProductRequest) (*domain.Product, error) {
	if err := uc.checkTargets(ctx, owner, req); err != nil {
		return nil, err
	}

	p := req.ToDomain(current)
	if err := uc.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return uc.products.FindByID(ctx, p.ID)
}

func (uc *ProductUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted", zap.Uint("productId", id))
	return nil
}

// checkTargets requires the request's restaurant to belong to owner and its
// category to exist.
func (uc *ProductUseCase) checkTargets(ctx context.Context, owner domain.User, req dto.ProductRequest) error {
	restaurant, err := uc.restaurants.FindByID(ctx, req.RestaurantID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "restaurantId",
				Message: "The restaurant does not exist.",
			})
		}
		return err
	}
	if !restaurant.OwnedBy(owner.ID) {
		return apperrors.NewForbiddenError("Not enough privileges. This entity does not belong to you")
	}

	ok, err := uc.categories.Exists(ctx, req.ProductCategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "productCategoryId",
			Message: "The product category does not exist.",
		})
	}
	return nil
}
