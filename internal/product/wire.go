package product

import (
	"database/sql"

	"go.uber.org/zap"

	"deliverus/internal/category"
	"deliverus/internal/product/controller"
	productmw "deliverus/internal/product/middleware"
	"deliverus/internal/product/repository"
	"deliverus/internal/product/usecase"
	restaurantrepo "deliverus/internal/restaurant/repository"
)

type Module struct {
	Controller *controller.Controller
	Guards     *productmw.Guards
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	categoryRepo := category.NewProductCategoryRepository(db)
	restaurantRepo := restaurantrepo.NewMySQLRestaurantRepository(db)

	uc := usecase.NewProductUseCase(repo, categoryRepo, restaurantRepo, logger)

	return &Module{
		Controller: controller.NewController(uc, logger),
		Guards:     productmw.NewGuards(repo, restaurantRepo, logger),
	}
}
