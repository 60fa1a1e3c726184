package restaurant

import (
	"database/sql"

	"go.uber.org/zap"

	"deliverus/internal/category"
	orderrepo "deliverus/internal/order/repository"
	productrepo "deliverus/internal/product/repository"
	"deliverus/internal/restaurant/controller"
	restaurantmw "deliverus/internal/restaurant/middleware"
	"deliverus/internal/restaurant/repository"
	"deliverus/internal/restaurant/usecase"
)

type Module struct {
	Controller *controller.Controller
	Guards     *restaurantmw.Guards
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRestaurantRepository(db)

	uc := usecase.NewRestaurantUseCase(
		repo,
		category.NewRestaurantCategoryRepository(db),
		productrepo.NewMySQLRepository(db),
		orderrepo.NewMySQLOrderRepository(db),
		logger,
	)

	return &Module{
		Controller: controller.NewController(uc, logger),
		Guards:     restaurantmw.NewGuards(repo, logger),
	}
}
