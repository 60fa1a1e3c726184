package order

import (
	"database/sql"

	"go.uber.org/zap"

	"deliverus/internal/config"
	"deliverus/internal/infrastructure/metrics"
	"deliverus/internal/order/controller"
	ordermw "deliverus/internal/order/middleware"
	orderrepo "deliverus/internal/order/repository"
	"deliverus/internal/order/service"
	"deliverus/internal/order/usecase"
	productrepo "deliverus/internal/product/repository"
	productsvc "deliverus/internal/product/service"
	restaurantrepo "deliverus/internal/restaurant/repository"
)

type Module struct {
	Controller *controller.OrderController
	Guards     *ordermw.Guards
}

func NewModule(db *sql.DB, cfg config.OrderConfig, m *metrics.Metrics, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	lineRepo := orderrepo.NewMySQLOrderProductRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)
	restaurantRepo := restaurantrepo.NewMySQLRestaurantRepository(db)

	orderSvc := service.NewOrderService(db, productRepo, lineRepo, orderRepo, logger, cfg.TxTimeout)

	uc := usecase.NewOrderUseCase(
		orderRepo,
		restaurantRepo,
		productsvc.NewService(productRepo),
		orderSvc,
		m,
		logger,
		cfg.MaxRetryAttempts,
	)

	return &Module{
		Controller: controller.NewOrderController(uc, logger),
		Guards:     ordermw.NewGuards(orderRepo, restaurantRepo, logger),
	}
}
