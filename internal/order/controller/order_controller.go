package controller

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	"deliverus/internal/middleware"
	ordermw "deliverus/internal/order/middleware"
	"deliverus/internal/request"
	"deliverus/internal/response"
)

type OrderUseCase interface {
	Index(ctx context.Context, customer domain.User) ([]domain.Order, error)
	Create(ctx context.Context, customer domain.User, req dto.CreateOrderRequest) (*domain.Order, error)
	Update(ctx context.Context, current domain.Order, req dto.UpdateOrderRequest) (*domain.Order, error)
	Confirm(ctx context.Context, id uint) (*domain.Order, error)
	Send(ctx context.Context, id uint) (*domain.Order, error)
	Deliver(ctx context.Context, id uint) (*domain.Order, error)
	Delete(ctx context.Context, id uint) error
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{useCase: useCase, logger: logger}
}

func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	customer, _ := middleware.UserFromContext(r.Context())

	orders, err := c.useCase.Index(r.Context(), *customer)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewOrderResponses(orders))
}

// Show renders the order CheckOrderExists already loaded.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, _ := ordermw.OrderFromContext(r.Context())
	response.JSON(w, r, http.StatusOK, dto.NewOrderResponse(*order))
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	customer, _ := middleware.UserFromContext(r.Context())

	var req dto.CreateOrderRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	order, err := c.useCase.Create(r.Context(), *customer, req)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewOrderResponse(*order))
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := ordermw.OrderFromContext(r.Context())

	var req dto.UpdateOrderRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	order, err := c.useCase.Update(r.Context(), *current, req)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewOrderResponse(*order))
}

func (c *OrderController) Confirm(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.useCase.Confirm)
}

func (c *OrderController) Send(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.useCase.Send)
}

func (c *OrderController) Deliver(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.useCase.Deliver)
}

func (c *OrderController) transition(w http.ResponseWriter, r *http.Request, move func(ctx context.Context, id uint) (*domain.Order, error)) {
	current, _ := ordermw.OrderFromContext(r.Context())

	order, err := move(r.Context(), current.ID)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewOrderResponse(*order))
}

func (c *OrderController) Destroy(w http.ResponseWriter, r *http.Request) {
	current, _ := ordermw.OrderFromContext(r.Context())

	if err := c.useCase.Delete(r.Context(), current.ID); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.Message(w, r, http.StatusOK, fmt.Sprintf("Successfully deleted order id %d.", current.ID))
}
