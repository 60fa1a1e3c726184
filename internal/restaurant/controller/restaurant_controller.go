package controller

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	"deliverus/internal/middleware"
	restaurantmw "deliverus/internal/restaurant/middleware"
	"deliverus/internal/request"
	"deliverus/internal/response"
)

type RestaurantUseCase interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Index(ctx context.Context) ([]domain.Restaurant, error)
	MyRestaurants(ctx context.Context, owner domain.User) ([]domain.Restaurant, error)
	Show(ctx context.Context, id uint) (*domain.Restaurant, error)
	Create(ctx context.Context, owner domain.User, req dto.RestaurantRequest) (*domain.Restaurant, error)
	Update(ctx context.Context, current domain.Restaurant, req dto.RestaurantRequest) (*domain.Restaurant, error)
	Delete(ctx context.Context, id uint) error
	Orders(ctx context.Context, restaurantID uint) ([]domain.Order, error)
	Analytics(ctx context.Context, restaurantID uint) (*domain.RestaurantAnalytics, error)
}

type Controller struct {
	useCase RestaurantUseCase
	logger  *zap.Logger
}

func NewController(useCase RestaurantUseCase, logger *zap.Logger) *Controller {
	return &Controller{useCase: useCase, logger: logger}
}

func (c *Controller) IndexCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.useCase.Categories(r.Context())
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewCategoryResponses(categories))
}

func (c *Controller) Index(w http.ResponseWriter, r *http.Request) {
	restaurants, err := c.useCase.Index(r.Context())
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewRestaurantResponses(restaurants))
}

func (c *Controller) IndexOwner(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.UserFromContext(r.Context())

	restaurants, err := c.useCase.MyRestaurants(r.Context(), *owner)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewRestaurantResponses(restaurants))
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "restaurantId")
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	restaurant, err := c.useCase.Show(r.Context(), id)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewRestaurantResponse(*restaurant))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.UserFromContext(r.Context())

	var req dto.RestaurantRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	restaurant, err := c.useCase.Create(r.Context(), *owner, req)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewRestaurantResponse(*restaurant))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := restaurantmw.RestaurantFromContext(r.Context())

	var req dto.RestaurantRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	restaurant, err := c.useCase.Update(r.Context(), *current, req)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewRestaurantResponse(*restaurant))
}

func (c *Controller) Destroy(w http.ResponseWriter, r *http.Request) {
	current, _ := restaurantmw.RestaurantFromContext(r.Context())

	if err := c.useCase.Delete(r.Context(), current.ID); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.Message(w, r, http.StatusOK, fmt.Sprintf("Successfully deleted restaurant id %d.", current.ID))
}

func (c *Controller) IndexOrders(w http.ResponseWriter, r *http.Request) {
	current, _ := restaurantmw.RestaurantFromContext(r.Context())

	orders, err := c.useCase.Orders(r.Context(), current.ID)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewOrderResponses(orders))
}

func (c *Controller) Analytics(w http.ResponseWriter, r *http.Request) {
	current, _ := restaurantmw.RestaurantFromContext(r.Context())

	analytics, err := c.useCase.Analytics(r.Context(), current.ID)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewAnalyticsResponse(*analytics))
}
