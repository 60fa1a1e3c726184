package controller

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	"deliverus/internal/middleware"
	productmw "deliverus/internal/product/middleware"
	"deliverus/internal/request"
	"deliverus/internal/response"
)

type ProductUseCase interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Popular(ctx context.Context) ([]domain.PopularProduct, error)
	Show(ctx context.Context, id uint) (*domain.Product, error)
	Create(ctx context.Context, owner domain.User, req dto.ProductRequest) (*domain.Product, error)
	Update(ctx context.Context, owner domain.User, current domain.Product, req dto.ProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, id uint) error
}

type Controller struct {
	useCase ProductUseCase
	logger  *zap.Logger
}

func NewController(useCase ProductUseCase, logger *zap.Logger) *Controller {
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

func (c *Controller) Popular(w http.ResponseWriter, r *http.Request) {
	products, err := c.useCase.Popular(r.Context())
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewPopularProductResponses(products))
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "productId")
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	p, err := c.useCase.Show(r.Context(), id)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewProductResponse(*p))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.UserFromContext(r.Context())

	var req dto.ProductRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	p, err := c.useCase.Create(r.Context(), *owner, req)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewProductResponse(*p))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.UserFromContext(r.Context())
	current, _ := productmw.ProductFromContext(r.Context())

	var req dto.ProductRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	p, err := c.useCase.Update(r.Context(), *owner, *current, req)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewProductResponse(*p))
}

func (c *Controller) Destroy(w http.ResponseWriter, r *http.Request) {
	current, _ := productmw.ProductFromContext(r.Context())

	if err := c.useCase.Delete(r.Context(), current.ID); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.Message(w, r, http.StatusOK, fmt.Sprintf("Successfully deleted product id %d.", current.ID))
}
