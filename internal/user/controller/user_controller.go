package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	"deliverus/internal/middleware"
	"deliverus/internal/request"
	"deliverus/internal/response"
)

type UserUseCase interface {
	Register(ctx context.Context, req dto.RegisterRequest, userType domain.UserType) (*domain.User, error)
	Login(ctx context.Context, email, password string, userType domain.UserType) (*domain.User, error)
	AuthenticateByToken(ctx context.Context, raw string) (*domain.User, error)
	Show(ctx context.Context, id uint) (*domain.User, error)
	Update(ctx context.Context, current domain.User, req dto.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, u domain.User) error
}

type UserController struct {
	useCase UserUseCase
	logger  *zap.Logger
}

func NewUserController(useCase UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{useCase: useCase, logger: logger}
}

func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	c.register(w, r, domain.UserTypeCustomer)
}

func (c *UserController) RegisterOwner(w http.ResponseWriter, r *http.Request) {
	c.register(w, r, domain.UserTypeOwner)
}

func (c *UserController) register(w http.ResponseWriter, r *http.Request, userType domain.UserType) {
	var req dto.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	u, err := c.useCase.Register(r.Context(), req, userType)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewSessionResponse(*u))
}

func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, domain.UserTypeCustomer)
}

func (c *UserController) LoginOwner(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, domain.UserTypeOwner)
}

func (c *UserController) login(w http.ResponseWriter, r *http.Request, userType domain.UserType) {
	var req dto.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	u, err := c.useCase.Login(r.Context(), req.Email, req.Password, userType)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewSessionResponse(*u))
}

func (c *UserController) IsTokenValid(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	u, err := c.useCase.AuthenticateByToken(r.Context(), req.Token)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewSessionResponse(*u))
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "userId")
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	u, err := c.useCase.Show(r.Context(), id)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewPublicUserResponse(*u))
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.UserFromContext(r.Context())

	var req dto.UpdateUserRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}

	u, err := c.useCase.Update(r.Context(), *current, req)
	if err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dto.NewUserResponse(*u))
}

func (c *UserController) Destroy(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.UserFromContext(r.Context())

	if err := c.useCase.Delete(r.Context(), *current); err != nil {
		response.Error(w, r, c.logger, err)
		return
	}
	response.Message(w, r, http.StatusOK, "Successfully deleted.")
}
