package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"deliverus/internal/domain"
	"deliverus/internal/dto"
	apperrors "deliverus/internal/errors"
	"deliverus/internal/infrastructure/token"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) (uint, error)
	UpdateProfile(ctx context.Context, u domain.User) error
	UpdateToken(ctx context.Context, id uint, token *string, expiresAt *time.Time) error
	Delete(ctx context.Context, id uint) error
	CountOrders(ctx context.Context, userID uint) (int, error)
	CountRestaurants(ctx context.Context, userID uint) (int, error)
}

type TokenManager interface {
	Issue(u domain.User) (string, time.Time, error)
	Parse(raw string) (*token.Claims, error)
}

type LoginRecorder interface {
	RecordLogin(userType string, success bool)
}

type UserUseCase struct {
	repo       UserRepository
	tokens     TokenManager
	metrics    LoginRecorder
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

func NewUserUseCase(
	repo UserRepository,
	tokens TokenManager,
	metrics LoginRecorder,
	logger *zap.Logger,
	bcryptCost int,
) *UserUseCase {
	return &UserUseCase{
		repo:       repo,
		tokens:     tokens,
		metrics:    metrics,
		logger:     logger,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates a user of the given type and logs it in.
func (uc *UserUseCase) Register(ctx context.Context, req dto.RegisterRequest, userType domain.UserType) (*domain.User, error) {
	if _, err := uc.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "email",
			Message: "email is already in use",
		})
	} else if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := domain.User{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   string(hash),
		Phone:      req.Phone,
		Avatar:     req.Avatar,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		UserType:   userType,
	}
	id, err := uc.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	uc.logger.Info("user registered", zap.Uint("userId", id), zap.String("userType", string(userType)))

	return uc.startSession(ctx, id)
}

// Login checks credentials for a user of the given type. Unknown emails,
// wrong passwords and the wrong user type are indistinguishable to the caller.
func (uc *UserUseCase) Login(ctx context.Context, email, password string, userType domain.UserType) (*domain.User, error) {
	fail := func() (*domain.User, error) {
		uc.metrics.RecordLogin(string(userType), false)
		return nil, apperrors.NewUnauthorizedError("Wrong credentials")
	}

	u, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return fail()
		}
		return nil, err
	}
	if u.UserType != userType {
		return fail()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return fail()
	}

	session, err := uc.startSession(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordLogin(string(userType), true)
	return session, nil
}

func (uc *UserUseCase) startSession(ctx context.Context, userID uint) (*domain.User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, expiresAt, err := uc.tokens.Issue(*u)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateToken(ctx, u.ID, &raw, &expiresAt); err != nil {
		return nil, err
	}

	u.Token = &raw
	u.TokenExpiration = &expiresAt
	return u, nil
}

// AuthenticateByToken verifies the token signature, then requires it to be
// the session currently stored for the user. A newer login invalidates it.
func (uc *UserUseCase) AuthenticateByToken(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := uc.tokens.Parse(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid token")
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid token")
	}

	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewUnauthorizedError("Invalid token")
		}
		return nil, err
	}
	if !u.TokenMatches(raw, uc.now()) {
		return nil, apperrors.NewUnauthorizedError("Token expired or superseded")
	}
	return u, nil
}

func (uc *UserUseCase) Show(ctx context.Context, id uint) (*domain.User, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *UserUseCase) Update(ctx context.Context, current domain.User, req dto.UpdateUserRequest) (*domain.User, error) {
	current.FirstName = req.FirstName
	current.LastName = req.LastName
	current.Phone = req.Phone
	current.Avatar = req.Avatar
	current.Address = req.Address
	current.PostalCode = req.PostalCode

	if err := uc.repo.UpdateProfile(ctx, current); err != nil {
		return nil, err
	}
	return uc.repo.FindByID(ctx, current.ID)
}

// Delete removes the account unless it still owns orders or restaurants.
func (uc *UserUseCase) Delete(ctx context.Context, u domain.User) error {
	switch u.UserType {
	case domain.UserTypeCustomer:
		n, err := uc.repo.CountOrders(ctx, u.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.NewConflictError("The user has orders and cannot be deleted")
		}
	case domain.UserTypeOwner:
		n, err := uc.repo.CountRestaurants(ctx, u.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.NewConflictError("The user has restaurants and cannot be deleted")
		}
	}

	if err := uc.repo.Delete(ctx, u.ID); err != nil {
		return err
	}
	uc.logger.Info("user deleted", zap.Uint("userId", u.ID))
	return nil
}
