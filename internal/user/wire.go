package user

import (
	"database/sql"

	"go.uber.org/zap"

	"deliverus/internal/config"
	"deliverus/internal/infrastructure/metrics"
	"deliverus/internal/infrastructure/token"
	"deliverus/internal/user/controller"
	"deliverus/internal/user/repository"
	"deliverus/internal/user/usecase"
)

// Module exposes the HTTP handlers and the authenticator that IsLoggedIn
// needs on every protected route.
type Module struct {
	Controller    *controller.UserController
	Authenticator *usecase.UserUseCase
}

func NewModule(db *sql.DB, cfg config.AuthConfig, m *metrics.Metrics, logger *zap.Logger) *Module {
	repo := repository.NewMySQLUserRepository(db)
	tokens := token.NewManager(cfg.JWTSecret, cfg.Issuer, cfg.TokenTTL)
	uc := usecase.NewUserUseCase(repo, tokens, m, logger, cfg.BcryptCost)

	return &Module{
		Controller:    controller.NewUserController(uc, logger),
		Authenticator: uc,
	}
}
