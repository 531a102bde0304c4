package app

import (
	"go.uber.org/zap"

	"github.com/asaikali/money-mate/config"
	"github.com/asaikali/money-mate/handlers"
	"github.com/asaikali/money-mate/middleware"
	"github.com/asaikali/money-mate/obp"
	"github.com/asaikali/money-mate/services"
	"github.com/asaikali/money-mate/session"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Core infrastructure
	Store         *session.MemoryStore
	Gateway       *obp.Client
	ServiceAuth   *obp.ServiceAuthenticator
	ServiceClient *obp.ServiceClient

	// Services
	SessionService *services.SessionService

	// Middleware
	Auth *middleware.Auth

	// Handlers
	Sessions     *handlers.SessionHandler
	Users        *handlers.UserHandler
	Accounts     *handlers.AccountHandler
	Transactions *handlers.TransactionHandler
	Banks        *handlers.BankHandler
	Docs         *handlers.DocsHandler
	Health       *handlers.HealthHandler
}

// NewDependencies creates and wires all application dependencies
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	gatewayCfg := obp.Config{
		BaseURL:        cfg.OBP.BaseURL,
		APIVersion:     cfg.OBP.APIVersion,
		ConsumerKey:    cfg.OBP.Auth.ConsumerKey,
		ConnectTimeout: cfg.OBP.ConnectTimeout,
		ReadTimeout:    cfg.OBP.ReadTimeout,
	}
	gateway := obp.NewClient(gatewayCfg, logger)

	store := session.NewMemoryStore()
	sessionService := services.NewSessionService(gateway, store, logger)
	auth := middleware.NewAuth(store, logger)

	// Service-scoped access is optional: without configured service
	// credentials the application still serves user sessions, it just
	// cannot probe OBP from readiness checks.
	var (
		serviceAuth   *obp.ServiceAuthenticator
		serviceClient *obp.ServiceClient
	)
	if cfg.OBP.Auth.Username != "" && cfg.OBP.Auth.Password != "" {
		serviceAuth = obp.NewServiceAuthenticator(gateway, cfg.OBP.Auth.Username, cfg.OBP.Auth.Password, logger)
		serviceClient = obp.NewServiceClient(gatewayCfg, serviceAuth, logger)
	} else {
		logger.Warn("no OBP service credentials configured; service-scoped calls disabled")
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,

		Store:         store,
		Gateway:       gateway,
		ServiceAuth:   serviceAuth,
		ServiceClient: serviceClient,

		SessionService: sessionService,

		Auth: auth,

		Sessions:     handlers.NewSessionHandler(sessionService, logger),
		Users:        handlers.NewUserHandler(gateway, logger),
		Accounts:     handlers.NewAccountHandler(gateway, logger),
		Transactions: handlers.NewTransactionHandler(gateway, logger),
		Banks:        handlers.NewBankHandler(gateway, logger),
		Docs:         handlers.NewDocsHandler(logger),
		Health:       handlers.NewHealthHandler(serviceClient, logger),
	}

	logger.Info("application dependencies initialized",
		zap.String("environment", cfg.Environment),
		zap.String("obp_base_url", cfg.OBP.BaseURL),
		zap.Bool("service_credentials", serviceAuth != nil))

	return deps, nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close() error {
	d.Logger.Info("shutting down application dependencies")
	return d.Logger.Sync()
}
