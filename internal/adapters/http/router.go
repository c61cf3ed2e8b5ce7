package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pictoboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/pictoboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/pictoboard/internal/platform/config"
	"github.com/jsamuelsen/pictoboard/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// APIHandlers groups the handlers mounted under /api/v1. Nil handlers are
// skipped.
type APIHandlers struct {
	Boards      *handlers.BoardHandler
	Symbols     *handlers.SymbolHandler
	Library     *handlers.LibraryHandler
	Preferences *handlers.PreferencesHandler
}

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// API holds the board API handlers.
	API APIHandlers

	// Timeout is the deadline placed on each API request.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - seed the request context with the base logger
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - carry the caller's correlation ID
//  5. OpenTelemetry - tracing and metrics
//  6. Logging - request logging (skips health endpoints)
//  7. Timeout - request deadline on /api/v1 only
//
// Route groups:
//   - /-/ (internal): health, build info and metrics
//   - /api/v1/: boards, symbol search, library and preferences
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging(cfg.Logger))

	// Probes get no timeout.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg.API)
}

func setupAPIRoutes(rg *gin.RouterGroup, api APIHandlers) {
	if api.Boards != nil {
		api.Boards.RegisterBoardRoutes(rg)
	}
	if api.Symbols != nil {
		api.Symbols.RegisterSymbolRoutes(rg)
	}
	if api.Library != nil {
		api.Library.RegisterLibraryRoutes(rg)
	}
	if api.Preferences != nil {
		api.Preferences.RegisterPreferenceRoutes(rg)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterRoutes(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	api APIHandlers,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		API:           api,
		Timeout:       DefaultRequestTimeout,
	}
}
