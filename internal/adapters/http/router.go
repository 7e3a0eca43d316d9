package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-catalog/internal/app"
	"github.com/jsamuelsen/quote-catalog/internal/platform/config"
	"github.com/jsamuelsen/quote-catalog/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains everything needed to wire routes and middleware.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// AdminConfig controls the operator gate on mutating routes.
	AdminConfig *config.AdminConfig

	// Admin validates the operator credential.
	Admin *app.AdminService

	// QuoteHandler serves the catalog endpoints.
	QuoteHandler *handlers.QuoteHandler

	// FavoriteHandler serves the per-visitor favorite endpoints.
	FavoriteHandler *handlers.FavoriteHandler

	// AdminHandler serves the credential check endpoint.
	AdminHandler *handlers.AdminHandler

	// ImportHandler serves the bulk-import pipeline.
	ImportHandler *handlers.ImportHandler

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. Timeout - request deadline on the API group
//
// Route groups:
//   - /-/ (internal): health endpoints, no auth required
//   - /api/ (public): catalog, favorites, admin and import endpoints;
//     mutating routes sit behind the admin gate
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	// Health endpoints skip auth and the API timeout so probes stay cheap.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("/api")
	if cfg.Timeout > 0 {
		api.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	gate := middleware.AdminGate(cfg.Admin, cfg.AdminConfig != nil && cfg.AdminConfig.Enabled)

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(api, gate)
	}

	if cfg.FavoriteHandler != nil {
		cfg.FavoriteHandler.RegisterFavoriteRoutes(api)
	}

	if cfg.AdminHandler != nil {
		cfg.AdminHandler.RegisterAdminRoutes(api)
	}

	if cfg.ImportHandler != nil {
		cfg.ImportHandler.RegisterImportRoutes(api, gate)
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
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}
