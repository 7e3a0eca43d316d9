package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-catalog/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quote-catalog/internal/app"
	"github.com/jsamuelsen/quote-catalog/internal/platform/config"
	"github.com/jsamuelsen/quote-catalog/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T, adminEnabled bool) *gin.Engine {
	t.Helper()

	store, err := sqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog := app.NewCatalogService(app.CatalogServiceConfig{Quotes: store, Logger: logger})
	favorites := app.NewFavoritesService(app.FavoritesServiceConfig{Quotes: store, Favorites: store, Logger: logger})
	admin := app.NewAdminService(app.AdminServiceConfig{Username: "admin", Password: "pw", Logger: logger})
	imports := app.NewImportService(app.ImportServiceConfig{Quotes: store, Logger: logger})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(store))

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:          logger,
		AppConfig:       &config.AppConfig{Name: "quote-catalog", Version: "test", Environment: "test"},
		AdminConfig:     &config.AdminConfig{Enabled: adminEnabled, Username: "admin", Password: "pw"},
		Admin:           admin,
		QuoteHandler:    handlers.NewQuoteHandler(catalog, imports),
		FavoriteHandler: handlers.NewFavoriteHandler(favorites, catalog),
		AdminHandler:    handlers.NewAdminHandler(admin),
		ImportHandler:   handlers.NewImportHandler(imports, 100),
		HealthHandler:   handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now")),
		Timeout:         DefaultRequestTimeout,
	})

	return engine
}

func TestSetupRouter_RouteTree(t *testing.T) {
	engine := newTestEngine(t, false)

	expected := []string{
		"GET /-/live",
		"GET /-/ready",
		"GET /-/build",
		"GET /-/metrics",
		"GET /api/quotes",
		"POST /api/quotes",
		"GET /api/quotes/:id",
		"PUT /api/quotes/:id",
		"DELETE /api/quotes/:id",
		"POST /api/quotes/batch",
		"GET /api/quotes/category/:category",
		"GET /api/categories",
		"POST /api/quotes/:id/favorite",
		"DELETE /api/quotes/:id/favorite",
		"GET /api/favorites",
		"POST /api/admin/login",
		"POST /api/import",
		"GET /api/import/:batch",
		"DELETE /api/import/:batch",
		"POST /api/import/:batch/rows",
		"PUT /api/import/:batch/rows/:index",
		"DELETE /api/import/:batch/rows/:index",
		"POST /api/import/:batch/submit",
	}

	routeMap := make(map[string]bool)
	for _, r := range engine.Routes() {
		routeMap[r.Method+" "+r.Path] = true
	}

	for _, route := range expected {
		assert.True(t, routeMap[route], "missing route: %s", route)
	}
}

func TestSetupRouter_HealthAndRequestID(t *testing.T) {
	engine := newTestEngine(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/-/live", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestSetupRouter_AdminGate(t *testing.T) {
	t.Run("gate disabled leaves mutating routes open", func(t *testing.T) {
		engine := newTestEngine(t, false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/quotes",
			strings.NewReader(`{"text":"Open door","author":"Anyone","category":"misc"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("gate enabled requires basic auth", func(t *testing.T) {
		engine := newTestEngine(t, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/quotes",
			strings.NewReader(`{"text":"Locked door","author":"Anyone","category":"misc"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/quotes",
			strings.NewReader(`{"text":"Locked door","author":"Anyone","category":"misc"}`))
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth("admin", "pw")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("reads stay open with gate enabled", func(t *testing.T) {
		engine := newTestEngine(t, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestServerLifecycle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.ServerConfig{
		Port:            0,
		Host:            "127.0.0.1",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  1 << 20,
	}

	server := New(cfg, logger)
	require.NotNil(t, server.Engine())
	assert.Equal(t, "127.0.0.1:0", server.Addr())
}
