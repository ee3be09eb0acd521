package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"asebot-gateway/internal/config"
	"asebot-gateway/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance. Specialized
// routes come first; everything else falls through to the generic proxy.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, proxy *ProxyHandler, login *LoginHandler, analysis *AnalysisHandler, health *HealthHandler) {
	e.GET("/health", health.Health)
	e.GET("/gateway/status", health.Status)

	e.POST("/api/login", login.Login)
	e.POST("/api/analysis/market", analysis.Market)

	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(
			promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
		))
	}

	e.GET("/", proxy.Root)
	e.Any("/*", proxy.Handle)
	// e.Any only covers Echo's fixed method list; this catch-all picks up
	// requests with non-standard methods (e.g. PURGE) so they forward too.
	e.RouteNotFound("/*", proxy.Handle)
}
