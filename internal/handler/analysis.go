package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"asebot-gateway/internal/model"
	"asebot-gateway/internal/service"
)

// AnalysisHandler forwards market-analysis requests to the backend.
type AnalysisHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(svc *service.ProxyService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: svc,
		logger:  logger.With("component", "analysis_handler"),
	}
}

// Market forwards the raw request body to the backend's /api/analysis/market,
// carrying the inbound Content-Type when present.
func (h *AnalysisHandler) Market(c echo.Context) error {
	req := c.Request()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read request body")
	}

	header := make(http.Header)
	if ct := req.Header.Get("Content-Type"); ct != "" {
		header.Set("Content-Type", ct)
	}

	pr := &model.ProxyRequest{
		Ctx:    req.Context(),
		Method: http.MethodPost,
		Path:   "/api/analysis/market",
		Header: header,
		Body:   body,
	}

	return relay(c, h.service, h.logger, pr)
}
