package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"asebot-gateway/internal/model"
	"asebot-gateway/internal/service"
)

// gatewayError is the fixed JSON body returned when the backend is unreachable.
type gatewayError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ProxyHandler forwards requests that match no specialized route.
type ProxyHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(svc *service.ProxyService, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
	}
}

// Handle forwards the request verbatim to the backend: same method, same path,
// same query string.
func (h *ProxyHandler) Handle(c echo.Context) error {
	req := c.Request()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read request body")
	}

	pr := &model.ProxyRequest{
		Ctx:      req.Context(),
		Method:   req.Method,
		Path:     req.URL.Path,
		RawQuery: req.URL.RawQuery,
		Header:   req.Header,
		Body:     body,
	}

	return relay(c, h.service, h.logger, pr)
}

// Root forwards a GET against "/" with an empty body, so the root path behaves
// like any other forwarded path instead of being swallowed by routing.
func (h *ProxyHandler) Root(c echo.Context) error {
	req := c.Request()

	pr := &model.ProxyRequest{
		Ctx:      req.Context(),
		Method:   http.MethodGet,
		Path:     "/",
		RawQuery: req.URL.RawQuery,
		Header:   req.Header,
	}

	return relay(c, h.service, h.logger, pr)
}

// relay runs a ProxyRequest through the forwarding engine and writes the
// result. Every route shares this path, so transport failures map to the same
// 502 backend_error body everywhere, timeouts included.
func relay(c echo.Context, svc *service.ProxyService, logger *slog.Logger, pr *model.ProxyRequest) error {
	resp, err := svc.Forward(pr)
	if err != nil {
		logger.Error("backend request failed",
			"err", err,
			"method", pr.Method,
			"path", pr.Path,
		)
		return c.JSON(http.StatusBadGateway, gatewayError{
			Error:   "backend_error",
			Message: err.Error(),
		})
	}

	out := c.Response().Header()
	for key, vals := range resp.Header {
		for _, v := range vals {
			out.Add(key, v)
		}
	}

	c.Response().WriteHeader(resp.StatusCode)

	if _, err := c.Response().Write(resp.Body); err != nil {
		// Status and headers are already on the wire; the client sees a
		// truncated body. Log and move on.
		logger.Error("writing response body",
			"err", err,
			"path", pr.Path,
		)
	}

	return nil
}
