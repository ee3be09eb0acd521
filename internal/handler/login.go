package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"asebot-gateway/internal/model"
	"asebot-gateway/internal/service"
)

// loginPayload is deserialized purely to validate shape before forwarding.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler validates login requests and forwards them to the backend.
type LoginHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
}

// NewLoginHandler creates a LoginHandler.
func NewLoginHandler(svc *service.ProxyService, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		service: svc,
		logger:  logger.With("component", "login_handler"),
	}
}

// Login checks that the body is a well-formed {email, password} document,
// re-serializes it and forwards it to the backend's /api/login. Malformed
// JSON is rejected before any backend call is made.
func (h *LoginHandler) Login(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read request body")
	}

	var payload loginPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login payload")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "encode login payload")
	}

	pr := &model.ProxyRequest{
		Ctx:    c.Request().Context(),
		Method: http.MethodPost,
		Path:   "/api/login",
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   body,
	}

	return relay(c, h.service, h.logger, pr)
}
