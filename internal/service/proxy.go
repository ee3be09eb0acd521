// Package service implements the core forwarding engine.
package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"asebot-gateway/internal/client"
	"asebot-gateway/internal/config"
	"asebot-gateway/internal/model"
)

// forwardableRequestHeaders are the only request headers forwarded to the
// backend. This is an allow-list, not a deny-list: anything not named here
// (tracing headers, proxy headers, Accept-Language, ...) is dropped so that
// internal routing metadata never leaks upstream.
var forwardableRequestHeaders = []string{
	"Authorization",
	"Content-Type",
	"Cookie",
	"X-Csrf-Token",
}

// ProxyService translates inbound requests into backend requests and backend
// responses into outbound responses.
type ProxyService struct {
	client  *client.BackendClient
	logger  *slog.Logger
	baseURL string
}

// NewProxyService creates a ProxyService targeting the configured backend.
func NewProxyService(c *client.BackendClient, cfg *config.Config, logger *slog.Logger) (*ProxyService, error) {
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend base_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend base_url %q has no scheme or host", cfg.Backend.BaseURL)
	}

	return &ProxyService{
		client:  c,
		logger:  logger.With("component", "proxy_service"),
		baseURL: strings.TrimSuffix(u.String(), "/"),
	}, nil
}

// Forward sends a ProxyRequest to the backend and returns the translated
// response. All routes share this single path: specialized handlers differ
// only in the ProxyRequest they build (fixed path, pre-validated body).
//
// GET requests are always sent without a body, even when the caller supplied
// one. A backend status outside the valid HTTP range falls back to 502.
func (s *ProxyService) Forward(pr *model.ProxyRequest) (*model.ProxyResponse, error) {
	backendURL := s.buildBackendURL(pr.Path, pr.RawQuery)
	header := filterRequestHeaders(pr.Header)

	body := pr.Body
	if pr.Method == http.MethodGet {
		body = nil
	}

	s.logger.Debug("forwarding request",
		"method", pr.Method,
		"path", pr.Path,
	)

	resp, err := s.client.Do(pr.Ctx, pr.Method, backendURL, header, body)
	if err != nil {
		return nil, fmt.Errorf("forward to backend: %w", err)
	}

	if resp.StatusCode < 100 || resp.StatusCode > 599 {
		resp.StatusCode = http.StatusBadGateway
	}
	resp.Header = filterResponseHeaders(resp.Header)
	return resp, nil
}

// buildBackendURL concatenates the backend base with the inbound path and
// appends the query string verbatim. No re-encoding: the backend receives the
// exact bytes the caller sent.
func (s *ProxyService) buildBackendURL(path, rawQuery string) string {
	u := s.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

// filterRequestHeaders copies the allow-listed headers, keeping every value
// for names that repeat (e.g. Cookie).
func filterRequestHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	for _, key := range forwardableRequestHeaders {
		if vals := src.Values(key); len(vals) > 0 {
			dst[http.CanonicalHeaderKey(key)] = vals
		}
	}
	return dst
}

// filterResponseHeaders keeps Content-Type and Location (single-valued) and
// every Set-Cookie occurrence in its original order. Everything else is
// dropped.
func filterResponseHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	if ct := src.Get("Content-Type"); ct != "" {
		dst.Set("Content-Type", ct)
	}
	if loc := src.Get("Location"); loc != "" {
		dst.Set("Location", loc)
	}
	if cookies := src.Values("Set-Cookie"); len(cookies) > 0 {
		dst["Set-Cookie"] = append([]string(nil), cookies...)
	}
	return dst
}
