package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"asebot-gateway/internal/config"
)

func corsTestConfig(origins ...string) *config.Config {
	if len(origins) == 0 {
		origins = []string{"https://ase-bot.live", "https://www.ase-bot.live"}
	}
	return &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: origins},
	}
}

// preflight sends a CORS-preflight request for the given method through the
// wrapped middleware and returns the recorder.
func preflight(t *testing.T, cfg *config.Config, origin, method string) *httptest.ResponseRecorder {
	t.Helper()

	mw, err := newCORSMiddleware(cfg)
	if err != nil {
		t.Fatalf("newCORSMiddleware: %v", err)
	}
	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/positions", http.NoBody)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewCORSMiddleware_PreflightAllowsConfiguredMethods(t *testing.T) {
	cfg := corsTestConfig()

	// The full allowed-method set, OPTIONS included.
	methods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			rec := preflight(t, cfg, "https://ase-bot.live", method)

			if rec.Code != http.StatusNoContent {
				t.Errorf("preflight status = %d, want %d", rec.Code, http.StatusNoContent)
			}
			if acao := rec.Header().Get("Access-Control-Allow-Origin"); acao != "https://ase-bot.live" {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", acao, "https://ase-bot.live")
			}
		})
	}
}

func TestNewCORSMiddleware_PreflightRejectsUnknownOrigin(t *testing.T) {
	rec := preflight(t, corsTestConfig(), "https://evil.example", http.MethodGet)

	if rec.Code != http.StatusForbidden {
		t.Errorf("preflight status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if acao := rec.Header().Get("Access-Control-Allow-Origin"); acao != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want none for a disallowed origin", acao)
	}
}

func TestNewCORSMiddleware_PreflightRejectsDisallowedMethod(t *testing.T) {
	rec := preflight(t, corsTestConfig(), "https://ase-bot.live", "TRACK")

	if rec.Code != http.StatusForbidden {
		t.Errorf("preflight status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestNewCORSMiddleware_CredentialsNotAllowed(t *testing.T) {
	rec := preflight(t, corsTestConfig(), "https://ase-bot.live", http.MethodPost)

	if v := rec.Header().Get("Access-Control-Allow-Credentials"); v != "" {
		t.Errorf("Access-Control-Allow-Credentials = %q, want none", v)
	}
}

func TestNewCORSMiddleware_MalformedOriginIsFatal(t *testing.T) {
	if _, err := newCORSMiddleware(corsTestConfig("not a url")); err == nil {
		t.Fatal("newCORSMiddleware expected error for malformed origin, got nil")
	}
}
