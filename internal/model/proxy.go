// Package model defines shared types for the gateway.
package model

import (
	"context"
	"net/http"
)

// ProxyRequest represents a fully received client request to be forwarded
// to the backend. The body is buffered: the outbound request is never built
// before the inbound body has been read in full.
type ProxyRequest struct {
	Ctx      context.Context
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// ProxyResponse represents a fully received backend response to be relayed
// back to the client.
type ProxyResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
