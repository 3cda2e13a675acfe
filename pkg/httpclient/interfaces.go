package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Request is the wire-level view of an outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
	// BypassCache asks the transport not to serve a stored response.
	BypassCache bool
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
