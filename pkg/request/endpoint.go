package request

import (
	"strings"
	"time"
)

// Method is the HTTP verb of an endpoint. Only GET and POST are supported.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	return m == MethodGet || m == MethodPost
}

// CachePolicy tells the transport how to treat locally cached responses.
type CachePolicy int

const (
	// CacheReloadIgnoringLocal always goes to the origin.
	CacheReloadIgnoringLocal CachePolicy = iota
	// CacheUseProtocolDefault leaves caching decisions to the transport.
	CacheUseProtocolDefault
)

func (p CachePolicy) String() string {
	switch p {
	case CacheReloadIgnoringLocal:
		return "reload-ignoring-local-cache"
	case CacheUseProtocolDefault:
		return "use-protocol-default"
	default:
		return "unknown"
	}
}

const (
	DefaultHost    = "www.amiiboapi.com"
	DefaultTimeout = 60 * time.Second
)

// Endpoint describes one remote operation. The zero value of every optional
// field is its default: no query params, no body, no extra headers, no auth.
type Endpoint struct {
	Path         string
	Method       Method
	RequiresAuth bool
	// QueryParams are sent on GET only. A nil value renders as a bare key.
	QueryParams map[string]*string
	// BodyParams are JSON-encoded on POST only.
	BodyParams map[string]any
	// Headers replace any auth header set by the builder.
	Headers map[string]string
}

// Get returns a GET endpoint for path.
func Get(path string) Endpoint {
	return Endpoint{Path: path, Method: MethodGet}
}

// Post returns a POST endpoint for path with the given body params.
func Post(path string, body map[string]any) Endpoint {
	return Endpoint{Path: path, Method: MethodPost, BodyParams: body}
}

// WithQuery returns a copy of e with key=value added to its query params.
func (e Endpoint) WithQuery(key, value string) Endpoint {
	params := make(map[string]*string, len(e.QueryParams)+1)
	for k, v := range e.QueryParams {
		params[k] = v
	}
	params[key] = &value
	e.QueryParams = params
	return e
}

// WithHeader returns a copy of e with the header added.
func (e Endpoint) WithHeader(key, value string) Endpoint {
	headers := make(map[string]string, len(e.Headers)+1)
	for k, v := range e.Headers {
		headers[k] = v
	}
	headers[key] = value
	e.Headers = headers
	return e
}

func (e Endpoint) normalizedPath() string {
	p := strings.TrimSpace(e.Path)
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
