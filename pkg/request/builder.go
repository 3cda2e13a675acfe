package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/samvad-hq/amiibo-connect/pkg/httpclient"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"
)

// Logger observes built descriptors and executed responses. Implementations
// must not block or fail.
type Logger interface {
	LogRequest(d Descriptor)
	LogResponse(d Descriptor, resp httpclient.Response, body []byte, err error)
}

type nopLogger struct{}

func (nopLogger) LogRequest(Descriptor)                                       {}
func (nopLogger) LogResponse(Descriptor, httpclient.Response, []byte, error) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}

// Builder turns endpoints into descriptors for a single API host.
type Builder struct {
	Host        string
	Timeout     time.Duration
	CachePolicy CachePolicy
	Logger      Logger
}

// NewBuilder returns a builder for host using the default timeout and a
// cache-bypassing policy.
func NewBuilder(host string, log Logger) *Builder {
	return &Builder{
		Host:        host,
		Timeout:     DefaultTimeout,
		CachePolicy: CacheReloadIgnoringLocal,
		Logger:      log,
	}
}

// Build materializes ep into a descriptor. A non-empty authToken is sent
// verbatim as the Authorization header.
func (b *Builder) Build(ep Endpoint, authToken string) (Descriptor, error) {
	method := ep.Method
	if method == "" {
		method = MethodGet
	}
	if !method.Valid() {
		return Descriptor{}, fmt.Errorf("unsupported method %q", method)
	}

	u, err := b.composeURL(ep, method)
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		method:  method,
		url:     *u,
		timeout: b.timeout(),
		cache:   b.CachePolicy,
	}

	header := make(http.Header)
	if authToken != "" {
		header.Set(headerAuthorization, authToken)
	}
	// caller headers replace the whole set, auth included
	if len(ep.Headers) > 0 {
		header = make(http.Header, len(ep.Headers)+1)
		for k, v := range ep.Headers {
			header.Set(k, v)
		}
	}
	header.Set(headerContentType, contentTypeJSON)
	d.header = header

	if method == MethodPost && len(ep.BodyParams) > 0 {
		body, err := json.Marshal(ep.BodyParams)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		d.body = body
	}

	ensureLogger(b.Logger).LogRequest(d)
	return d, nil
}

func (b *Builder) composeURL(ep Endpoint, method Method) (*url.URL, error) {
	host := strings.TrimSpace(b.Host)
	if host == "" {
		return nil, fmt.Errorf("%w: empty host", ErrInvalidURL)
	}
	base, err := url.Parse("https://" + host)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if base.Host != host || base.Path != "" || base.User != nil {
		return nil, fmt.Errorf("%w: malformed host %q", ErrInvalidURL, host)
	}

	u := &url.URL{
		Scheme: "https",
		Host:   host,
		Path:   ep.normalizedPath(),
	}
	if method == MethodGet && len(ep.QueryParams) > 0 {
		u.RawQuery = encodeQuery(ep.QueryParams)
	}

	if _, err := url.Parse(u.String()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return u, nil
}

func (b *Builder) timeout() time.Duration {
	if b.Timeout <= 0 {
		return DefaultTimeout
	}
	return b.Timeout
}

// encodeQuery renders params in key order; nil values become bare keys.
func encodeQuery(params map[string]*string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		if v := params[k]; v != nil {
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(*v))
		}
	}
	return sb.String()
}
