package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(resty.New(), timeout)}
}

// NewRestyClientWith wraps an existing http.Client, e.g. one trusting a test server's certificate.
func NewRestyClientWith(hc *http.Client, timeout time.Duration) *RestyClient {
	if hc == nil {
		return NewRestyClient(timeout)
	}
	return &RestyClient{client: newRestyBaseClient(resty.NewWithClient(hc), timeout)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(resty.New(), timeout)
}

func newRestyBaseClient(c *resty.Client, timeout time.Duration) *resty.Client {
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Do sends req as-is. The body is passed through unmodified.
func (r *RestyClient) Do(ctx context.Context, req Request) (Response, error) {
	rr := r.client.R().SetContext(ctx)
	if len(req.Header) > 0 {
		rr.SetHeaderMultiValues(req.Header)
	}
	if req.BypassCache && rr.Header.Get("Cache-Control") == "" {
		rr.SetHeader("Cache-Control", "no-cache")
	}
	if len(req.Body) > 0 {
		rr.SetBody(req.Body)
	}

	resp, err := rr.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
