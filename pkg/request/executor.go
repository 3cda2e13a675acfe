package request

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samvad-hq/amiibo-connect/pkg/httpclient"
)

// Executor sends descriptors over a transport and validates the response.
type Executor struct {
	transport httpclient.Client
	log       Logger
}

// NewExecutor wires an executor. A nil transport falls back to resty with the default timeout.
func NewExecutor(transport httpclient.Client, log Logger) *Executor {
	if transport == nil {
		transport = httpclient.NewRestyClient(DefaultTimeout)
	}
	return &Executor{transport: transport, log: ensureLogger(log)}
}

// Execute performs the call described by d and returns the raw body of a 200
// response. There is no retry.
func (e *Executor) Execute(ctx context.Context, d Descriptor) ([]byte, error) {
	if e == nil || e.transport == nil {
		return nil, fmt.Errorf("executor is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := d.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := e.transport.Do(ctx, httpclient.Request{
		Method:      string(d.Method()),
		URL:         d.URL().String(),
		Header:      d.Header(),
		Body:        d.Body(),
		BypassCache: d.CachePolicy() == CacheReloadIgnoringLocal,
	})
	if err != nil {
		err = fmt.Errorf("%s %s: %w", d.Method(), d.URL().Path, err)
		e.log.LogResponse(d, nil, nil, err)
		return nil, err
	}
	if resp == nil {
		err = fmt.Errorf("%w: no response", ErrInvalidServerResponse)
		e.log.LogResponse(d, nil, nil, err)
		return nil, err
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		err = &StatusError{StatusCode: resp.StatusCode()}
		e.log.LogResponse(d, resp, body, err)
		return nil, err
	}

	e.log.LogResponse(d, resp, body, nil)
	return body, nil
}

// Decode parses body into T, reporting any mismatch as ErrDecoding.
func Decode[T any](body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrDecoding, err)
	}
	return out, nil
}

// Fetch builds ep, executes it and decodes the body into T.
func Fetch[T any](ctx context.Context, b *Builder, e *Executor, ep Endpoint, authToken string) (T, error) {
	var zero T
	d, err := b.Build(ep, authToken)
	if err != nil {
		return zero, err
	}
	body, err := e.Execute(ctx, d)
	if err != nil {
		return zero, err
	}
	return Decode[T](body)
}
