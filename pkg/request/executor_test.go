package request

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/amiibo-connect/pkg/httpclient"
)

type stubResponse struct {
	status int
	body   []byte
	header http.Header
}

func (s stubResponse) Body() []byte        { return s.body }
func (s stubResponse) StatusCode() int     { return s.status }
func (s stubResponse) Header() http.Header { return s.header }

// stubTransport returns a canned response and records the request it saw.
type stubTransport struct {
	resp     httpclient.Response
	err      error
	got      httpclient.Request
	deadline time.Time
}

func (s *stubTransport) Do(ctx context.Context, req httpclient.Request) (httpclient.Response, error) {
	s.got = req
	s.deadline, _ = ctx.Deadline()
	return s.resp, s.err
}

func buildList(t *testing.T) Descriptor {
	t.Helper()
	d, err := NewBuilder("www.amiiboapi.com", nil).Build(Get("api/amiibo/"), "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d
}

func TestExecuteReturnsBodyOn200(t *testing.T) {
	rec := &recordingLogger{}
	transport := &stubTransport{resp: stubResponse{status: 200, body: []byte(`{"amiibo":[]}`)}}

	body, err := NewExecutor(transport, rec).Execute(context.Background(), buildList(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(body) != `{"amiibo":[]}` {
		t.Fatalf("body = %q", body)
	}
	if transport.got.Method != "GET" || transport.got.URL != "https://www.amiiboapi.com/api/amiibo/" {
		t.Fatalf("transport saw %+v", transport.got)
	}
	if !transport.got.BypassCache {
		t.Fatalf("cache bypass not forwarded")
	}
	if transport.deadline.IsZero() {
		t.Fatalf("descriptor timeout not applied to the context")
	}
	if len(rec.responses) != 1 || rec.responses[0].err != nil {
		t.Fatalf("expected one successful response log, got %+v", rec.responses)
	}
}

func TestExecuteFailsOnNon200(t *testing.T) {
	for _, status := range []int{201, 301, 404, 500} {
		rec := &recordingLogger{}
		transport := &stubTransport{resp: stubResponse{status: status, body: []byte("nope")}}

		body, err := NewExecutor(transport, rec).Execute(context.Background(), buildList(t))
		if !errors.Is(err, ErrInvalidServerResponse) {
			t.Fatalf("status %d: expected ErrInvalidServerResponse, got %v", status, err)
		}
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != status {
			t.Fatalf("status %d: expected StatusError, got %v", status, err)
		}
		if body != nil {
			t.Fatalf("status %d: partial body returned", status)
		}
		if len(rec.responses) != 1 || rec.responses[0].err == nil {
			t.Fatalf("status %d: failure not logged with its error", status)
		}
	}
}

func TestExecuteFailsOnMissingResponse(t *testing.T) {
	_, err := NewExecutor(&stubTransport{}, nil).Execute(context.Background(), buildList(t))
	if !errors.Is(err, ErrInvalidServerResponse) {
		t.Fatalf("expected ErrInvalidServerResponse, got %v", err)
	}
}

func TestExecutePropagatesTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	rec := &recordingLogger{}

	_, err := NewExecutor(&stubTransport{err: boom}, rec).Execute(context.Background(), buildList(t))
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error to propagate, got %v", err)
	}
	if errors.Is(err, ErrInvalidServerResponse) {
		t.Fatalf("transport failure must not be reported as a bad response")
	}
	if len(rec.responses) != 1 || !errors.Is(rec.responses[0].err, boom) {
		t.Fatalf("transport failure not logged")
	}
}

func TestExecuteOverTLSWithResty(t *testing.T) {
	var gotCT, gotCache, gotBody string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/oauth2/token" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotCT = r.Header.Get("Content-Type")
		gotCache = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bearerAccessToken":"xyz"}`))
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "https://")
	b := NewBuilder(host, nil)
	e := NewExecutor(httpclient.NewRestyClientWith(srv.Client(), time.Second), nil)

	d, err := b.Build(Post("/v2/oauth2/token", map[string]any{"grant_type": "test1"}), "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	body, err := e.Execute(context.Background(), d)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(body) != `{"bearerAccessToken":"xyz"}` {
		t.Fatalf("body = %q", body)
	}
	if gotBody != `{"grant_type":"test1"}` || gotCT != "application/json" || gotCache != "no-cache" {
		t.Fatalf("server saw body=%q content-type=%q cache-control=%q", gotBody, gotCT, gotCache)
	}

	d404, err := b.Build(Get("missing"), "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := e.Execute(context.Background(), d404); !errors.Is(err, ErrInvalidServerResponse) {
		t.Fatalf("expected ErrInvalidServerResponse for 404, got %v", err)
	}
}

type shape struct {
	Name string `json:"name"`
}

func TestDecode(t *testing.T) {
	got, err := Decode[shape]([]byte(`{"name":"Mario"}`))
	if err != nil || got.Name != "Mario" {
		t.Fatalf("Decode = %+v, %v", got, err)
	}
	for _, body := range []string{`{"name":1}`, `not json`, `[]`} {
		if _, err := Decode[shape]([]byte(body)); !errors.Is(err, ErrDecoding) {
			t.Fatalf("%s: expected ErrDecoding, got %v", body, err)
		}
	}
}

func TestFetchStopsAtFirstFailure(t *testing.T) {
	transport := &stubTransport{resp: stubResponse{status: 200, body: []byte(`{"name":"Link"}`)}}
	e := NewExecutor(transport, nil)

	got, err := Fetch[shape](context.Background(), NewBuilder("www.amiiboapi.com", nil), e, Get("x"), "")
	if err != nil || got.Name != "Link" {
		t.Fatalf("Fetch = %+v, %v", got, err)
	}

	transport.got = httpclient.Request{}
	_, err = Fetch[shape](context.Background(), NewBuilder("", nil), e, Get("x"), "")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if transport.got.URL != "" {
		t.Fatalf("transport called despite build failure")
	}
}
