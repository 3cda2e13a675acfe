package request

import (
	"net/http"
	"net/url"
	"time"
)

// Descriptor is a fully resolved outbound request. It is immutable: accessors
// return copies.
type Descriptor struct {
	method  Method
	url     url.URL
	header  http.Header
	body    []byte
	timeout time.Duration
	cache   CachePolicy
}

func (d Descriptor) Method() Method { return d.method }

// URL returns a copy of the request URL.
func (d Descriptor) URL() *url.URL {
	u := d.url
	return &u
}

// Header returns a copy of the request headers.
func (d Descriptor) Header() http.Header { return d.header.Clone() }

// Body returns a copy of the encoded body, nil when the request has none.
func (d Descriptor) Body() []byte {
	if d.body == nil {
		return nil
	}
	out := make([]byte, len(d.body))
	copy(out, d.body)
	return out
}

func (d Descriptor) Timeout() time.Duration { return d.timeout }

func (d Descriptor) CachePolicy() CachePolicy { return d.cache }
