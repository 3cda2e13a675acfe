package request

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL reports a host/path/query combination that does not form a URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidServerResponse reports a missing response or a status other than 200.
	ErrInvalidServerResponse = errors.New("invalid server response")
	// ErrSerialization reports body params that cannot be encoded as JSON.
	ErrSerialization = errors.New("serialize request body")
	// ErrDecoding reports a response body that does not match the expected shape.
	ErrDecoding = errors.New("decode response body")
)

// StatusError is an ErrInvalidServerResponse carrying the received status code.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrInvalidServerResponse, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrInvalidServerResponse }
