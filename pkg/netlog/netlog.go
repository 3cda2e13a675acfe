// Package netlog renders human-readable request/response dumps for debugging.
package netlog

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samvad-hq/amiibo-connect/pkg/httpclient"
	"github.com/samvad-hq/amiibo-connect/pkg/request"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestMarker  = " - - - - - - - - - - Request - - - - - - - - - - "
	responseMarker = " - - - - - - - - - - Response - - - - - - - - - - "
	endMarker      = " - - - - - - - - - -  END - - - - - - - - - - "
)

// Logger writes framed dumps through zap at debug level.
type Logger struct {
	log     *zap.Logger
	enabled bool
}

var _ request.Logger = (*Logger)(nil)

// New returns a Logger. It is a no-op unless enabled is set and log accepts debug entries.
func New(log *zap.Logger, enabled bool) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{
		log:     log.Named("netlog"),
		enabled: enabled && log.Core().Enabled(zapcore.DebugLevel),
	}
}

// Enabled reports whether dumps are written.
func (l *Logger) Enabled() bool { return l != nil && l.enabled }

// LogRequest dumps a built descriptor.
func (l *Logger) LogRequest(d request.Descriptor) {
	if !l.Enabled() {
		return
	}
	l.emit(requestMarker)
	defer l.finish()

	u := d.URL()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", u.String())
	fmt.Fprintf(&sb, "%s %s?%s HTTP/1.1\n", d.Method(), u.Path, u.RawQuery)
	fmt.Fprintf(&sb, "HOST: %s\n", u.Hostname())
	sb.WriteString("Headers:\n\n")
	writeHeaders(&sb, d.Header())
	if body := d.Body(); body != nil {
		fmt.Fprintf(&sb, "\n%s", bodyText(body))
	}
	l.emit(sb.String())
}

// LogResponse dumps the outcome of executing d. resp may be nil on transport failure.
func (l *Logger) LogResponse(d request.Descriptor, resp httpclient.Response, body []byte, err error) {
	if !l.Enabled() {
		return
	}
	l.emit(responseMarker)
	defer l.finish()

	u := d.URL()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", u.String())
	if resp != nil {
		fmt.Fprintf(&sb, "HTTP %d %s?%s\n", resp.StatusCode(), u.Path, u.RawQuery)
		writeHeaders(&sb, resp.Header())
	}
	if host := u.Hostname(); host != "" {
		fmt.Fprintf(&sb, "Host: %s\n", host)
	}
	if body != nil {
		fmt.Fprintf(&sb, "\n%s\n", bodyText(body))
	}
	if err != nil {
		fmt.Fprintf(&sb, "\nError: %s\n", err.Error())
	}
	l.emit(sb.String())
}

// finish closes a block. It runs on every exit path, including a panic while formatting.
func (l *Logger) finish() {
	if r := recover(); r != nil {
		l.log.Warn("netlog formatting failed", zap.Any("panic", r))
	}
	l.emit(endMarker)
}

func (l *Logger) emit(msg string) {
	l.log.Debug(msg)
}

func writeHeaders(sb *strings.Builder, header http.Header) {
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "%s: %s\n", k, strings.Join(header[k], ", "))
	}
}

func bodyText(body []byte) string {
	if !utf8.Valid(body) {
		return ""
	}
	return string(body)
}
