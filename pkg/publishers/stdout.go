package publishers

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// stdoutPublisher prints one character name per line.
type stdoutPublisher struct {
	id  string
	mu  sync.Mutex
	out io.Writer
}

func newStdoutPublisher(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
	return &stdoutPublisher{id: cfg.ID, out: os.Stdout}, nil
}

func (s *stdoutPublisher) ID() string   { return s.id }
func (s *stdoutPublisher) Type() string { return TypeStdout }

func (s *stdoutPublisher) Publish(_ context.Context, evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.out, evt.Amiibo.Character); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}
