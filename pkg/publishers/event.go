package publishers

import (
	"time"

	"github.com/samvad-hq/amiibo-connect/internal/domain"
)

// Event is the payload delivered to sinks, one per amiibo record.
type Event struct {
	Source      string        `json:"source"`
	Amiibo      domain.Amiibo `json:"amiibo"`
	CollectedAt time.Time     `json:"collected_at"`
}

// NewEvent wraps an amiibo fetched from source.
func NewEvent(source string, a domain.Amiibo) Event {
	return Event{
		Source:      source,
		Amiibo:      a,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the message attributes shared by the queue/topic sinks.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"amiibo_id": e.Amiibo.ID(),
		"character": e.Amiibo.Character,
		"source":    e.Source,
	}
}
