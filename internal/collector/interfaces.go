package collector

import (
	"context"

	"github.com/samvad-hq/amiibo-connect/internal/domain"
	"github.com/samvad-hq/amiibo-connect/pkg/amiiboapi"
	"github.com/samvad-hq/amiibo-connect/pkg/publishers"
)

// ItemSource fetches the amiibo listing.
type ItemSource interface {
	AmiiboListFiltered(ctx context.Context, filter amiiboapi.ListFilter) (domain.AmiiboListResponse, error)
}

// EventPublisher delivers events downstream and reports how many sinks accepted each one.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which records were already delivered.
type Deduper interface {
	SeenItem(id string) (bool, error)
	MarkItem(id string) error
}
