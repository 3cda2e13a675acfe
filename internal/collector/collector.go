// Package collector runs fetch passes against the amiibo listing and hands new
// records to the configured sinks.
package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/amiibo-connect/internal/logger"
	"github.com/samvad-hq/amiibo-connect/pkg/amiiboapi"
	"github.com/samvad-hq/amiibo-connect/pkg/publishers"
)

// Options tune a collection pass.
type Options struct {
	// Source is stamped on every published event.
	Source string
	Filter amiiboapi.ListFilter
}

// Summary counts what a pass did.
type Summary struct {
	Fetched   int `json:"fetched"`
	Skipped   int `json:"skipped"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

// Service coordinates a single collection pass.
type Service struct {
	source    ItemSource
	publisher EventPublisher
	deduper   Deduper
	log       logger.Logger
	opts      Options
}

// NewService wires a collector. A nil deduper publishes every record on every pass.
func NewService(source ItemSource, pub EventPublisher, log logger.Logger, deduper Deduper, opts Options) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		source:    source,
		publisher: pub,
		deduper:   deduper,
		log:       log,
		opts:      opts,
	}
}

// Run fetches the listing once and publishes records not delivered before.
// A fetch failure aborts the pass; publish failures are joined and returned
// after every record has been tried.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	if s == nil || s.source == nil || s.publisher == nil {
		return Summary{}, fmt.Errorf("collector service is not initialized")
	}

	list, err := s.source.AmiiboListFiltered(ctx, s.opts.Filter)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch amiibo list: %w", err)
	}

	sum := Summary{Fetched: len(list.Amiibo)}
	var errs []error
	for _, a := range list.Amiibo {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		id := a.ID()
		if s.seen(id) {
			sum.Skipped++
			continue
		}

		delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(s.opts.Source, a))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish amiibo %s: %w", id, err))
		}
		if delivered == 0 {
			sum.Failed++
			continue
		}
		sum.Published++
		s.mark(id)
	}

	s.log.InfoObj("collection pass finished", "collection_summary", sum)
	return sum, errors.Join(errs...)
}

// seen treats lookup failures as unseen so a broken store never hides records.
func (s *Service) seen(id string) bool {
	if s.deduper == nil {
		return false
	}
	ok, err := s.deduper.SeenItem(id)
	if err != nil {
		s.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
			"amiibo_id": id,
			"error":     err.Error(),
		})
		return false
	}
	return ok
}

func (s *Service) mark(id string) {
	if s.deduper == nil {
		return
	}
	if err := s.deduper.MarkItem(id); err != nil {
		s.log.WarnObj("dedupe mark failed", "dedupe_error", map[string]any{
			"amiibo_id": id,
			"error":     err.Error(),
		})
	}
}
