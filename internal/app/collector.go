package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/amiibo-connect/internal/collector"
	"github.com/samvad-hq/amiibo-connect/internal/config"
	"github.com/samvad-hq/amiibo-connect/internal/logger"
	"github.com/samvad-hq/amiibo-connect/internal/storage"
	"github.com/samvad-hq/amiibo-connect/pkg/amiiboapi"
	"github.com/samvad-hq/amiibo-connect/pkg/httpclient"
	"github.com/samvad-hq/amiibo-connect/pkg/netlog"
	"github.com/samvad-hq/amiibo-connect/pkg/publishers"
	"github.com/samvad-hq/amiibo-connect/pkg/request"
	"go.uber.org/zap"
)

// Collector is the amiibo collector runtime. It owns the API client, the
// publisher fan-out and the seen-item store, and drives collection passes.
type Collector struct {
	cfg          *config.Config
	api          *amiiboapi.Client
	fanout       *publishers.Fanout
	store        storage.Store
	service      *collector.Service
	pollInterval time.Duration
	log          logger.Logger
}

// NewCollector builds a collector runtime from config. zl feeds the
// request/response dump and may be nil.
func NewCollector(ctx context.Context, cfg *config.Config, log logger.Logger, zl *zap.Logger) (*Collector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	api := NewAPIClient(cfg, zl)

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	known, err := store.Len()
	if err != nil {
		log.WarnObj("storage count failed", "error", err.Error())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"known_items":              known,
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := collector.NewService(api, fanout, log, store, collector.Options{
		Source: cfg.APIHost,
		Filter: FilterFromConfig(cfg),
	})

	return &Collector{
		cfg:          cfg,
		api:          api,
		fanout:       fanout,
		store:        store,
		service:      service,
		pollInterval: cfg.PollInterval,
		log:          log,
	}, nil
}

// NewAPIClient wires the request builder, executor and diagnostic logger
// behind the named endpoints.
func NewAPIClient(cfg *config.Config, zl *zap.Logger) *amiiboapi.Client {
	diag := netlog.New(zl, cfg.Debug)

	builder := request.NewBuilder(cfg.APIHost, diag)
	builder.Timeout = cfg.RequestTimeout

	transport := httpclient.NewRestyClient(cfg.RequestTimeout)
	executor := request.NewExecutor(transport, diag)

	return amiiboapi.New(builder, executor, amiiboapi.Credentials{
		GrantType:    cfg.GrantType,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	})
}

// FilterFromConfig maps the filter_* settings onto a listing filter.
func FilterFromConfig(cfg *config.Config) amiiboapi.ListFilter {
	return amiiboapi.ListFilter{
		Name:         cfg.FilterName,
		Character:    cfg.FilterCharacter,
		GameSeries:   cfg.FilterGameSeries,
		AmiiboSeries: cfg.FilterAmiiboSeries,
		Type:         cfg.FilterType,
	}
}

// Run performs one collection pass, then keeps polling while poll_interval is
// positive and the context is live.
func (c *Collector) Run(ctx context.Context) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("collector is not initialized")
	}
	defer c.close()

	c.log.InfoObj("collector starting", "collector_state", map[string]any{
		"api_host":         c.cfg.APIHost,
		"publishers_count": c.fanout.Size(),
		"poll_interval":    c.pollInterval.String(),
	})

	if c.cfg.VerifyToken {
		if err := c.verifyToken(ctx); err != nil {
			return err
		}
	}

	if c.pollInterval <= 0 {
		return c.runOnce(ctx)
	}

	if err := c.runOnce(ctx); err != nil {
		c.log.ErrorObj("initial collection failed", "error", err.Error())
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.InfoObj("collector loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := c.runOnce(ctx); err != nil {
				c.log.ErrorObj("scheduled collection failed", "error", err.Error())
			}
		}
	}
}

// verifyToken checks the configured credentials against the token endpoint.
// The token itself is never logged.
func (c *Collector) verifyToken(ctx context.Context) error {
	token, err := c.api.RequestAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("verify credentials: %w", err)
	}
	c.log.InfoObj("access token issued", "token_meta", map[string]any{
		"length": len(token),
	})
	return nil
}

func (c *Collector) runOnce(ctx context.Context) error {
	start := time.Now()
	sum, err := c.service.Run(ctx)
	c.log.InfoObj("collection completed", "collection_meta", map[string]any{
		"fetched":    sum.Fetched,
		"skipped":    sum.Skipped,
		"published":  sum.Published,
		"failed":     sum.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

// close releases the sinks and the store, logging any failure.
func (c *Collector) close() {
	if err := errors.Join(c.fanout.Close(), c.closeStore()); err != nil {
		c.log.ErrorObj("collector shutdown failed", "error", err.Error())
	}
}

func (c *Collector) closeStore() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
