package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/application/services/orchestration"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
	"github.com/vsinha/bidengine/pkg/infrastructure/lock"
	"github.com/vsinha/bidengine/pkg/infrastructure/metrics"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/jsonfile"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/bidengine/pkg/infrastructure/seed"
)

// lockTTL bounds how long a crashed writer can hold the shared lock
const lockTTL = 30 * time.Second

// engine is a pipeline plus the resources it owns
type engine struct {
	*orchestration.BidPipeline
	ref     repositories.ReferenceData
	metrics *metrics.Metrics
	closers []func() error
}

func (e *engine) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *cli) openEngine(ctx context.Context) (*engine, error) {
	e := &engine{metrics: metrics.New()}

	ref, err := c.referenceData()
	if err != nil {
		return nil, err
	}
	e.ref = ref

	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		e.closers = append(e.closers, closer.Close)
	}

	var locker repositories.Locker = lock.NewLocal()
	if c.rt.RedisURL != "" {
		redisLock, err := lock.NewRedis(ctx, c.rt.RedisURL, lockTTL, c.logger)
		if err != nil {
			_ = e.Close()
			return nil, err
		}
		e.closers = append(e.closers, redisLock.Close)
		locker = redisLock
	}

	e.BidPipeline, err = orchestration.NewBidPipeline(c.cfg, orchestration.Dependencies{
		Reference: ref,
		RFPs:      store,
		Locker:    locker,
		Metrics:   e.metrics,
		Logger:    c.logger,
		Clock:     c.now,
		Workers:   c.rt.Workers,
	})
	if err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("failed to create bid pipeline: %w", err)
	}
	return e, nil
}

func (c *cli) referenceData() (repositories.ReferenceData, error) {
	if c.rt.DataDir == "" {
		c.logger.Warn("no data directory configured, using the built-in demo catalog")
		return seed.Catalog()
	}
	loader, err := jsonfile.NewReferenceLoader(c.rt.DataDir, c.logger)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

func (c *cli) openStore() (repositories.RFPRepository, error) {
	path := c.rt.ResolvedStorePath()
	switch c.rt.Store {
	case config.StoreMemory:
		return memory.NewRFPRepository(), nil
	case config.StoreJSON:
		return jsonfile.NewRFPStore(path)
	case config.StoreSQLite:
		return sqlite.NewRFPStore(path)
	default:
		return nil, fmt.Errorf("unsupported store: %s", c.rt.Store)
	}
}

// withEngine opens the engine for the duration of fn
func (c *cli) withEngine(ctx context.Context, fn func(e *engine) error) error {
	e, err := c.openEngine(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Close(); err != nil {
			c.logger.Warn("failed to close engine resources", zap.Error(err))
		}
	}()
	return fn(e)
}
