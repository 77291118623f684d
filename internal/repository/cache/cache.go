// Package cache memoizes data source reads for a fixed TTL so repeated
// dashboard requests in the same window hit the store once.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/domain/records"
)

// Source is the read side of a data source.
type Source interface {
	FetchRanged(ctx context.Context, view string, start, end models.Date) ([]records.Row, error)
	FetchAll(ctx context.Context, view string) ([]records.Row, error)
}

// DefaultFetchTimeout bounds a shared fetch once it is detached from its callers.
const DefaultFetchTimeout = 30 * time.Second

type entry struct {
	rows    []records.Row
	expires time.Time
}

// Cached wraps a Source. Concurrent misses for the same key share one fetch
// and failed fetches are never stored. The shared fetch does not inherit the
// cancellation of the caller that started it; each caller stops waiting when
// its own context is done.
type Cached struct {
	next         Source
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *zap.Logger

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
}

// New returns next wrapped with a ttl cache. A non-positive ttl disables caching
// but keeps request coalescing.
func New(next Source, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		next:         next,
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		logger:       logger,
		entries:      make(map[string]entry),
	}
}

// FetchRanged returns cached rows for the view and range when fresh.
func (c *Cached) FetchRanged(ctx context.Context, view string, start, end models.Date) ([]records.Row, error) {
	key := view + "|" + start.String() + "|" + end.String()
	return c.load(ctx, key, func(fetchCtx context.Context) ([]records.Row, error) {
		return c.next.FetchRanged(fetchCtx, view, start, end)
	})
}

// FetchAll returns cached rows for the whole view when fresh.
func (c *Cached) FetchAll(ctx context.Context, view string) ([]records.Row, error) {
	return c.load(ctx, view+"|*", func(fetchCtx context.Context) ([]records.Row, error) {
		return c.next.FetchAll(fetchCtx, view)
	})
}

func (c *Cached) load(ctx context.Context, key string, fetch func(context.Context) ([]records.Row, error)) ([]records.Row, error) {
	if rows, ok := c.lookup(key); ok {
		return rows, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		rows, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, rows)
		return rows, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		c.logger.Debug("data source fetched", zap.String("key", key), zap.Bool("shared", res.Shared))
		return res.Val.([]records.Row), nil
	}
}

func (c *Cached) lookup(key string) ([]records.Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.rows, true
}

func (c *Cached) store(key string, rows []records.Row) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{rows: rows, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
