package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// fetchTimeout bounds a shared upstream fetch. It does not follow the
// deadline of the caller that started it, since others may be waiting on it.
const fetchTimeout = time.Minute

// SnapshotCache wraps a PriceProvider with a daily in-memory cache.
// Series are stored as msgpack snapshots and decoded afresh for every caller,
// so no two callers ever share (or can mutate) the same series.
// Entries expire when the calendar day changes.
type SnapshotCache struct {
	next domain.PriceProvider
	now  func() time.Time
	log  zerolog.Logger

	mu      sync.RWMutex
	day     time.Time
	entries map[string][]byte
	group   singleflight.Group
}

// NewSnapshotCache creates a cache in front of next
func NewSnapshotCache(next domain.PriceProvider, log zerolog.Logger) *SnapshotCache {
	return &SnapshotCache{
		next:    next,
		now:     time.Now,
		log:     log.With().Str("component", "price_cache").Logger(),
		entries: make(map[string][]byte),
	}
}

// GetPrices returns a private copy of the cached series, fetching it on a miss.
// Concurrent misses for the same key share one upstream request; a caller whose
// context ends stops waiting without cancelling it. Errors are not cached.
func (c *SnapshotCache) GetPrices(ctx context.Context, ticker string, from, to time.Time) (*domain.AssetPriceSeries, error) {
	key := fmt.Sprintf("%s|%s|%s", domain.NormalizeTicker(ticker), from.Format(domain.DateLayout), to.Format(domain.DateLayout))

	if snapshot, ok := c.lookup(key); ok {
		return decodeSeries(snapshot)
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		series, err := c.next.GetPrices(fetchCtx, ticker, from, to)
		if err != nil {
			return nil, err
		}
		snapshot, err := msgpack.Marshal(series)
		if err != nil {
			return nil, fmt.Errorf("failed to encode price snapshot: %w", err)
		}
		c.store(key, snapshot)
		return snapshot, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return decodeSeries(res.Val.([]byte))
	}
}

// Len returns the number of cached snapshots for today
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.day.Equal(domain.Day(c.now())) {
		return 0
	}
	return len(c.entries)
}

func (c *SnapshotCache) lookup(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.day.Equal(domain.Day(c.now())) {
		return nil, false
	}
	snapshot, ok := c.entries[key]
	return snapshot, ok
}

func (c *SnapshotCache) store(key string, snapshot []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	today := domain.Day(c.now())
	if !c.day.Equal(today) {
		if len(c.entries) > 0 {
			c.log.Debug().Int("entries", len(c.entries)).Msg("Price cache expired")
		}
		c.day = today
		c.entries = make(map[string][]byte)
	}
	c.entries[key] = snapshot
}

func decodeSeries(snapshot []byte) (*domain.AssetPriceSeries, error) {
	var series domain.AssetPriceSeries
	if err := msgpack.Unmarshal(snapshot, &series); err != nil {
		return nil, fmt.Errorf("failed to decode price snapshot: %w", err)
	}
	// msgpack restores timestamps in the local zone
	for i := range series.Prices {
		series.Prices[i].Date = series.Prices[i].Date.UTC()
	}
	for i := range series.Dividends {
		series.Dividends[i].ExDate = series.Dividends[i].ExDate.UTC()
	}
	return &series, nil
}
