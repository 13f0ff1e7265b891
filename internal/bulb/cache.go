package bulb

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/bulbctl/internal/status"
	"golang.org/x/sync/singleflight"
)

// DefaultRateLimit is the minimum spacing between two status fetches.
const DefaultRateLimit = 500 * time.Millisecond

const flightKey = "status"

// FetchFunc retrieves a raw status report from the device.
type FetchFunc func(ctx context.Context) (string, error)

// Cache holds the last known state of one bulb and rate limits status
// fetches. Each bulb owns its own Cache.
type Cache struct {
	fetch     FetchFunc
	rateLimit time.Duration
	now       Clock

	mu          sync.Mutex
	state       status.DeviceState
	lastFetched time.Time
	// generation counts Updates; a fetch that overlaps one keeps the cache.
	generation uint64

	group singleflight.Group
}

// NewCache returns a Cache whose first Get always fetches.
func NewCache(fetch FetchFunc, rateLimit time.Duration, now Clock) *Cache {
	if rateLimit < 0 {
		rateLimit = 0
	}
	if now == nil {
		now = time.Now
	}

	return &Cache{
		fetch:     fetch,
		rateLimit: rateLimit,
		now:       now,
		state:     status.DefaultState(),
	}
}

// Get returns the cached state when the last fetch started less than the
// rate limit ago, and otherwise fetches and parses a fresh report.
//
// The fetch timestamp advances before the fetch is issued, so a failed fetch
// still holds off further fetches for the rest of the window. Callers that
// pass the check while a fetch is in flight wait for that fetch instead of
// issuing their own. A caller whose ctx ends stops waiting without failing
// the others.
func (c *Cache) Get(ctx context.Context) (status.DeviceState, error) {
	c.mu.Lock()
	now := c.now()
	if !c.lastFetched.IsZero() && now.Sub(c.lastFetched) < c.rateLimit {
		state := c.state
		c.mu.Unlock()
		return state, nil
	}
	c.lastFetched = now
	c.mu.Unlock()

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		return c.load(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return status.DeviceState{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return status.DeviceState{}, res.Err
		}
		return res.Val.(status.DeviceState), nil
	}
}

// load fetches a report and stores it, unless an Update landed while the
// fetch was running. The report predates that Update, so the cached state
// is kept until the next fetch.
func (c *Cache) load(ctx context.Context) (status.DeviceState, error) {
	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	raw, err := c.fetch(ctx)
	if err != nil {
		return status.DeviceState{}, err
	}

	state := status.Parse(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		return c.state, nil
	}
	c.state = state

	return state, nil
}

// Peek returns the cached state without contacting the device.
func (c *Cache) Peek() status.DeviceState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update applies an optimistic change to the cached state.
func (c *Cache) Update(fn func(*status.DeviceState)) status.DeviceState {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.state)
	c.generation++
	return c.state
}

// LastFetched returns when the last fetch was started, zero if never.
func (c *Cache) LastFetched() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFetched
}
