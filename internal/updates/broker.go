package updates

import (
	"context"
	"sync"
	"time"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// waiter is a single-resolution handle for one subscription key. Commit
// writes the update and closes done exactly once; the write happens before
// the close, so readers observe it after <-done.
type waiter struct {
	done   chan struct{}
	update types.Update
}

// Broker owns the per-key waiter table and cache pools. A single mutex
// guards both maps because Commit must decide "live waiter vs. cache"
// atomically; splitting the maps across finer locks would reopen the lost
// update window this type exists to close.
type Broker struct {
	mu      sync.Mutex
	waiters map[string]*waiter
	caches  map[string][]types.Update

	// created-entity broadcast (signal.go)
	subscribers map[string]map[chan struct{}]struct{}

	pollTimeout time.Duration
	cacheLimit  int
}

// PollTimeout returns the default bound applied to Next and WaitUntil.
func (b *Broker) PollTimeout() time.Duration { return b.pollTimeout }

// Commit publishes one update for key. If a reader is currently suspended in
// Next for that key, the update is handed to it directly and the waiter
// entry is removed; otherwise it is appended to the key's cache pool.
// Commit never blocks and never fails.
func (b *Broker) Commit(key, label string, data any) {
	u := types.Update{Label: label, Data: data}

	b.mu.Lock()
	if w, ok := b.waiters[key]; ok {
		// Remove before resolving: a commit racing a timeout must not leave
		// a settled handle in the table for reuse.
		delete(b.waiters, key)
		w.update = u
		close(w.done)
		b.mu.Unlock()
		commitsTotal.WithLabelValues("delivered").Inc()
		waitersGauge.Dec()
		return
	}
	q := append(b.caches[key], u)
	if b.cacheLimit > 0 && len(q) > b.cacheLimit {
		q = q[1:]
		cacheEvictionsTotal.Inc()
	} else {
		cachedGauge.Inc()
	}
	b.caches[key] = q
	b.mu.Unlock()
	commitsTotal.WithLabelValues("cached").Inc()
}

// Next suspends until the next update committed for key, the timeout
// elapses, or ctx is canceled. A non-positive timeout means the broker's
// poll timeout. The boolean is false on timeout or cancellation.
//
// Overlapping calls for the same key share one waiter, so a single commit
// wakes them all with the same update. Whichever overlapped call exits
// first removes the table entry; the rest run out their own clocks.
func (b *Broker) Next(ctx context.Context, key string, timeout time.Duration) (types.Update, bool) {
	if timeout <= 0 {
		timeout = b.pollTimeout
	}

	b.mu.Lock()
	w, ok := b.waiters[key]
	if !ok {
		w = &waiter{done: make(chan struct{})}
		b.waiters[key] = w
		waitersGauge.Inc()
	}
	b.mu.Unlock()

	// The table entry must be gone by the time Next returns on every path,
	// including request cancellation. Commit may have removed it already;
	// only remove it if it is still ours.
	defer func() {
		b.mu.Lock()
		if cur, ok := b.waiters[key]; ok && cur == w {
			delete(b.waiters, key)
			waitersGauge.Dec()
		}
		b.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-w.done:
		return w.update, true
	case <-timer.C:
		// A commit may have settled the handle in the same instant; prefer
		// delivering it over reporting a timeout.
		select {
		case <-w.done:
			return w.update, true
		default:
		}
		pollTimeoutsTotal.Inc()
		return types.Update{}, false
	case <-ctx.Done():
		select {
		case <-w.done:
			return w.update, true
		default:
		}
		return types.Update{}, false
	}
}

// HasWaiter reports whether a reader is currently suspended for key. Useful
// for readiness checks in tests and diagnostics; the answer can be stale by
// the time the caller acts on it.
func (b *Broker) HasWaiter(key string) bool {
	b.mu.Lock()
	_, ok := b.waiters[key]
	b.mu.Unlock()
	return ok
}

// PopCached atomically returns and clears the cached updates for key, in
// commit order. Draining twice in a row yields nothing the second time.
func (b *Broker) PopCached(key string) []types.Update {
	b.mu.Lock()
	q, ok := b.caches[key]
	if ok {
		delete(b.caches, key)
		cachedGauge.Sub(float64(len(q)))
	}
	b.mu.Unlock()
	return q
}
