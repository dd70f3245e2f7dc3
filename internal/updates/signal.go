package updates

import (
	"context"
	"time"
)

// NotifyCreated broadcasts that an entity of the given kind was created.
// Delivery is non-blocking: each subscriber channel holds at most one
// pending signal, which is enough because receivers re-evaluate a predicate
// rather than consume the signal itself.
func (b *Broker) NotifyCreated(kind string) {
	b.mu.Lock()
	for ch := range b.subscribers[kind] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}

func (b *Broker) subscribeCreated(kind string) chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	set := b.subscribers[kind]
	if set == nil {
		set = make(map[chan struct{}]struct{})
		b.subscribers[kind] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribeCreated(kind string, ch chan struct{}) {
	b.mu.Lock()
	if set, ok := b.subscribers[kind]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(b.subscribers, kind)
		}
	}
	b.mu.Unlock()
}

// WaitUntil blocks until pred reports true, the timeout elapses, or ctx is
// canceled. pred is re-evaluated on every created-entity broadcast for kind.
// A non-positive timeout means the broker's poll timeout.
//
// The subscription is taken before the first predicate check, so a creation
// that lands between the caller's own check and this call cannot be missed.
// Unsubscription runs on every exit path.
func (b *Broker) WaitUntil(ctx context.Context, kind string, timeout time.Duration, pred func() bool) bool {
	if timeout <= 0 {
		timeout = b.pollTimeout
	}

	ch := b.subscribeCreated(kind)
	defer b.unsubscribeCreated(kind, ch)

	if pred() {
		return true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ch:
			if pred() {
				return true
			}
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
}
