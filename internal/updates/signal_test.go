package updates

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWaitUntil_PredicateAlreadyTrue(t *testing.T) {
	b := New()
	if !b.WaitUntil(context.Background(), "message", time.Second, func() bool { return true }) {
		t.Fatal("expected immediate success")
	}
}

func TestWaitUntil_WakesOnNotify(t *testing.T) {
	b := New()
	var mu sync.Mutex
	rows := 0

	done := make(chan bool, 1)
	go func() {
		done <- b.WaitUntil(context.Background(), "message", 5*time.Second, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return rows > 0
		})
	}()

	// Let the waiter subscribe, then create the row and broadcast.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	rows = 1
	mu.Unlock()
	b.NotifyCreated("message")

	select {
	case ok := <-done:
		if !ok {
			t.Fatal("WaitUntil timed out despite notify")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitUntil never woke")
	}
}

func TestWaitUntil_TimesOut(t *testing.T) {
	b := New()
	start := time.Now()
	if b.WaitUntil(context.Background(), "message", 100*time.Millisecond, func() bool { return false }) {
		t.Fatal("expected timeout")
	}
	if d := time.Since(start); d < 100*time.Millisecond || d > time.Second {
		t.Fatalf("timeout took %v", d)
	}
}

func TestWaitUntil_IgnoresOtherKinds(t *testing.T) {
	b := New()
	fired := 0
	done := make(chan bool, 1)
	go func() {
		done <- b.WaitUntil(context.Background(), "message", 200*time.Millisecond, func() bool {
			fired++
			return fired > 1 // only true if re-checked after a broadcast
		})
	}()
	time.Sleep(50 * time.Millisecond)
	b.NotifyCreated("friendship")
	if ok := <-done; ok {
		t.Fatal("broadcast for another kind should not wake the waiter")
	}
}

func TestWaitUntil_UnsubscribesOnExit(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		done <- b.WaitUntil(ctx, "message", 5*time.Second, func() bool { return false })
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	b.mu.Lock()
	_, present := b.subscribers["message"]
	b.mu.Unlock()
	if present {
		t.Fatal("subscriber set leaked after cancellation")
	}
}

func TestNotifyCreated_NoSubscribersIsNoop(t *testing.T) {
	b := New()
	b.NotifyCreated("message") // must not block or panic
}
