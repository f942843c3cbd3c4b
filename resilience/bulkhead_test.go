package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// hold occupies n slots until release is closed.
func hold(t *testing.T, b *Bulkhead, n int) (release chan struct{}) {
	t.Helper()
	release = make(chan struct{})
	started := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			_ = b.Execute(context.Background(), func() error {
				started <- struct{}{}
				<-release
				return nil
			})
		}()
	}
	for i := 0; i < n; i++ {
		<-started
	}
	return release
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	var rejected atomic.Int32
	b := NewBulkhead(BulkheadConfig{Name: "runs", MaxConcurrent: 2, OnReject: func(string) { rejected.Add(1) }})
	release := hold(t, b, 2)
	defer close(release)

	if b.InUse() != 2 || b.Available() != 0 {
		t.Errorf("in use %d, available %d", b.InUse(), b.Available())
	}
	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
	if rejected.Load() != 1 {
		t.Errorf("expected OnReject once, got %d", rejected.Load())
	}
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	release := hold(t, b, 1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("expected slot after release, got %v", err)
	}
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})
	release := hold(t, b, 1)
	defer close(release)
	if err := b.Execute(context.Background(), func() error { return nil }); !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestBulkhead_RespectsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Minute})
	release := hold(t, b, 1)
	defer close(release)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Execute(ctx, func() error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExecuteWithResult(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test"))
	got, err := ExecuteWithResult(context.Background(), b, func() (string, error) { return "srt", nil })
	if err != nil || got != "srt" {
		t.Errorf("got %q, %v", got, err)
	}
	if b.InUse() != 0 {
		t.Errorf("slot not released, in use %d", b.InUse())
	}
	if b.MaxConcurrent() != 10 {
		t.Errorf("default max concurrent = %d", b.MaxConcurrent())
	}
}
