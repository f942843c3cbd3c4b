package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

func double(_ context.Context, n int) (int, error) { return n * 2, nil }

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCollect(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{1, 2, 3}))
	if err != nil || !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("got %v, %v", got, err)
	}
	empty, err := Collect(context.Background(), FromSlice([]int{}))
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty, got %v, %v", empty, err)
	}
}

func TestFromIterator(t *testing.T) {
	got, err := Collect(context.Background(), From[string](&sliceIter[string]{items: []string{"a", "b"}}))
	if err != nil || len(got) != 2 || got[1] != "b" {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestMapTap(t *testing.T) {
	var seen []int
	p := Tap(Map(FromSlice([]int{1, 2, 3}), double), func(_ context.Context, n int) error {
		seen = append(seen, n)
		return nil
	})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !equalInts(got, []int{2, 4, 6}) || !equalInts(seen, got) {
		t.Errorf("got %v, tapped %v", got, seen)
	}
}

func TestMapErrorKeepsPartialResults(t *testing.T) {
	boom := errors.New("boom")
	p := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, boom
		}
		return n, nil
	})
	got, err := Collect(context.Background(), p)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !equalInts(got, []int{1, 2}) {
		t.Errorf("partial = %v", got)
	}
}

func TestTapErrorStops(t *testing.T) {
	boom := errors.New("tap failed")
	p := Tap(FromSlice([]int{1, 2}), func(context.Context, int) error { return boom })
	if _, err := Collect(context.Background(), p); !errors.Is(err, boom) {
		t.Errorf("expected tap error, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Collect(ctx, FromSlice([]int{1})); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParallelProcessesAll(t *testing.T) {
	in := make([]int, 20)
	for i := range in {
		in[i] = i
	}
	got, err := Collect(context.Background(), Parallel(FromSlice(in), 4, double))
	if err != nil {
		t.Fatal(err)
	}
	sort.Ints(got)
	for i, v := range got {
		if v != i*2 {
			t.Fatalf("got[%d] = %d", i, v)
		}
	}
}

func TestParallelBoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	fn := func(_ context.Context, n int) (int, error) {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return n, nil
	}
	if _, err := Collect(context.Background(), Parallel(FromSlice(make([]int, 12)), 3, fn)); err != nil {
		t.Fatal(err)
	}
	if peak.Load() > 3 {
		t.Errorf("peak concurrency %d exceeds 3", peak.Load())
	}
}

func TestParallelError(t *testing.T) {
	boom := errors.New("chunk failed")
	fn := func(_ context.Context, n int) (int, error) {
		if n == 5 {
			return 0, boom
		}
		return n, nil
	}
	_, err := Collect(context.Background(), Parallel(FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8}), 3, fn))
	if !errors.Is(err, boom) {
		t.Errorf("expected chunk error, got %v", err)
	}
}

func TestParallelSingleWorkerIsOrdered(t *testing.T) {
	got, err := Collect(context.Background(), Parallel(FromSlice([]int{3, 1, 2}), 1, double))
	if err != nil || !equalInts(got, []int{6, 2, 4}) {
		t.Errorf("got %v, %v", got, err)
	}
}
