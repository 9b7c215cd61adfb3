package debounce

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerCollapsesRapidEdits(t *testing.T) {
	d := New(30*time.Millisecond, nil)
	defer d.Stop()

	var calls atomic.Int32
	var got atomic.Int32
	for i := 1; i <= 5; i++ {
		v := int32(i)
		d.Trigger("bill:1", func() error {
			calls.Add(1)
			got.Store(v)
			return nil
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("writes = %d, want 1", n)
	}
	if got.Load() != 5 {
		t.Errorf("last write was edit %d, want 5", got.Load())
	}
}

func TestIndependentKeys(t *testing.T) {
	d := New(20*time.Millisecond, nil)
	defer d.Stop()

	var mu sync.Mutex
	fired := map[string]int{}
	for _, key := range []string{"bill:1", "bill:2", "row:9"} {
		key := key
		d.Trigger(key, func() error {
			mu.Lock()
			fired[key]++
			mu.Unlock()
			return nil
		})
	}

	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 3 {
		t.Fatalf("fired = %v, want all three keys", fired)
	}
	for key, n := range fired {
		if n != 1 {
			t.Errorf("key %s fired %d times", key, n)
		}
	}
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	d := New(time.Hour, nil)
	defer d.Stop()

	var calls atomic.Int32
	d.Trigger("bill:1", func() error {
		calls.Add(1)
		return nil
	})
	d.Flush()
	if calls.Load() != 1 {
		t.Fatal("flush did not run the pending write")
	}
	// Already fired; a second flush must not re-run it.
	d.Flush()
	if calls.Load() != 1 {
		t.Error("flush re-ran a completed write")
	}
}

func TestStopRejectsNewTriggers(t *testing.T) {
	d := New(10*time.Millisecond, nil)
	d.Stop()

	var calls atomic.Int32
	d.Trigger("bill:1", func() error {
		calls.Add(1)
		return nil
	})
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("trigger after Stop still fired")
	}
}

func TestOnFlushObservesErrors(t *testing.T) {
	d := New(10*time.Millisecond, nil)
	defer d.Stop()

	errCh := make(chan error, 1)
	d.OnFlush(func(_ string, err error) { errCh <- err })

	wantErr := errors.New("disk full")
	d.Trigger("bill:1", func() error { return wantErr })

	select {
	case err := <-errCh:
		if !errors.Is(err, wantErr) {
			t.Errorf("hook saw %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hook never called")
	}
}
