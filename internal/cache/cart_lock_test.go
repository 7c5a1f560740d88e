package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryCartLockerSerializesSameToken(t *testing.T) {
	locker := NewMemoryCartLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, 1, "tok")
			if err != nil {
				t.Errorf("lock failed: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("lock holders overlapped: %d", maxSeen)
	}
	if len(locker.locks) != 0 {
		t.Fatalf("released locks should be dropped, got %d", len(locker.locks))
	}
}

func TestMemoryCartLockerTimeoutAndIsolation(t *testing.T) {
	locker := NewMemoryCartLocker()
	locker.wait = 20 * time.Millisecond
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, 1, "tok")
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if _, err := locker.Lock(ctx, 1, "tok"); !errors.Is(err, ErrCartLocked) {
		t.Fatalf("want ErrCartLocked got %v", err)
	}
	other, err := locker.Lock(ctx, 2, "tok")
	if err != nil {
		t.Fatalf("other store should not be blocked: %v", err)
	}
	other()

	unlock()
	unlock()
	again, err := locker.Lock(ctx, 1, "tok")
	if err != nil {
		t.Fatalf("lock after release failed: %v", err)
	}
	again()
}

func TestNewCartLockerFallsBackToMemory(t *testing.T) {
	if Enabled() {
		t.Skip("redis enabled in this process")
	}
	if _, ok := NewCartLocker().(*MemoryCartLocker); !ok {
		t.Fatalf("expected memory locker when redis is disabled")
	}
}
