package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsSubmittedJobs(t *testing.T) {
	p := New("test", 1)
	defer p.Close()

	var ran atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)
	ok := p.Submit(func(ctx context.Context) {
		ran.Add(1)
		wg.Done()
	})
	if !ok {
		t.Fatalf("Submit returned false on idle pool")
	}
	wg.Wait()
	if ran.Load() != 1 {
		t.Errorf("job ran %d times, want 1", ran.Load())
	}
}

func TestPoolDropsWhenBusy(t *testing.T) {
	p := New("test", 1)
	defer p.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func(ctx context.Context) {
		close(started)
		<-block
	})
	<-started

	// Worker is occupied; one submission fits the queue slot, the next drops.
	first := p.Submit(func(ctx context.Context) {})
	second := p.Submit(func(ctx context.Context) {})
	close(block)

	if !first {
		t.Errorf("expected the 1-slot queue to accept one pending job")
	}
	if second {
		t.Errorf("expected overlapping submission to be dropped")
	}
}

func TestCloseDrainsPendingWork(t *testing.T) {
	p := New("test", 1)
	var done atomic.Bool
	p.Submit(func(ctx context.Context) {
		time.Sleep(20 * time.Millisecond)
		done.Store(true)
	})
	p.Close()
	if !done.Load() {
		t.Errorf("Close returned before pending job finished")
	}
}
