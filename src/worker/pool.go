package worker

import (
	"context"
	"log"
	"sync"
)

// Job is a unit of background work. It receives the pool's base context.
type Job func(ctx context.Context)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict
// back-pressure). A size-1 pool doubles as a single-operation-in-flight
// guard: overlapping submissions are dropped, not queued up.
type Pool struct {
	name string
	jobs chan Job
	wg   sync.WaitGroup
}

// New creates a worker pool. Size defaults to 1 when size<=0. Queue is 1 slot.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{name: name, jobs: make(chan Job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				j(context.Background())
			}
		}()
	}
}

// Submit enqueues a job if the single-slot queue is free. Returns false if
// dropped.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		log.Printf("%s pool: busy, dropping submission", p.name)
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
