package listsync

import (
	"context"
	"sync"

	"shipit/internal/model"
)

// job is one background fetch.
type job struct {
	class Class
	run   func(ctx context.Context) ([]model.Item, error)
}

// pool is a fixed set of long-lived workers. Finished jobs are reported on
// results; nothing else is touched from worker goroutines. At most one job
// per class waits in the queue.
type pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	jobs   chan job
	wg     sync.WaitGroup

	mu     sync.Mutex
	queued map[Class]bool

	results chan FetchResult
}

func newPool(size int) *pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &pool{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan job, 16),
		queued:  make(map[Class]bool),
		results: make(chan FetchResult, 16),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case j := <-p.jobs:
			p.mu.Lock()
			delete(p.queued, j.class)
			p.mu.Unlock()

			items, err := j.run(p.ctx)
			select {
			case p.results <- FetchResult{Class: j.class, Items: items, Err: err}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// submit queues j without blocking. It returns false when a job for the
// same class is still waiting, when the queue is full, or once the pool is
// stopped. A waiting job has not started yet, so its result is as fresh as
// the dropped one would have been.
func (p *pool) submit(j job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx.Err() != nil || p.queued[j.class] {
		return false
	}
	select {
	case p.jobs <- j:
		p.queued[j.class] = true
		return true
	default:
		return false
	}
}

func (p *pool) stop() {
	p.cancel()
	p.wg.Wait()
}
