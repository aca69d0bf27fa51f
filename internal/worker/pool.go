package worker

import (
	"context"
	"sync"
)

// Task is a unit of work executed by the pool
type Task[R any] func(ctx context.Context) R

// Pool runs tasks on a fixed number of workers
type Pool[R any] struct {
	workers    int
	tasks      chan Task[R]
	results    chan R
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool whose tasks run under a child of ctx
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers:    workers,
		tasks:      make(chan Task[R], workers*2),
		results:    make(chan R, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			result := task(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a task. It returns false when the pool is shut down.
// Results must be drained concurrently (see Collect) once more tasks than
// the buffer holds are submitted.
func (p *Pool[R]) Submit(task Task[R]) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.tasks <- task:
		return true
	}
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
		p.cancelFunc()
	})
}

// Collect runs every task on a pool of the given size and returns the results.
// Submission happens in the background so any number of tasks fits.
func Collect[R any](ctx context.Context, workers int, tasks []Task[R]) []R {
	pool := NewPool[R](ctx, workers)
	pool.Start()

	go func() {
		for _, t := range tasks {
			if !pool.Submit(t) {
				break
			}
		}
		close(pool.tasks)
	}()

	go func() {
		pool.wg.Wait()
		pool.closeResults()
	}()

	results := make([]R, 0, len(tasks))
	for r := range pool.results {
		results = append(results, r)
	}
	return results
}
