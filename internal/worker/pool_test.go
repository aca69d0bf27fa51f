package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type taskResult struct {
	id  int
	err error
}

func sleepTask(id int, d time.Duration, executed *int32, fail bool) Task[taskResult] {
	return func(ctx context.Context) taskResult {
		if executed != nil {
			atomic.AddInt32(executed, 1)
		}
		if d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return taskResult{id: id, err: ctx.Err()}
			}
		}
		if fail {
			return taskResult{id: id, err: errors.New("task error")}
		}
		return taskResult{id: id}
	}
}

func TestNewPool(t *testing.T) {
	p1 := NewPool[taskResult](context.Background(), 5)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool[taskResult](context.Background(), 0)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool[taskResult](context.Background(), -1)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}
}

func TestCollect_ErrorHandling(t *testing.T) {
	tasks := []Task[taskResult]{
		sleepTask(0, 0, nil, true),
		sleepTask(1, 0, nil, false),
	}

	results := Collect(context.Background(), 1, tasks)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
}

func TestCollect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	tasks := []Task[taskResult]{
		sleepTask(0, time.Second, &executed, false),
		sleepTask(1, time.Second, &executed, false),
	}

	start := time.Now()
	results := Collect(ctx, 1, tasks)
	if time.Since(start) > 500*time.Millisecond {
		t.Error("expected cancelled context to stop the pool")
	}
	if len(results) > len(tasks) {
		t.Errorf("unexpected result count %d", len(results))
	}
}

func TestCollect_ManyTasks(t *testing.T) {
	var executed int32
	tasks := make([]Task[taskResult], 0, 50)
	for i := 0; i < 50; i++ {
		tasks = append(tasks, sleepTask(i, time.Millisecond, &executed, false))
	}

	results := Collect(context.Background(), 3, tasks)
	if len(results) != 50 {
		t.Errorf("expected 50 results, got %d", len(results))
	}
	if atomic.LoadInt32(&executed) != 50 {
		t.Errorf("expected 50 executions, got %d", executed)
	}
}

func TestCollect_Concurrency(t *testing.T) {
	var running, peak int32
	task := func(ctx context.Context) taskResult {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return taskResult{}
	}

	tasks := []Task[taskResult]{task, task, task, task, task, task}
	Collect(context.Background(), 2, tasks)

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", peak)
	}
}
