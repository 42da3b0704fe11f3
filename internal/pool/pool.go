// Package pool runs asynchronous helper tasks on a bounded set of goroutines.
//
// A Pool never blocks the caller of Go: tasks wait for a free slot on their
// own goroutine. A task waiting on other tasks calls Yield so it does not
// hold its slot meanwhile. Close waits for every submitted task to finish.
//
//	p := pool.New(4, logger)
//	defer p.Close()
//
//	engine := template.NewEngine(template.WithExecutor(p))
package pool

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Pool is a bounded goroutine pool
type Pool struct {
	sem    *semaphore.Weighted
	size   int
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a pool running at most size tasks at once
func New(size int, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		size:   size,
		logger: logger,
	}
}

// Size returns the maximum number of concurrent tasks.
func (p *Pool) Size() int {
	return p.size
}

// Go schedules task and returns immediately. A panicking task is logged and
// does not take the process down; callers that need the failure must
// recover it inside task.
func (p *Pool) Go(task func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// Acquire on a background context never fails
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("async task panicked", zap.String("panic", fmt.Sprint(r)))
			}
		}()
		task()
	}()
}

// Yield releases the slot of the calling task while wait runs and takes a
// slot again before returning. It must only be called from a task running
// on p.
func (p *Pool) Yield(wait func() error) error {
	p.sem.Release(1)
	// Acquire on a background context never fails
	defer func() { _ = p.sem.Acquire(context.Background(), 1) }()
	return wait()
}

// Close waits for all scheduled tasks to complete.
func (p *Pool) Close() error {
	p.wg.Wait()
	return nil
}
