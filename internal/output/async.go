package output

import (
	"fmt"
	"sync"
)

// Result is the outcome of an asynchronous task
type Result struct {
	Root *Buffer // Buffer the task started writing to
	Sink Sink    // Sink the task ended with, Root or an AsyncSink chained to it
	Err  error
}

// AsyncSink buffers output that follows a pending asynchronous task
type AsyncSink struct {
	parent Sink
	done   chan struct{}
	result Result

	mu       sync.Mutex
	buf      []string
	flushed  bool
	flushErr error
}

// NewAsyncSink creates a sink chained after parent. Complete must be called
// exactly once with the task result.
func NewAsyncSink(parent Sink) *AsyncSink {
	return &AsyncSink{
		parent: parent,
		done:   make(chan struct{}),
	}
}

// Complete publishes the task result and wakes up a pending Flush.
func (a *AsyncSink) Complete(r Result) {
	a.result = r
	close(a.done)
}

// Append implements Sink. Once flushed the sink passes writes through to its parent.
func (a *AsyncSink) Append(s string) error {
	a.mu.Lock()
	if !a.flushed {
		a.buf = append(a.buf, s)
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()
	return a.parent.Append(s)
}

// Done returns a channel closed when the task has completed.
func (a *AsyncSink) Done() <-chan struct{} {
	return a.done
}

// Parent returns the sink a is chained after.
func (a *AsyncSink) Parent() Sink {
	return a.parent
}

// flush writes the task output and the buffered content to the parent
func (a *AsyncSink) flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.flushed {
		return a.flushErr
	}
	a.flushed = true
	a.flushErr = a.drain()
	return a.flushErr
}

func (a *AsyncSink) drain() error {
	if err := Flush(a.parent); err != nil {
		return err
	}

	<-a.done
	if a.result.Err != nil {
		return fmt.Errorf("async task failed: %w", a.result.Err)
	}
	if err := Flush(a.result.Sink); err != nil {
		return err
	}
	if a.result.Root != nil {
		if err := a.parent.Append(a.result.Root.String()); err != nil {
			return err
		}
	}

	for _, s := range a.buf {
		if err := a.parent.Append(s); err != nil {
			return err
		}
	}
	a.buf = nil
	return nil
}

// Flush resolves s if it is an AsyncSink, blocking until every pending task
// in its chain has completed. Other sinks are left untouched.
func Flush(s Sink) error {
	if a, ok := s.(*AsyncSink); ok {
		return a.flush()
	}
	return nil
}
