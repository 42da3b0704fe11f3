package output

import (
	"io"
	"strings"
	"sync"
)

// Sink is an append-only character stream
type Sink interface {
	Append(s string) error
}

// WriterSink appends to an io.Writer
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Append implements Sink.
func (s *WriterSink) Append(str string) error {
	_, err := io.WriteString(s.w, str)
	return err
}

// Buffer accumulates output in memory. It is safe for concurrent use.
type Buffer struct {
	mu sync.Mutex
	b  strings.Builder
}

// Append implements Sink.
func (b *Buffer) Append(s string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b.WriteString(s)
	return nil
}

// String returns the buffered content.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}
