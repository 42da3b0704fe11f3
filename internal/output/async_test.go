package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeLater runs fn in a goroutine and completes a with what it wrote
func completeLater(a *AsyncSink, delay time.Duration, fn func(s Sink) (Sink, error)) {
	go func() {
		time.Sleep(delay)
		root := &Buffer{}
		final, err := fn(root)
		a.Complete(Result{Root: root, Sink: final, Err: err})
	}()
}

func write(text string) func(s Sink) (Sink, error) {
	return func(s Sink) (Sink, error) {
		return s, s.Append(text)
	}
}

func Test_AsyncSink(t *testing.T) {
	t.Run("should keep document order across chained sinks completing out of order", func(t *testing.T) {
		var out bytes.Buffer
		direct := NewWriterSink(&out)
		require.NoError(t, direct.Append("<"))

		first := NewAsyncSink(direct)
		completeLater(first, 30*time.Millisecond, write("1"))
		require.NoError(t, first.Append("a"))

		second := NewAsyncSink(first)
		completeLater(second, 10*time.Millisecond, write("2"))
		require.NoError(t, second.Append("b"))

		third := NewAsyncSink(second)
		completeLater(third, 0, write("3"))
		require.NoError(t, third.Append(">"))

		assert.Equal(t, "<", out.String())
		require.NoError(t, Flush(third))
		assert.Equal(t, "<1a2b3>", out.String())
	})

	t.Run("should drain nested async sinks of the task", func(t *testing.T) {
		var out bytes.Buffer
		outer := NewAsyncSink(NewWriterSink(&out))
		completeLater(outer, 0, func(s Sink) (Sink, error) {
			_ = s.Append("[")
			inner := NewAsyncSink(s)
			completeLater(inner, 20*time.Millisecond, write("inner"))
			return inner, inner.Append("]")
		})
		require.NoError(t, outer.Append("!"))

		require.NoError(t, Flush(outer))
		assert.Equal(t, "[inner]!", out.String())
	})

	t.Run("should pass writes through once flushed", func(t *testing.T) {
		var out bytes.Buffer
		a := NewAsyncSink(NewWriterSink(&out))
		a.Complete(Result{Root: &Buffer{}})
		require.NoError(t, Flush(a))
		require.NoError(t, a.Append("after"))
		require.NoError(t, Flush(a))
		assert.Equal(t, "after", out.String())
	})

	t.Run("should surface the task failure when flushed", func(t *testing.T) {
		a := NewAsyncSink(&Buffer{})
		cause := errors.New("boom")
		a.Complete(Result{Err: cause})

		err := Flush(a)
		require.ErrorIs(t, err, cause)
		assert.ErrorIs(t, Flush(a), cause)
	})

	t.Run("should ignore sinks that are not async", func(t *testing.T) {
		assert.NoError(t, Flush(&Buffer{}))
		assert.NoError(t, Flush(nil))
	})
}
