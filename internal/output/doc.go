// Package output provides the append-only sinks rendering writes to.
//
// A render writes either directly to a WriterSink wrapping an io.Writer, or
// to a Buffer. When a helper hands work to another goroutine the sink in use
// is replaced by an AsyncSink: it buffers everything written after the
// asynchronous point and holds the pending result of the task.
//
// Flush consumes a chain of AsyncSinks in document order. Parents flush
// first, then the sink waits for its task, writes the task output and its
// own buffer to its parent, and becomes transparent:
//
//	out, err := tmpl.Execute(output.NewWriterSink(w), ctx)
//	if err != nil {
//	    return err
//	}
//	return output.Flush(out)
//
// Flush is the only blocking operation of a render.
package output
