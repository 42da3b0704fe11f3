package helper

import (
	"fmt"

	"github.com/aescanero/dago-node-render/internal/literal"
	"github.com/aescanero/dago-node-render/internal/output"
	"github.com/aescanero/dago-node-render/internal/scope"
	"github.com/aescanero/dago-node-render/internal/tag"
	"go.uber.org/zap"
)

// Helper is a named callable invoked from a template tag
type Helper interface {
	// Validate checks a tag definition once, when the template is compiled.
	Validate(def Definition) error
	// Execute runs the helper for one render of the tag.
	Execute(o Options) error
}

// Func adapts a function to the Helper interface. It accepts every definition.
type Func func(o Options) error

// Validate implements Helper.
func (f Func) Validate(Definition) error {
	return nil
}

// Execute implements Helper.
func (f Func) Execute(o Options) error {
	return f(o)
}

// Registry maps helper names to helpers
type Registry map[string]Helper

// Placeholder is a helper argument resolved at render time
type Placeholder struct {
	Key string
}

// String returns the key of the placeholder.
func (p Placeholder) String() string {
	return p.Key
}

// Definition describes a classified helper tag, before any render
type Definition interface {
	Name() string
	Tag() tag.Info
	// Params returns literal values and Placeholders in tag order.
	Params() []interface{}
	// Hash returns literal values and Placeholders by key.
	Hash() map[string]interface{}
	// ContentLiteralBlock returns the source of the enclosed block, "" for value tags.
	ContentLiteralBlock() string
}

// Options is what a helper sees of one invocation. Params and Hash return
// the bound values: placeholders are already resolved.
type Options interface {
	Definition

	// Append writes s to the current sink.
	Append(s string) error
	// Fn renders the enclosed block against the current scope into the current sink.
	Fn() error
	// FnTo renders the enclosed block into s and waits for any asynchronous output it produced.
	FnTo(s output.Sink) error
	// Inverse renders the {{else}} block against the current scope into the current sink.
	Inverse() error

	// Push makes v the current scope.
	Push(v interface{})
	// Pop removes the scope pushed last by this invocation and returns its object.
	Pop() (interface{}, error)
	// Peek returns the current context object.
	Peek() interface{}
	// Value resolves key against the current scope; the value is released with the invocation.
	Value(key string) (interface{}, error)

	// Partial renders the template id against the current scope into the current sink.
	Partial(id string) error
	// PartialTo renders the template id into s.
	PartialTo(id string, s output.Sink) error
	// Source returns the source of the template id.
	Source(id string) (string, error)

	// ExecuteAsync runs task on the Executor. Output written after this call is
	// buffered and follows the task output in the document.
	ExecuteAsync(task AsyncTask) error

	// Sink returns the current sink.
	Sink() output.Sink
}

// AsyncTask is the work handed to ExecuteAsync. It receives its own Options
// writing to a private buffer.
type AsyncTask func(o Options) error

// Executor runs asynchronous tasks. Go must not block.
type Executor interface {
	Go(task func())
}

// Yielder is implemented by bounded executors. Yield runs wait, which blocks
// on the output of other tasks, without holding the slot of the calling
// task. It is only called from a task running on the executor.
type Yielder interface {
	Yield(wait func() error) error
}

// Block is an enclosed section of a template
type Block interface {
	Fn(s output.Sink, ctx *scope.Context) (output.Sink, error)
	Literal() string
}

// Template is a compiled template a helper can include
type Template interface {
	Name() string
	Execute(s output.Sink, ctx *scope.Context) (output.Sink, error)
}

// Partials looks up templates by identifier
type Partials interface {
	Partial(id string) (Template, bool, error)
	Source(id string) (string, bool, error)
}

// Env holds the process-wide collaborators of helper invocations. It is
// read-only once rendering starts.
type Env struct {
	Helpers  Registry
	Literals literal.Support // Defaults to literal.Default
	Executor Executor        // Optional, required by ExecuteAsync
	Partials Partials        // Optional, required by Partial and Source
	Logger   *zap.Logger     // Defaults to a no-op logger
}

func (e *Env) literals() literal.Support {
	if e.Literals == nil {
		return literal.Default{}
	}
	return e.Literals
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// CheckParams returns an error unless def has between lo and hi params. A
// negative hi means no upper bound.
func CheckParams(def Definition, lo, hi int) error {
	n := len(def.Params())
	if n < lo || (hi >= 0 && n > hi) {
		switch {
		case lo == hi:
			return fmt.Errorf("%s expects %d parameter(s), got %d", def.Name(), lo, n)
		case hi < 0:
			return fmt.Errorf("%s expects at least %d parameter(s), got %d", def.Name(), lo, n)
		}
		return fmt.Errorf("%s expects between %d and %d parameters, got %d", def.Name(), lo, hi, n)
	}
	return nil
}

// CheckHash returns an error if a required hash key is missing from def.
func CheckHash(def Definition, keys ...string) error {
	hash := def.Hash()
	for _, k := range keys {
		if _, ok := hash[k]; !ok {
			return fmt.Errorf("%s requires hash key %q", def.Name(), k)
		}
	}
	return nil
}
