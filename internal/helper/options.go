package helper

import (
	"fmt"
	"sync/atomic"

	"github.com/aescanero/dago-node-render/internal/output"
	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/aescanero/dago-node-render/internal/scope"
	"github.com/aescanero/dago-node-render/internal/tag"
	"go.uber.org/zap"
)

// options is the Options of one invocation
type options struct {
	def  *definition
	env  *Env
	sink output.Sink
	ctx  *scope.Context

	params []interface{}
	hash   map[string]interface{}

	// wrappers are released once holds drops to zero: one hold for the
	// invocation itself and one per pending asynchronous task
	wrappers []*scope.Value
	holds    atomic.Int32
	pushed   int
}

func newOptions(def *definition, env *Env, s output.Sink, ctx *scope.Context) *options {
	o := &options{def: def, env: env, sink: s, ctx: ctx}
	o.holds.Store(1)
	return o
}

func (o *options) Name() string                 { return o.def.name }
func (o *options) Tag() tag.Info                { return o.def.info }
func (o *options) Params() []interface{}        { return o.params }
func (o *options) Hash() map[string]interface{} { return o.hash }
func (o *options) ContentLiteralBlock() string  { return o.def.ContentLiteralBlock() }
func (o *options) Sink() output.Sink            { return o.sink }

func (o *options) origin() string {
	return o.def.info.Origin()
}

// bindArg resolves a placeholder, keeping its wrapper for release
func (o *options) bindArg(arg interface{}) (interface{}, error) {
	p, ok := arg.(Placeholder)
	if !ok {
		return arg, nil
	}
	return o.Value(p.Key)
}

func (o *options) Append(s string) error {
	if err := o.sink.Append(s); err != nil {
		return problem.Wrap(problem.RenderIO, err, "helper %q failed to append output", o.def.name).At(o.origin())
	}
	return nil
}

func (o *options) Fn() error {
	return o.render(o.def.block)
}

func (o *options) Inverse() error {
	return o.render(o.def.inverse)
}

func (o *options) render(b Block) error {
	if b == nil {
		return nil
	}
	out, err := b.Fn(o.sink, o.ctx)
	if err != nil {
		return err
	}
	o.sink = out
	return nil
}

func (o *options) FnTo(s output.Sink) error {
	if o.def.block == nil {
		return nil
	}
	out, err := o.def.block.Fn(s, o.ctx)
	if err != nil {
		return err
	}
	return o.flush(out)
}

func (o *options) Push(v interface{}) {
	o.pushed++
	o.ctx = o.ctx.Push(v)
}

func (o *options) Pop() (interface{}, error) {
	if o.pushed == 0 {
		return nil, problem.New(problem.InvalidPop, "helper %q popped a context object it did not push", o.def.name).At(o.origin())
	}
	top := o.ctx.FirstContextObject()
	parent, err := o.ctx.Parent()
	if err != nil {
		return nil, withOrigin(err, o.def.info)
	}
	o.ctx = parent
	o.pushed--
	return top, nil
}

func (o *options) Peek() interface{} {
	return o.ctx.FirstContextObject()
}

func (o *options) Value(key string) (interface{}, error) {
	v, err := o.ctx.Resolve(key)
	if err != nil {
		return nil, withOrigin(err, o.def.info)
	}
	o.wrappers = append(o.wrappers, v)
	return v.Get(), nil
}

func (o *options) Partial(id string) error {
	t, err := o.partial(id)
	if err != nil {
		return err
	}
	out, err := t.Execute(o.sink, o.ctx)
	if err != nil {
		return err
	}
	o.sink = out
	return nil
}

func (o *options) PartialTo(id string, s output.Sink) error {
	t, err := o.partial(id)
	if err != nil {
		return err
	}
	out, err := t.Execute(s, o.ctx)
	if err != nil {
		return err
	}
	return o.flush(out)
}

func (o *options) partial(id string) (Template, error) {
	if id == "" {
		return nil, problem.New(problem.PartialNotFound, "empty partial identifier").At(o.origin())
	}
	if o.env.Partials == nil {
		return nil, problem.New(problem.PartialNotFound, "no partial found for the given key: %s", id).At(o.origin())
	}
	t, ok, err := o.env.Partials.Partial(id)
	if err != nil {
		return nil, problem.Wrap(problem.PartialNotFound, err, "failed to load partial %s", id).At(o.origin())
	}
	if !ok {
		return nil, problem.New(problem.PartialNotFound, "no partial found for the given key: %s", id).At(o.origin())
	}
	return t, nil
}

func (o *options) Source(id string) (string, error) {
	if id == "" {
		return "", problem.New(problem.PartialNotFound, "empty template identifier").At(o.origin())
	}
	if o.env.Partials == nil {
		return "", problem.New(problem.PartialNotFound, "no template found for the given key: %s", id).At(o.origin())
	}
	src, ok, err := o.env.Partials.Source(id)
	if err != nil {
		return "", problem.Wrap(problem.PartialNotFound, err, "failed to load template %s", id).At(o.origin())
	}
	if !ok {
		return "", problem.New(problem.PartialNotFound, "no template found for the given key: %s", id).At(o.origin())
	}
	return src, nil
}

func (o *options) ExecuteAsync(task AsyncTask) error {
	if task == nil {
		return problem.New(problem.AsyncProcessing, "helper %q submitted a nil task", o.def.name).At(o.origin())
	}
	if o.env.Executor == nil {
		return problem.New(problem.AsyncProcessing, "an executor must be configured to run asynchronous tasks").At(o.origin())
	}

	async := output.NewAsyncSink(o.sink)
	ctx := o.ctx.Async()
	o.holds.Add(1)

	o.env.Executor.Go(func() {
		root := &output.Buffer{}
		ao := newOptions(o.def, o.env, root, ctx)
		ao.params = o.params
		ao.hash = o.hash

		err := runTask(task, ao)
		ao.release()
		o.unhold()
		async.Complete(output.Result{Root: root, Sink: ao.sink, Err: err})
	})

	o.sink = async
	return nil
}

// runTask runs task, turning a panic into an error so the pending sink always completes
func runTask(task AsyncTask, o *options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = problem.New(problem.AsyncProcessing, "async task of helper %q panicked: %v", o.def.name, r).At(o.origin())
		}
	}()
	if err := task(o); err != nil {
		if problem.CodeOf(err) != "" {
			return err
		}
		return problem.Wrap(problem.AsyncProcessing, err, "async task of helper %q failed", o.def.name).At(o.origin())
	}
	return nil
}

// flush waits for the asynchronous output of s. Inside a task the wait
// lends the task's executor slot, so nested tasks can still be scheduled.
func (o *options) flush(s output.Sink) error {
	wait := func() error { return output.Flush(s) }

	var err error
	if y, ok := o.env.Executor.(Yielder); ok && o.ctx.IsAsync() {
		err = y.Yield(wait)
	} else {
		err = wait()
	}
	if err != nil {
		if problem.CodeOf(err) != "" {
			return err
		}
		return problem.Wrap(problem.RenderIO, err, "helper %q failed to flush output", o.def.name).At(o.origin())
	}
	return nil
}

// release ends the invocation. Scopes left pushed are only reported: they
// belong to this invocation and disappear with it.
func (o *options) release() {
	if o.pushed > 0 {
		o.env.logger().Info("remaining objects pushed on the context stack will be discarded",
			zap.Int("pushed", o.pushed),
			zap.String("helper", o.def.name),
			zap.String("template", o.def.info.Template),
			zap.Int("line", o.def.info.Line),
		)
	}
	o.unhold()
}

func (o *options) unhold() {
	if o.holds.Add(-1) != 0 {
		return
	}
	for _, w := range o.wrappers {
		w.Release()
	}
	o.wrappers = nil
}

// String returns a description of the invocation for debugging.
func (o *options) String() string {
	return fmt.Sprintf("Options{Helper=%s, Params=%v, Hash=%v, Pushed=%d}", o.def.name, o.params, o.hash, o.pushed)
}
