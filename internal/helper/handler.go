package helper

import (
	"github.com/aescanero/dago-node-render/internal/output"
	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/aescanero/dago-node-render/internal/scope"
	"github.com/aescanero/dago-node-render/internal/tag"
)

// definition is the classified form of one helper tag
type definition struct {
	name    string
	info    tag.Info
	block   Block
	inverse Block
	params  []interface{}
	hash    map[string]interface{}

	paramPlaceholders bool
	hashPlaceholders  bool
}

func (d *definition) Name() string                 { return d.name }
func (d *definition) Tag() tag.Info                { return d.info }
func (d *definition) Params() []interface{}        { return d.params }
func (d *definition) Hash() map[string]interface{} { return d.hash }

func (d *definition) ContentLiteralBlock() string {
	if d.block == nil {
		return ""
	}
	return d.block.Literal()
}

// Handler drives the invocations of one classified helper tag
type Handler struct {
	helper Helper
	def    *definition
	env    *Env
}

// Name returns the helper name.
func (h *Handler) Name() string {
	return h.def.name
}

// Definition returns the classified tag.
func (h *Handler) Definition() Definition {
	return h.def
}

// Execute invokes the helper against ctx, writing to s. It returns the sink
// following segments must write to. Every value resolved for the invocation
// is released before Execute returns, or once the last asynchronous task
// started by the invocation has completed.
func (h *Handler) Execute(s output.Sink, ctx *scope.Context) (output.Sink, error) {
	o, err := h.bind(s, ctx)
	if err != nil {
		return s, err
	}
	defer o.release()

	if err := h.helper.Execute(o); err != nil {
		if problem.CodeOf(err) != "" {
			return o.sink, withOrigin(err, h.def.info)
		}
		return o.sink, problem.Wrap(problem.HelperFailed, err, "helper %q failed", h.def.name).At(h.def.info.Origin())
	}
	return o.sink, nil
}

// bind resolves the placeholders of the definition against ctx
func (h *Handler) bind(s output.Sink, ctx *scope.Context) (*options, error) {
	o := newOptions(h.def, h.env, s, ctx)
	d := h.def

	o.params = d.params
	if d.paramPlaceholders {
		params := make([]interface{}, len(d.params))
		for i, p := range d.params {
			v, err := o.bindArg(p)
			if err != nil {
				o.release()
				return nil, err
			}
			params[i] = v
		}
		o.params = params
	}

	o.hash = d.hash
	if d.hashPlaceholders {
		hash := make(map[string]interface{}, len(d.hash))
		for k, p := range d.hash {
			v, err := o.bindArg(p)
			if err != nil {
				o.release()
				return nil, err
			}
			hash[k] = v
		}
		o.hash = hash
	}

	return o, nil
}
