package scope

import (
	"github.com/aescanero/dago-node-render/internal/interpolation"
	"github.com/aescanero/dago-node-render/internal/problem"
)

// DefaultLimit is used when Config.Limit is not positive
const DefaultLimit = 32

// Config holds the process-wide settings shared by every context of a render
type Config struct {
	Resolvers  []Resolver                // Tried in order, first claim wins
	Converters []Converter               // Applied to resolved values, first claim wins
	GlobalData interface{}               // Context object of the root scope
	Limit      int                       // Maximum path segments and stack depth
	Splitter   interpolation.KeySplitter // Defaults to interpolation.DotKeySplitter
}

// shared is referenced, never copied, by every node of a stack
type shared struct {
	resolvers  []Resolver
	converters []Converter
	limit      int
	splitter   interpolation.KeySplitter
}

// Context is one scope of the execution context stack
type Context struct {
	parent *Context
	object interface{}
	depth  int
	async  bool
	shared *shared
}

// NewRoot creates the root context for cfg. The root context object is
// cfg.GlobalData, or an empty map if none is configured.
func NewRoot(cfg Config) *Context {
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	splitter := cfg.Splitter
	if splitter == nil {
		splitter = interpolation.DotKeySplitter{}
	}

	global := cfg.GlobalData
	if global == nil {
		global = map[string]interface{}{}
	}

	// Copy slices so later changes to cfg cannot leak into a running render
	resolvers := append([]Resolver(nil), cfg.Resolvers...)
	converters := append([]Converter(nil), cfg.Converters...)

	return &Context{
		object: global,
		shared: &shared{
			resolvers:  resolvers,
			converters: converters,
			limit:      limit,
			splitter:   splitter,
		},
	}
}

// Push returns a new child scope whose context object is obj.
func (c *Context) Push(obj interface{}) *Context {
	return &Context{
		parent: c,
		object: obj,
		depth:  c.depth + 1,
		async:  c.async,
		shared: c.shared,
	}
}

// Parent returns the enclosing scope. Calling it on the root is an error.
func (c *Context) Parent() (*Context, error) {
	if c.parent == nil {
		return nil, problem.New(problem.InvalidPop, "root context has no parent")
	}
	if c.async && !c.parent.async {
		return c.parent.Async(), nil
	}
	return c.parent, nil
}

// Async returns a copy of c marked as rendered by an asynchronous task.
// Scopes pushed on it, and parents returned from them, keep the mark.
func (c *Context) Async() *Context {
	cp := *c
	cp.async = true
	return &cp
}

// IsAsync reports whether c is rendered by an asynchronous task.
func (c *Context) IsAsync() bool {
	return c.async
}

// FirstContextObject returns the context object of this scope.
func (c *Context) FirstContextObject() interface{} {
	return c.object
}

// IsRoot reports whether c is the root scope.
func (c *Context) IsRoot() bool {
	return c.parent == nil
}

// Depth returns the number of scopes pushed on top of the root.
func (c *Context) Depth() int {
	return c.depth
}

// Limit returns the configured recursion limit.
func (c *Context) Limit() int {
	return c.shared.limit
}

// Resolve resolves key against the stack. A miss returns an absent value;
// the only error is problem.RecursionLimitExceeded.
func (c *Context) Resolve(key string) (*Value, error) {
	if c.depth > c.shared.limit {
		return nil, problem.New(problem.RecursionLimitExceeded,
			"context stack depth %d exceeds limit %d while resolving %q", c.depth, c.shared.limit, key)
	}

	parts := c.shared.splitter.Split(key)
	if len(parts) > c.shared.limit {
		return nil, problem.New(problem.RecursionLimitExceeded,
			"key %q has %d segments, limit is %d", key, len(parts), c.shared.limit)
	}
	if len(parts) == 0 {
		return Absent(), nil
	}

	v := &Value{}
	first := parts[0]

	var current interface{}
	if interpolation.IsCurrentScope(first) {
		if len(parts) == 1 {
			return Present(c.object), nil
		}
		current = c.object
	} else {
		found := false
		for s := c; s != nil && !found; s = s.parent {
			if s.object == nil {
				continue
			}
			current, v.resolver, found = c.resolveSegment(s.object, first, &v.hooks)
		}
		if !found {
			v.Release()
			return Absent(), nil
		}
	}

	for _, part := range parts[1:] {
		if current == nil {
			v.Release()
			return Absent(), nil
		}
		var found bool
		current, v.resolver, found = c.resolveSegment(current, part, &v.hooks)
		if !found {
			v.Release()
			return Absent(), nil
		}
	}

	v.value = c.convert(current)
	v.present = true
	return v, nil
}

// resolveSegment asks each resolver in order to resolve name against obj
func (c *Context) resolveSegment(obj interface{}, name string, hooks *ReleaseHooks) (interface{}, Resolver, bool) {
	for _, r := range c.shared.resolvers {
		if value, ok := r.Resolve(obj, name, hooks); ok {
			return value, r, true
		}
	}
	return nil, nil, false
}

// convert applies the first converter that claims v
func (c *Context) convert(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	for _, conv := range c.shared.converters {
		if converted, ok := conv.Convert(v); ok {
			return converted
		}
	}
	return v
}
