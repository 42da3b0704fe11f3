package segment

import (
	"reflect"
	"strings"

	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aescanero/dago-node-render/internal/output"
	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/aescanero/dago-node-render/internal/scope"
	"github.com/aescanero/dago-node-render/internal/tag"
	"github.com/aymerick/raymond"
)

// Segment is a node of a compiled template
type Segment interface {
	Execute(s output.Sink, ctx *scope.Context) (output.Sink, error)
	// Literal returns the template source the segment was compiled from.
	Literal() string
}

// Block is a sequence of segments. It implements helper.Block.
type Block []Segment

// Fn executes the segments in order.
func (b Block) Fn(s output.Sink, ctx *scope.Context) (output.Sink, error) {
	var err error
	for _, seg := range b {
		if s, err = seg.Execute(s, ctx); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Literal returns the concatenated source of the segments.
func (b Block) Literal() string {
	var sb strings.Builder
	for _, seg := range b {
		sb.WriteString(seg.Literal())
	}
	return sb.String()
}

// Text is literal template text
type Text struct {
	text   string
	origin string
}

// NewText creates a text segment starting at line of template
func NewText(text, template string, line int) *Text {
	origin := tag.Info{Template: template, Line: line}.Origin()
	return &Text{text: text, origin: origin}
}

// Execute implements Segment.
func (t *Text) Execute(s output.Sink, _ *scope.Context) (output.Sink, error) {
	if err := s.Append(t.text); err != nil {
		return s, problem.Wrap(problem.RenderIO, err, "failed to append text").At(t.origin)
	}
	return s, nil
}

// Literal implements Segment.
func (t *Text) Literal() string {
	return t.text
}

// Value outputs the value of a key
type Value struct {
	info tag.Info
}

// NewValue creates a value segment. Tags of type tag.Unescaped are not HTML escaped.
func NewValue(info tag.Info) *Value {
	return &Value{info: info}
}

// Execute implements Segment. Absent and nil values produce no output.
func (v *Value) Execute(s output.Sink, ctx *scope.Context) (output.Sink, error) {
	val, err := ctx.Resolve(v.info.Content)
	if err != nil {
		return s, problem.WithOrigin(err, v.info.Origin())
	}
	defer val.Release()

	if val.IsAbsent() || val.Get() == nil {
		return s, nil
	}

	str := raymond.Str(val.Get())
	if v.info.Type != tag.Unescaped {
		str = raymond.Escape(str)
	}
	if err := s.Append(str); err != nil {
		return s, problem.Wrap(problem.RenderIO, err, "failed to append value of %q", v.info.Content).At(v.info.Origin())
	}
	return s, nil
}

// Literal implements Segment.
func (v *Value) Literal() string {
	if v.info.Type == tag.Unescaped {
		return "{{{" + v.info.Content + "}}}"
	}
	return "{{" + v.info.Content + "}}"
}

// Section renders its block for truthy values and its inverse block otherwise
type Section struct {
	info    tag.Info
	block   Block
	inverse Block
}

// NewSection creates a section segment. Either block may be nil.
func NewSection(info tag.Info, block, inverse Block) *Section {
	return &Section{info: info, block: block, inverse: inverse}
}

// Execute implements Segment. Slices and arrays render the block once per
// element with the element pushed; booleans render it against the current
// scope; any other truthy value is pushed and rendered once.
func (sec *Section) Execute(s output.Sink, ctx *scope.Context) (output.Sink, error) {
	val, err := ctx.Resolve(sec.info.Content)
	if err != nil {
		return s, problem.WithOrigin(err, sec.info.Origin())
	}
	defer val.Release()

	v := val.Get()
	if val.IsAbsent() || !raymond.IsTrue(v) {
		return sec.inverse.Fn(s, ctx)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if s, err = sec.block.Fn(s, ctx.Push(rv.Index(i).Interface())); err != nil {
				return s, err
			}
		}
		return s, nil
	case reflect.Bool:
		return sec.block.Fn(s, ctx)
	default:
		return sec.block.Fn(s, ctx.Push(v))
	}
}

// Literal implements Segment.
func (sec *Section) Literal() string {
	open := "{{#"
	if sec.info.Type == tag.InvertedSection {
		open = "{{^"
	}
	var sb strings.Builder
	sb.WriteString(open + sec.info.Content + "}}")
	sb.WriteString(sec.block.Literal())
	if len(sec.inverse) > 0 {
		sb.WriteString("{{else}}")
		sb.WriteString(sec.inverse.Literal())
	}
	sb.WriteString("{{/" + sec.info.Content + "}}")
	return sb.String()
}

// Helper delegates to a helper.Handler
type Helper struct {
	info    tag.Info
	handler *helper.Handler
	block   Block
	inverse Block
}

// NewHelper creates a helper segment. The blocks are only used to
// reconstruct the source; the handler renders them through helper.Options.
func NewHelper(info tag.Info, handler *helper.Handler, block, inverse Block) *Helper {
	return &Helper{info: info, handler: handler, block: block, inverse: inverse}
}

// Execute implements Segment.
func (h *Helper) Execute(s output.Sink, ctx *scope.Context) (output.Sink, error) {
	return h.handler.Execute(s, ctx)
}

// Literal implements Segment.
func (h *Helper) Literal() string {
	switch h.info.Type {
	case tag.Unescaped:
		return "{{{" + h.info.Content + "}}}"
	case tag.Section:
	default:
		return "{{" + h.info.Content + "}}"
	}
	var sb strings.Builder
	sb.WriteString("{{#" + h.info.Content + "}}")
	sb.WriteString(h.block.Literal())
	if len(h.inverse) > 0 {
		sb.WriteString("{{else}}")
		sb.WriteString(h.inverse.Literal())
	}
	sb.WriteString("{{/" + h.handler.Name() + "}}")
	return sb.String()
}

// Partial renders another template against the current scope
type Partial struct {
	info       tag.Info
	id         string
	contextKey string
	partials   helper.Partials
}

// NewPartial creates a partial segment rendering template id. A non-empty
// contextKey is resolved and pushed before rendering.
func NewPartial(info tag.Info, id, contextKey string, partials helper.Partials) *Partial {
	return &Partial{info: info, id: id, contextKey: contextKey, partials: partials}
}

// Execute implements Segment. Every partial adds a scope, so the recursion
// limit also bounds recursive partial inclusion.
func (p *Partial) Execute(s output.Sink, ctx *scope.Context) (output.Sink, error) {
	if ctx.Depth() >= ctx.Limit() {
		return s, problem.New(problem.RecursionLimitExceeded,
			"partial %s exceeds the recursion limit %d", p.id, ctx.Limit()).At(p.info.Origin())
	}
	if p.partials == nil {
		return s, problem.New(problem.PartialNotFound, "no partial found for the given key: %s", p.id).At(p.info.Origin())
	}

	t, ok, err := p.partials.Partial(p.id)
	if err != nil {
		return s, problem.Wrap(problem.PartialNotFound, err, "failed to load partial %s", p.id).At(p.info.Origin())
	}
	if !ok {
		return s, problem.New(problem.PartialNotFound, "no partial found for the given key: %s", p.id).At(p.info.Origin())
	}

	obj := ctx.FirstContextObject()
	if p.contextKey != "" {
		val, err := ctx.Resolve(p.contextKey)
		if err != nil {
			return s, problem.WithOrigin(err, p.info.Origin())
		}
		defer val.Release()
		obj = val.Get()
	}
	return t.Execute(s, ctx.Push(obj))
}

// Literal implements Segment.
func (p *Partial) Literal() string {
	return "{{>" + p.info.Content + "}}"
}

// Template is a compiled template. It implements helper.Template.
type Template struct {
	name string
	root Block
}

// NewTemplate creates a template named name
func NewTemplate(name string, root Block) *Template {
	return &Template{name: name, root: root}
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Root returns the top-level segments.
func (t *Template) Root() Block {
	return t.root
}

// Execute renders the template against ctx.
func (t *Template) Execute(s output.Sink, ctx *scope.Context) (output.Sink, error) {
	return t.root.Fn(s, ctx)
}

// Literal returns the source the template was compiled from.
func (t *Template) Literal() string {
	return t.root.Literal()
}
