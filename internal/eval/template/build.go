package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aescanero/dago-node-render/internal/literal"
	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/aescanero/dago-node-render/internal/segment"
	"github.com/aescanero/dago-node-render/internal/tag"
	"github.com/aymerick/raymond/ast"
	"github.com/aymerick/raymond/parser"
)

// builder turns a parsed Handlebars program into segments. Helper tags are
// classified here, once per compiled template.
type builder struct {
	name     string
	env      *helper.Env
	partials helper.Partials
}

// compile parses src and builds the template name
func compile(name, src string, env *helper.Env, partials helper.Partials) (*segment.Template, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return nil, problem.Wrap(problem.InvalidTemplate, err, "failed to parse template %s", name)
	}

	b := &builder{name: name, env: env, partials: partials}
	root, err := b.program(program)
	if err != nil {
		return nil, err
	}
	return segment.NewTemplate(name, root), nil
}

func (b *builder) program(p *ast.Program) (segment.Block, error) {
	if p == nil {
		return nil, nil
	}

	block := make(segment.Block, 0, len(p.Body))
	for _, n := range p.Body {
		seg, err := b.node(n)
		if err != nil {
			return nil, err
		}
		if seg != nil {
			block = append(block, seg)
		}
	}
	return block, nil
}

func (b *builder) node(n ast.Node) (segment.Segment, error) {
	switch n := n.(type) {
	case *ast.ContentStatement:
		if n.Value == "" {
			return nil, nil
		}
		return segment.NewText(n.Value, b.name, n.Location().Line), nil
	case *ast.CommentStatement:
		return nil, nil
	case *ast.MustacheStatement:
		return b.mustache(n)
	case *ast.BlockStatement:
		return b.block(n)
	case *ast.PartialStatement:
		return b.partial(n)
	}
	return nil, b.unsupported(n.Location().Line, "statement %T", n)
}

func (b *builder) info(content string, typ tag.Type, line int) tag.Info {
	return tag.Info{
		ParsedTag: tag.ParsedTag{Content: content, Type: typ},
		Template:  b.name,
		Line:      line,
	}
}

func (b *builder) mustache(n *ast.MustacheStatement) (segment.Segment, error) {
	line := n.Location().Line
	content, err := b.content(n.Expression, line)
	if err != nil {
		return nil, err
	}

	typ := tag.Helper
	if n.Unescaped {
		typ = tag.Unescaped
	}
	info := b.info(content, typ, line)
	h, err := helper.NewHandler(info, b.env, nil, nil)
	if err != nil {
		return nil, err
	}
	if h != nil {
		return segment.NewHelper(info, h, nil, nil), nil
	}

	if !n.Unescaped {
		info.Type = tag.Variable
	}
	return segment.NewValue(info), nil
}

func (b *builder) block(n *ast.BlockStatement) (segment.Segment, error) {
	line := n.Location().Line
	content, err := b.content(n.Expression, line)
	if err != nil {
		return nil, err
	}

	block, err := b.program(n.Program)
	if err != nil {
		return nil, err
	}
	inverse, err := b.program(n.Inverse)
	if err != nil {
		return nil, err
	}

	info := b.info(content, tag.Section, line)
	h, err := helper.NewHandler(info, b.env, block, inverse)
	if err != nil {
		return nil, err
	}
	if h != nil {
		return segment.NewHelper(info, h, block, inverse), nil
	}

	if n.Program == nil {
		info.Type = tag.InvertedSection
	}
	return segment.NewSection(info, block, inverse), nil
}

func (b *builder) partial(n *ast.PartialStatement) (segment.Segment, error) {
	line := n.Location().Line

	var id string
	switch name := n.Name.(type) {
	case *ast.PathExpression:
		id = name.Original
	case *ast.StringLiteral:
		id = name.Value
	default:
		return nil, b.unsupported(line, "dynamic partial name")
	}

	if n.Hash != nil && len(n.Hash.Pairs) > 0 {
		return nil, b.unsupported(line, "hash arguments of partial %s", id)
	}
	if len(n.Params) > 1 {
		return nil, b.unsupported(line, "more than one context for partial %s", id)
	}

	content := id
	var contextKey string
	if len(n.Params) == 1 {
		path, ok := n.Params[0].(*ast.PathExpression)
		if !ok {
			return nil, b.unsupported(line, "literal context for partial %s", id)
		}
		key, err := b.path(path, line)
		if err != nil {
			return nil, err
		}
		contextKey = key
		content += " " + key
	}

	return segment.NewPartial(b.info(content, tag.Partial, line), id, contextKey, b.partials), nil
}

// content rebuilds the tag content the helper parser understands
func (b *builder) content(expr *ast.Expression, line int) (string, error) {
	head, err := b.arg(expr.Path, line)
	if err != nil {
		return "", err
	}

	parts := []string{head}
	for _, p := range expr.Params {
		s, err := b.arg(p, line)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if expr.Hash != nil {
		for _, pair := range expr.Hash.Pairs {
			s, err := b.arg(pair.Val, line)
			if err != nil {
				return "", err
			}
			parts = append(parts, pair.Key+"="+s)
		}
	}
	return strings.Join(parts, " "), nil
}

func (b *builder) arg(n ast.Node, line int) (string, error) {
	switch v := n.(type) {
	case *ast.PathExpression:
		return b.path(v, line)
	case *ast.StringLiteral:
		return literal.Quote(v.Value), nil
	case *ast.BooleanLiteral:
		return strconv.FormatBool(v.Value), nil
	case *ast.NumberLiteral:
		if v.Original != "" {
			return v.Original, nil
		}
		return strconv.FormatFloat(v.Value, 'f', -1, 64), nil
	case *ast.SubExpression:
		return "", b.unsupported(line, "sub-expression")
	}
	return "", b.unsupported(line, "argument %T", n)
}

// path returns the dotted key of a path expression
func (b *builder) path(p *ast.PathExpression, line int) (string, error) {
	if p.Data {
		return "", b.unsupported(line, "data variable %s", p.Original)
	}
	if p.Depth > 0 {
		return "", b.unsupported(line, "parent path %s", p.Original)
	}

	// Parts drops the separators and the brackets of segment literals
	key := strings.Join(p.Parts, ".")
	switch {
	case p.Scoped && key == "":
		return "this", nil
	case p.Scoped:
		return "this." + key, nil
	case key == "":
		return p.Original, nil
	}
	return key, nil
}

func (b *builder) unsupported(line int, format string, args ...interface{}) error {
	origin := b.info("", tag.Variable, line).Origin()
	return problem.New(problem.InvalidTemplate, "unsupported %s", fmt.Sprintf(format, args...)).At(origin)
}
