package template

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aescanero/dago-node-render/internal/helpers"
	"github.com/aescanero/dago-node-render/internal/literal"
	"github.com/aescanero/dago-node-render/internal/output"
	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/aescanero/dago-node-render/internal/resolver"
	"github.com/aescanero/dago-node-render/internal/scope"
	"github.com/aescanero/dago-node-render/internal/segment"
	"github.com/aescanero/dago-node-render/internal/source"
	"go.uber.org/zap"
)

// InlineName is the template name of sources rendered with Render
const InlineName = "inline"

// Engine compiles and renders templates
type Engine struct {
	cache map[string]*segment.Template // inline templates by source
	named map[string]*segment.Template // located templates by id
	mu    sync.RWMutex

	scope   scope.Config
	env     *helper.Env
	locator source.Locator
	logger  *zap.Logger

	locale   string
	extra    helper.Registry
	literals literal.Support
	executor helper.Executor
}

// Option configures an Engine
type Option func(*Engine)

// WithResolvers replaces the default resolvers
func WithResolvers(resolvers ...scope.Resolver) Option {
	return func(e *Engine) {
		e.scope.Resolvers = resolvers
	}
}

// WithConverters sets the converters applied to resolved values
func WithConverters(converters ...scope.Converter) Option {
	return func(e *Engine) {
		e.scope.Converters = converters
	}
}

// WithGlobalData sets the context object of the root scope
func WithGlobalData(data interface{}) Option {
	return func(e *Engine) {
		e.scope.GlobalData = data
	}
}

// WithRecursionLimit bounds path segments, stack depth and partial nesting
func WithRecursionLimit(limit int) Option {
	return func(e *Engine) {
		e.scope.Limit = limit
	}
}

// WithHelpers registers helpers, replacing built-ins of the same name
func WithHelpers(registry helper.Registry) Option {
	return func(e *Engine) {
		for name, h := range registry {
			e.extra[name] = h
		}
	}
}

// WithLiterals replaces the literal support used to classify helper arguments
func WithLiterals(literals literal.Support) Option {
	return func(e *Engine) {
		e.literals = literals
	}
}

// WithExecutor sets the executor of asynchronous helpers
func WithExecutor(executor helper.Executor) Option {
	return func(e *Engine) {
		e.executor = executor
	}
}

// WithLocator sets where named templates and partials are loaded from
func WithLocator(locator source.Locator) Option {
	return func(e *Engine) {
		e.locator = locator
	}
}

// WithDefaultLocale sets the locale of formatNumber
func WithDefaultLocale(locale string) Option {
	return func(e *Engine) {
		e.locale = locale
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a new template engine
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		cache:  make(map[string]*segment.Template),
		named:  make(map[string]*segment.Template),
		scope:  scope.Config{Resolvers: resolver.Default()},
		logger: zap.NewNop(),
		locale: helpers.DefaultLocale,
		extra:  helper.Registry{},
	}
	for _, opt := range opts {
		opt(engine)
	}

	// Register built-in helpers
	registry := helpers.Builtins(helpers.Config{DefaultLocale: engine.locale})
	for name, h := range engine.extra {
		registry[name] = h
	}

	engine.env = &helper.Env{
		Helpers:  registry,
		Literals: engine.literals,
		Executor: engine.executor,
		Partials: engine,
		Logger:   engine.logger,
	}

	return engine
}

// Render renders a template source with the given data
func (e *Engine) Render(templateStr string, data interface{}) (string, error) {
	// Get or compile template
	tmpl, err := e.getTemplate(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to compile template: %w", err)
	}

	var sb strings.Builder
	if err := e.render(tmpl, &sb, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return sb.String(), nil
}

// RenderTemplate renders the located template id with the given data
func (e *Engine) RenderTemplate(id string, data interface{}) (string, error) {
	var sb strings.Builder
	if err := e.Execute(&sb, id, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Execute renders the located template id into w
func (e *Engine) Execute(w io.Writer, id string, data interface{}) error {
	tmpl, ok, err := e.getNamed(id)
	if err != nil {
		return fmt.Errorf("failed to compile template %s: %w", id, err)
	}
	if !ok {
		return problem.New(problem.PartialNotFound, "no template found for the given key: %s", id)
	}

	if err := e.render(tmpl, w, data); err != nil {
		return fmt.Errorf("template %s execution failed: %w", id, err)
	}
	return nil
}

// render pushes data on a fresh root scope and flushes every pending
// asynchronous output before returning
func (e *Engine) render(tmpl *segment.Template, w io.Writer, data interface{}) error {
	ctx := scope.NewRoot(e.scope).Push(data)

	out, err := tmpl.Execute(output.NewWriterSink(w), ctx)
	if err != nil {
		return err
	}
	if err := output.Flush(out); err != nil {
		if problem.CodeOf(err) != "" {
			return err
		}
		return problem.Wrap(problem.RenderIO, err, "failed to flush template %s", tmpl.Name())
	}
	return nil
}

// Partial implements helper.Partials.
func (e *Engine) Partial(id string) (helper.Template, bool, error) {
	tmpl, ok, err := e.getNamed(id)
	if err != nil || !ok {
		return nil, ok, err
	}
	return tmpl, true, nil
}

// Source implements helper.Partials.
func (e *Engine) Source(id string) (string, bool, error) {
	if e.locator == nil {
		return "", false, nil
	}
	return e.locator.Source(id)
}

// Compile compiles src as the template name without caching it
func (e *Engine) Compile(name, src string) (*segment.Template, error) {
	return compile(name, src, e.env, e)
}

// getTemplate gets a compiled template from cache or compiles it
func (e *Engine) getTemplate(templateStr string) (*segment.Template, error) {
	// Check cache first (read lock)
	e.mu.RLock()
	if tmpl, ok := e.cache[templateStr]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	// Compile the template (write lock)
	e.mu.Lock()
	defer e.mu.Unlock()

	// Check again in case another goroutine compiled it
	if tmpl, ok := e.cache[templateStr]; ok {
		return tmpl, nil
	}

	tmpl, err := compile(InlineName, templateStr, e.env, e)
	if err != nil {
		return nil, err
	}

	// Cache the template
	e.cache[templateStr] = tmpl

	return tmpl, nil
}

// getNamed gets a located template from cache or loads and compiles it
func (e *Engine) getNamed(id string) (*segment.Template, bool, error) {
	e.mu.RLock()
	if tmpl, ok := e.named[id]; ok {
		e.mu.RUnlock()
		return tmpl, true, nil
	}
	e.mu.RUnlock()

	src, ok, err := e.Source(id)
	if err != nil || !ok {
		return nil, false, err
	}

	tmpl, err := compile(id, src, e.env, e)
	if err != nil {
		return nil, false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Keep the first compiled version if another goroutine won the race
	if cached, ok := e.named[id]; ok {
		return cached, true, nil
	}
	e.named[id] = tmpl

	e.logger.Debug("compiled template", zap.String("template", id))

	return tmpl, true, nil
}

// Invalidate drops the compiled template id
func (e *Engine) Invalidate(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.named, id)
}

// ValidateTemplate validates a template without rendering it
func (e *Engine) ValidateTemplate(templateStr string) error {
	_, err := compile(InlineName, templateStr, e.env, e)
	return err
}

// ClearCache clears the compiled template cache
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]*segment.Template)
	e.named = make(map[string]*segment.Template)
}
