// Package template compiles Handlebars templates into segments and renders them.
//
// Templates are parsed with the raymond Handlebars parser and compiled into
// a tree of segments. Helper tags are classified once, at compile time, and
// compiled templates are cached. Rendering resolves values through a stack
// of scopes and the configured resolvers, and flushes the output of
// asynchronous helpers in document order.
//
// Example usage:
//
//	p := pool.New(4, logger)
//	defer p.Close()
//
//	engine := template.NewEngine(
//	    template.WithExecutor(p),
//	    template.WithLocator(source.NewFS("/etc/templates", ".hbs", logger)),
//	    template.WithGlobalData(map[string]interface{}{"site": "example.org"}),
//	)
//
//	data := map[string]interface{}{
//	    "user": map[string]interface{}{"name": "Ann"},
//	    "items": []interface{}{"a", "b"},
//	}
//
//	result, err := engine.Render("Hello {{user.name}}: {{join items \", \"}}", data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Output: Hello Ann: a, b
//
// Supported syntax:
//   - {{key}} and {{{key}}} - Escaped and unescaped values, dotted keys and this
//   - {{#key}}...{{else}}...{{/key}} - Sections over lists, booleans and objects
//   - {{^key}}...{{/key}} - Inverted sections
//   - {{> name}} and {{> name key}} - Partials, optionally with a context
//   - {{helper param key=value}} - Helper calls with literal or key arguments
//   - {{! comment}} - Comments
//
// Sub-expressions, parent paths (../) and data variables (@index) are
// rejected when the template is compiled.
package template
