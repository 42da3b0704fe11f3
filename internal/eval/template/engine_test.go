package template

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aescanero/dago-node-render/internal/output"
	"github.com/aescanero/dago-node-render/internal/pool"
	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/aescanero/dago-node-render/internal/scope"
	"github.com/aescanero/dago-node-render/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name  string
	Admin bool
}

func (u user) Greeting() string {
	return "Hi " + u.Name
}

func Test_Render(t *testing.T) {
	engine := NewEngine(WithGlobalData(map[string]interface{}{"site": "example.org"}))

	data := map[string]interface{}{
		"name":  "Ann",
		"html":  "<b>bold</b>",
		"title": "Root",
		"show":  false,
		"empty": []interface{}{},
		"user":  map[string]interface{}{"name": "Bob"},
		"items": []interface{}{
			map[string]interface{}{"name": "a"},
			map[string]interface{}{"name": "b"},
		},
		"tags":    []string{"x", "y"},
		"account": user{Name: "Cy", Admin: true},
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{name: "variables", template: "Hello {{name}}!", want: "Hello Ann!"},
		{name: "escaping", template: "{{html}}|{{{html}}}", want: "&lt;b&gt;bold&lt;/b&gt;|<b>bold</b>"},
		{name: "missing values", template: "[{{missing}}][{{user.missing.deep}}]", want: "[][]"},
		{name: "dotted keys", template: "{{user.name}}", want: "Bob"},
		{name: "list sections", template: "{{#items}}{{name}},{{/items}}", want: "a,b,"},
		{name: "boolean sections", template: "{{#show}}yes{{else}}no{{/show}}", want: "no"},
		{name: "inverted sections", template: "{{^empty}}none{{/empty}}", want: "none"},
		{name: "object sections", template: "{{#user}}{{this.name}} {{name}}{{/user}}", want: "Bob Bob"},
		{name: "outer scope lookup", template: "{{#user}}{{title}}{{/user}}", want: "Root"},
		{name: "global data", template: "{{#user}}{{site}}{{/user}}", want: "example.org"},
		{name: "struct fields and methods", template: "{{account.name}} {{account.greeting}}", want: "Cy Hi Cy"},
		{name: "list length", template: "{{tags.length}} {{items.length}}", want: "2 2"},
		{name: "comments", template: "a{{! ignored }}b", want: "ab"},
		{name: "helpers", template: "{{uppercase name}} {{join tags \" - \"}}", want: "ANN x - y"},
		{name: "block helpers", template: "{{#each tags}}[{{.}}]{{/each}}{{#if account.admin}}!{{/if}}", want: "[x][y]!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Render(tt.template, data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Render_Converters(t *testing.T) {
	upper := scope.ConverterFunc(func(v interface{}) (interface{}, bool) {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return strings.ToUpper(s), true
	})
	engine := NewEngine(WithConverters(upper))

	got, err := engine.Render("{{name}}", map[string]interface{}{"name": "ann"})
	require.NoError(t, err)
	assert.Equal(t, "ANN", got)
}

func Test_Partials(t *testing.T) {
	templates := source.Map{
		"header": "<h1>{{title}}</h1>",
		"item":   "<li>{{name}}</li>",
		"loop":   "x{{> loop}}",
		"page":   "{{> header}}body",
	}
	engine := NewEngine(WithLocator(templates), WithRecursionLimit(8))

	t.Run("should render partials against the current scope", func(t *testing.T) {
		got, err := engine.Render("{{> header}}content", map[string]interface{}{"title": "T"})
		require.NoError(t, err)
		assert.Equal(t, "<h1>T</h1>content", got)
	})

	t.Run("should push the partial context", func(t *testing.T) {
		data := map[string]interface{}{"first": map[string]interface{}{"name": "a"}}
		got, err := engine.Render("<ul>{{> item first}}</ul>", data)
		require.NoError(t, err)
		assert.Equal(t, "<ul><li>a</li></ul>", got)
	})

	t.Run("should render named templates", func(t *testing.T) {
		got, err := engine.RenderTemplate("page", map[string]interface{}{"title": "P"})
		require.NoError(t, err)
		assert.Equal(t, "<h1>P</h1>body", got)
	})

	t.Run("should fail on missing partials", func(t *testing.T) {
		_, err := engine.Render("{{> nope}}", nil)
		require.Error(t, err)
		assert.True(t, problem.Is(err, problem.PartialNotFound))
		assert.Contains(t, err.Error(), "no partial found for the given key: nope")

		_, err = engine.RenderTemplate("nope", nil)
		assert.True(t, problem.Is(err, problem.PartialNotFound))
	})

	t.Run("should bound recursive partials", func(t *testing.T) {
		_, err := engine.RenderTemplate("loop", nil)
		require.Error(t, err)
		assert.True(t, problem.Is(err, problem.RecursionLimitExceeded))
	})

	t.Run("should include and embed templates by name", func(t *testing.T) {
		got, err := engine.Render(`{{include "header"}}|{{embed "item"}}`, map[string]interface{}{"title": "T"})
		require.NoError(t, err)
		assert.Equal(t, "<h1>T</h1>|&lt;li&gt;{{name}}&lt;/li&gt;", got)
	})
}

func Test_Invalidate(t *testing.T) {
	templates := source.Map{"greeting": "v1 {{name}}"}
	engine := NewEngine(WithLocator(templates))
	data := map[string]interface{}{"name": "Ann"}

	got, err := engine.RenderTemplate("greeting", data)
	require.NoError(t, err)
	assert.Equal(t, "v1 Ann", got)

	templates["greeting"] = "v2 {{name}}"
	got, err = engine.RenderTemplate("greeting", data)
	require.NoError(t, err)
	assert.Equal(t, "v1 Ann", got, "compiled template stays cached")

	engine.Invalidate("greeting")
	got, err = engine.RenderTemplate("greeting", data)
	require.NoError(t, err)
	assert.Equal(t, "v2 Ann", got)
}

func Test_Cache(t *testing.T) {
	engine := NewEngine()

	for i := 0; i < 3; i++ {
		_, err := engine.Render("{{name}}", nil)
		require.NoError(t, err)
	}
	assert.Len(t, engine.cache, 1)

	engine.ClearCache()
	assert.Empty(t, engine.cache)
}

func Test_CompileErrors(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		template string
		code     problem.Code
	}{
		{name: "unclosed section", template: "{{#each items}}x", code: problem.InvalidTemplate},
		{name: "sub-expression", template: "{{uppercase (lowercase name)}}", code: problem.InvalidTemplate},
		{name: "parent path", template: "{{#user}}{{../name}}{{/user}}", code: problem.InvalidTemplate},
		{name: "helper arity", template: "{{#if}}x{{/if}}", code: problem.HelperValidation},
		{name: "block helper as value", template: "{{each items}}", code: problem.HelperValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.ValidateTemplate(tt.template)
			require.Error(t, err)
			assert.True(t, problem.Is(err, tt.code), err.Error())

			_, err = engine.Render(tt.template, nil)
			assert.True(t, problem.Is(err, tt.code), err.Error())
		})
	}

	t.Run("should report the template origin", func(t *testing.T) {
		err := engine.ValidateTemplate("line one\n{{#if}}x{{/if}}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[template: inline, line: 2]")
	})
}

// delayed appends its first param after sleeping its second param in milliseconds
var delayed = helper.Func(func(o helper.Options) error {
	return o.ExecuteAsync(func(ao helper.Options) error {
		ms, _ := ao.Params()[1].(int)
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return ao.Append(fmt.Sprint(ao.Params()[0]))
	})
})

func Test_Async(t *testing.T) {
	p := pool.New(4, nil)
	defer p.Close()

	engine := NewEngine(
		WithExecutor(p),
		WithHelpers(helper.Registry{"delayed": delayed}),
	)

	t.Run("should keep nested async output in document order", func(t *testing.T) {
		tmpl := "A{{#async}}B{{#async}}C{{#async}}{{d}}{{/async}}E{{/async}}F{{/async}}G"
		got, err := engine.Render(tmpl, map[string]interface{}{"d": "D"})
		require.NoError(t, err)
		assert.Equal(t, "ABCDEFG", got)
	})

	t.Run("should keep sequential async output in document order", func(t *testing.T) {
		got, err := engine.Render(`[{{delayed "1" 30}}|{{delayed "2" 1}}|{{delayed "3" 10}}]`, nil)
		require.NoError(t, err)
		assert.Equal(t, "[1|2|3]", got)
	})

	t.Run("should render async blocks inside sections", func(t *testing.T) {
		data := map[string]interface{}{"items": []interface{}{"a", "b", "c"}}
		got, err := engine.Render("{{#each items}}{{#async}}{{.}}{{/async}}-{{/each}}", data)
		require.NoError(t, err)
		assert.Equal(t, "a-b-c-", got)
	})

	t.Run("should fail without an executor", func(t *testing.T) {
		_, err := NewEngine().Render("{{#async}}x{{/async}}", nil)
		require.Error(t, err)
		assert.True(t, problem.Is(err, problem.AsyncProcessing))
	})
}

// wrap renders its block asynchronously and encloses it in angle brackets
var wrap = helper.Func(func(o helper.Options) error {
	return o.ExecuteAsync(func(ao helper.Options) error {
		buf := &output.Buffer{}
		if err := ao.FnTo(buf); err != nil {
			return err
		}
		return ao.Append("<" + buf.String() + ">")
	})
})

// renderWithin fails the test when the render does not finish in time
func renderWithin(t *testing.T, engine *Engine, tmpl string) (string, error) {
	t.Helper()
	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := engine.Render(tmpl, nil)
		done <- result{out, err}
	}()
	select {
	case r := <-done:
		return r.out, r.err
	case <-time.After(5 * time.Second):
		t.Fatalf("render of %q did not finish", tmpl)
		return "", nil
	}
}

func Test_Async_SingleWorker(t *testing.T) {
	p := pool.New(1, nil)
	defer p.Close()

	engine := NewEngine(
		WithExecutor(p),
		WithHelpers(helper.Registry{"wrap": wrap}),
	)

	t.Run("should flush nested async output from inside a task", func(t *testing.T) {
		got, err := renderWithin(t, engine, "a{{#wrap}}{{#async}}x{{/async}}{{/wrap}}b")
		require.NoError(t, err)
		assert.Equal(t, "a<x>b", got)
	})

	t.Run("should flush through sync helpers called from a task", func(t *testing.T) {
		got, err := renderWithin(t, engine, "{{#async}}{{#markdown}}{{#async}}x{{/async}}{{/markdown}}{{/async}}")
		require.NoError(t, err)
		assert.Contains(t, got, "<p>x</p>")
	})

	t.Run("should run sibling tasks one after another", func(t *testing.T) {
		got, err := renderWithin(t, engine, "{{#wrap}}1{{/wrap}}{{#wrap}}{{#wrap}}2{{/wrap}}{{/wrap}}")
		require.NoError(t, err)
		assert.Equal(t, "<1><<2>>", got)
	})
}
