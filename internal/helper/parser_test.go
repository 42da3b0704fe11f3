package helper

import (
	"errors"
	"testing"

	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/aescanero/dago-node-render/internal/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helperTag(content string) tag.Info {
	return tag.Info{
		ParsedTag: tag.ParsedTag{Content: content, Type: tag.Helper},
		Template:  "test",
		Line:      3,
	}
}

func Test_Split(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{content: "name", want: []string{"name"}},
		{content: "  fmt  a.b   c ", want: []string{"fmt", "a.b", "c"}},
		{content: `say "hello world" 'it''s'`, want: []string{"say", `"hello world"`, `'it''s'`}},
		{content: `say "a \" b" x`, want: []string{"say", `"a \" b"`, "x"}},
		{content: `link title="Read more" url=page.url`, want: []string{"link", `title="Read more"`, "url=page.url"}},
		{content: "tabs\tand\nnewlines", want: []string{"tabs", "and", "newlines"}},
		{content: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			got, err := Split(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("should reject unterminated literals", func(t *testing.T) {
		for _, content := range []string{`myHelper "unterminated`, `h key='open`, `h "escaped\"`} {
			_, err := Split(content)
			assert.True(t, problem.Is(err, problem.UnterminatedLiteral), content)
		}
	})
}

func Test_HashKeyPosition(t *testing.T) {
	assert.Equal(t, 3, HashKeyPosition("key=value"))
	assert.Equal(t, 3, HashKeyPosition(`key="a=b"`))
	assert.Equal(t, -1, HashKeyPosition(`"a=b"`))
	assert.Equal(t, 3, HashKeyPosition(`"a"=1`))
	assert.Equal(t, 5, HashKeyPosition(`"\"="=v`))
	assert.Equal(t, -1, HashKeyPosition("plain"))
	assert.Equal(t, 0, HashKeyPosition("=value"))
}

func Test_Name(t *testing.T) {
	assert.Equal(t, "each", Name("each items"))
	assert.Equal(t, "", Name(`bad "open`))
	assert.Equal(t, "", Name("   "))
}

// recordingHelper keeps the definition it validated
type recordingHelper struct {
	def      Definition
	validate error
}

func (r *recordingHelper) Validate(def Definition) error {
	r.def = def
	return r.validate
}

func (r *recordingHelper) Execute(Options) error { return nil }

func Test_NewHandler(t *testing.T) {
	t.Run("should classify literals and placeholders", func(t *testing.T) {
		rec := &recordingHelper{}
		env := &Env{Helpers: Registry{"fmt": rec}}

		h, err := NewHandler(helperTag(`fmt "x" 42 true user.name style="short" width=col.width`), env, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.Equal(t, "fmt", h.Name())

		def := rec.def
		assert.Equal(t, []interface{}{"x", 42, true, Placeholder{Key: "user.name"}}, def.Params())
		assert.Equal(t, map[string]interface{}{
			"style": "short",
			"width": Placeholder{Key: "col.width"},
		}, def.Hash())
		assert.Equal(t, "", def.ContentLiteralBlock())
	})

	t.Run("should treat unknown helper names as no helper call", func(t *testing.T) {
		h, err := NewHandler(helperTag("unknown a b"), &Env{Helpers: Registry{}}, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, h)
	})

	t.Run("should fail classification of an unterminated literal before any render", func(t *testing.T) {
		env := &Env{Helpers: Registry{"myHelper": &recordingHelper{}}}
		_, err := NewHandler(helperTag(`myHelper "unterminated`), env, nil, nil)
		require.Error(t, err)
		assert.True(t, problem.Is(err, problem.UnterminatedLiteral))
		assert.Contains(t, err.Error(), "[template: test, line: 3]")
	})

	t.Run("should reject invalid hash arguments", func(t *testing.T) {
		env := &Env{Helpers: Registry{"h": &recordingHelper{}}}
		for _, content := range []string{
			"h =value", "h key=", "h k=1 k=2",
			`h "a"=1`, `h 'k'=v`, `h k"x"=1`,
			`h "abc"def`, `h k="a"b`,
		} {
			_, err := NewHandler(helperTag(content), env, nil, nil)
			assert.True(t, problem.Is(err, problem.InvalidHashKey), content)
		}
	})

	t.Run("should abort when the helper rejects its definition", func(t *testing.T) {
		cause := errors.New("wrong arity")
		env := &Env{Helpers: Registry{"h": &recordingHelper{validate: cause}}}

		_, err := NewHandler(helperTag("h a b"), env, nil, nil)
		require.Error(t, err)
		assert.True(t, problem.Is(err, problem.HelperValidation))
		assert.ErrorIs(t, err, cause)
	})
}

func Test_CheckParams(t *testing.T) {
	def := &definition{name: "h", params: []interface{}{1, 2}, hash: map[string]interface{}{"a": 1}}

	assert.NoError(t, CheckParams(def, 2, 2))
	assert.NoError(t, CheckParams(def, 1, -1))
	assert.EqualError(t, CheckParams(def, 1, 1), "h expects 1 parameter(s), got 2")
	assert.EqualError(t, CheckParams(def, 3, -1), "h expects at least 3 parameter(s), got 2")
	assert.EqualError(t, CheckParams(def, 0, 1), "h expects between 0 and 1 parameters, got 2")

	assert.NoError(t, CheckHash(def, "a"))
	assert.EqualError(t, CheckHash(def, "a", "b"), `h requires hash key "b"`)
}
