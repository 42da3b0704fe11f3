package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Map(t *testing.T) {
	m := Map{"header": "<h1>{{title}}</h1>"}

	src, ok, err := m.Source("header")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<h1>{{title}}</h1>", src)

	_, ok, err = m.Source("footer")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_Chain(t *testing.T) {
	c := Chain{Map{"a": "first"}, Map{"a": "second", "b": "other"}}

	src, ok, err := c.Source("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first", src)

	src, ok, err = c.Source("b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "other", src)

	_, ok, err = c.Source("c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func Test_FS(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mail", "welcome.hbs"), "Hello {{name}}")

	f := NewFS(dir, ".hbs", nil)

	t.Run("should read templates by identifier", func(t *testing.T) {
		src, ok, err := f.Source("mail/welcome")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Hello {{name}}", src)
	})

	t.Run("should report missing templates", func(t *testing.T) {
		_, ok, err := f.Source("mail/missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should refuse identifiers escaping the root", func(t *testing.T) {
		_, ok, err := f.Source("../secret")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should map file names back to identifiers", func(t *testing.T) {
		id, ok := f.identifier(filepath.Join(dir, "mail", "welcome.hbs"))
		assert.True(t, ok)
		assert.Equal(t, "mail/welcome", id)

		_, ok = f.identifier(filepath.Join(dir, "notes.txt"))
		assert.False(t, ok)
	})
}

func Test_FS_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.hbs")
	writeFile(t, path, "v1")

	f := NewFS(dir, ".hbs", nil)
	changed := make(chan string, 16)
	require.NoError(t, f.Watch(func(id string) { changed <- id }))
	defer f.Close()

	_, ok, err := f.Source("page")
	require.NoError(t, err)
	require.True(t, ok)

	writeFile(t, path, "v2")

	select {
	case id := <-changed:
		assert.Equal(t, "page", id)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

// fakeGetter serves keys from a map
type fakeGetter struct {
	values map[string]string
	err    error
	keys   []string
}

func (f *fakeGetter) Get(ctx context.Context, key string) *redis.StringCmd {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func Test_Redis(t *testing.T) {
	t.Run("should read prefixed keys", func(t *testing.T) {
		g := &fakeGetter{values: map[string]string{"tpl:header": "<h1>{{title}}</h1>"}}
		r := NewRedis(g, "tpl:", 0)

		src, ok, err := r.Source("header")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "<h1>{{title}}</h1>", src)
		assert.Equal(t, []string{"tpl:header"}, g.keys)
	})

	t.Run("should treat missing keys as no template", func(t *testing.T) {
		r := NewRedis(&fakeGetter{values: map[string]string{}}, "tpl:", time.Second)
		_, ok, err := r.Source("footer")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should return client errors", func(t *testing.T) {
		cause := errors.New("connection refused")
		r := NewRedis(&fakeGetter{err: cause}, "tpl:", time.Second)
		_, _, err := r.Source("footer")
		assert.ErrorIs(t, err, cause)
	})
}
