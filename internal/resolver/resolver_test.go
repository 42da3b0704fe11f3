package resolver

import (
	"errors"
	"testing"

	"github.com/aescanero/dago-node-render/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customer struct {
	Name    string
	private string
	Address *address
}

type address struct {
	City string
}

func (c customer) Greeting() string { return "Hello " + c.Name }

func (c *customer) Broken() (string, error) { return "", errors.New("boom") }

type labels map[string]int

func Test_Map(t *testing.T) {
	t.Run("should resolve entries of string keyed maps", func(t *testing.T) {
		v, ok := Map{}.Resolve(map[string]interface{}{"a": 1}, "a", nil)
		assert.True(t, ok)
		assert.Equal(t, 1, v)

		v, ok = Map{}.Resolve(labels{"b": 2}, "b", nil)
		assert.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("should not claim missing keys or other types", func(t *testing.T) {
		_, ok := Map{}.Resolve(map[string]interface{}{}, "a", nil)
		assert.False(t, ok)
		_, ok = Map{}.Resolve(map[int]string{1: "x"}, "1", nil)
		assert.False(t, ok)
		_, ok = Map{}.Resolve("text", "a", nil)
		assert.False(t, ok)
	})
}

func Test_Index(t *testing.T) {
	items := []string{"a", "b"}

	v, ok := Index{}.Resolve(items, "1", nil)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = Index{}.Resolve(&items, LengthKey, nil)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = Index{}.Resolve(items, "2", nil)
	assert.False(t, ok)
	_, ok = Index{}.Resolve([2]int{1, 2}, "x", nil)
	assert.False(t, ok)
}

func Test_Reflection(t *testing.T) {
	c := &customer{Name: "Ana", private: "x", Address: &address{City: "Lisbon"}}

	t.Run("should resolve exported fields in lower camel case", func(t *testing.T) {
		v, ok := Reflection{}.Resolve(c, "name", nil)
		assert.True(t, ok)
		assert.Equal(t, "Ana", v)
	})

	t.Run("should resolve zero argument methods", func(t *testing.T) {
		v, ok := Reflection{}.Resolve(*c, "greeting", nil)
		assert.True(t, ok)
		assert.Equal(t, "Hello Ana", v)
	})

	t.Run("should claim a failing accessor with a nil value", func(t *testing.T) {
		v, ok := Reflection{}.Resolve(c, "broken", nil)
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("should not claim unexported or unknown members", func(t *testing.T) {
		_, ok := Reflection{}.Resolve(c, "private", nil)
		assert.False(t, ok)
		_, ok = Reflection{}.Resolve(c, "missing", nil)
		assert.False(t, ok)
	})
}

func Test_Default_Chain(t *testing.T) {
	root := scope.NewRoot(scope.Config{Resolvers: Default()})
	ctx := root.Push(map[string]interface{}{
		"customers": []*customer{{Name: "Ana", Address: &address{City: "Lisbon"}}},
	})

	v, err := ctx.Resolve("customers.0.address.city")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", v.Get())

	v, err = ctx.Resolve("customers.length")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Get())
}
