package resolver

import (
	"reflect"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/aescanero/dago-node-render/internal/scope"
)

// LengthKey resolves to the length of a slice or array
const LengthKey = "length"

// Default returns the default resolver chain
func Default() []scope.Resolver {
	return []scope.Resolver{Map{}, Index{}, Reflection{}}
}

// Map resolves entries of maps with string keys
type Map struct{}

// Resolve implements scope.Resolver.
func (Map) Resolve(obj interface{}, name string, _ *scope.ReleaseHooks) (interface{}, bool) {
	switch m := obj.(type) {
	case map[string]interface{}:
		v, ok := m[name]
		return v, ok
	case map[string]string:
		v, ok := m[name]
		return v, ok
	}

	rv := indirect(reflect.ValueOf(obj))
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// Index resolves elements of slices and arrays
type Index struct{}

// Resolve implements scope.Resolver.
func (Index) Resolve(obj interface{}, name string, _ *scope.ReleaseHooks) (interface{}, bool) {
	rv := indirect(reflect.ValueOf(obj))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if name == LengthKey {
		return rv.Len(), true
	}
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 || i >= rv.Len() {
		return nil, false
	}
	return rv.Index(i).Interface(), true
}

// Reflection resolves exported struct fields and zero-argument methods. The
// segment may be written in lower camel case: "name" resolves field Name.
type Reflection struct{}

// Resolve implements scope.Resolver.
func (Reflection) Resolve(obj interface{}, name string, _ *scope.ReleaseHooks) (interface{}, bool) {
	if obj == nil || name == "" {
		return nil, false
	}
	exported := capitalize(name)

	rv := reflect.ValueOf(obj)
	if v, ok := callMethod(rv, exported); ok {
		return v, true
	}

	rv = indirect(rv)
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	if v, ok := callMethod(rv, exported); ok {
		return v, true
	}
	f := rv.FieldByName(exported)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

// callMethod calls a zero-argument method returning one value, or a value and an error
func callMethod(rv reflect.Value, name string) (interface{}, bool) {
	if !rv.IsValid() {
		return nil, false
	}
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return nil, false
	}
	t := m.Type()
	if t.NumIn() != 0 {
		return nil, false
	}
	switch t.NumOut() {
	case 1:
		return m.Call(nil)[0].Interface(), true
	case 2:
		if !t.Out(1).Implements(reflect.TypeOf((*error)(nil)).Elem()) {
			return nil, false
		}
		out := m.Call(nil)
		if !out[1].IsNil() {
			// A failing accessor resolves to nothing but still claims the key
			return nil, true
		}
		return out[0].Interface(), true
	}
	return nil, false
}

// indirect dereferences pointers and interfaces
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
