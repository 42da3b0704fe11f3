package helpers

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aymerick/raymond"
)

// valueFunc is a helper computing one value from its params
type valueFunc struct {
	lo, hi int
	fn     func(params []interface{}) interface{}
}

func (v *valueFunc) Validate(def helper.Definition) error {
	return helper.CheckParams(def, v.lo, v.hi)
}

func (v *valueFunc) Execute(o helper.Options) error {
	return appendValue(o, v.fn(o.Params()))
}

var (
	uppercase = &valueFunc{lo: 1, hi: 1, fn: func(p []interface{}) interface{} {
		return strings.ToUpper(raymond.Str(p[0]))
	}}

	lowercase = &valueFunc{lo: 1, hi: 1, fn: func(p []interface{}) interface{} {
		return strings.ToLower(raymond.Str(p[0]))
	}}

	trim = &valueFunc{lo: 1, hi: 1, fn: func(p []interface{}) interface{} {
		return strings.TrimSpace(raymond.Str(p[0]))
	}}

	// default returns the second param if the first is empty
	defaultHelper = &valueFunc{lo: 2, hi: 2, fn: func(p []interface{}) interface{} {
		if p[0] == nil || p[0] == "" {
			return p[1]
		}
		return p[0]
	}}

	// join joins list elements with a separator, "," by default
	join = &valueFunc{lo: 1, hi: 2, fn: func(p []interface{}) interface{} {
		sep := ","
		if len(p) == 2 {
			sep = raymond.Str(p[1])
		}
		items := elements(p[0])
		strs := make([]string, len(items))
		for i, v := range items {
			strs[i] = raymond.Str(v)
		}
		return strings.Join(strs, sep)
	}}

	length = &valueFunc{lo: 1, hi: 1, fn: func(p []interface{}) interface{} {
		if s, ok := p[0].(string); ok {
			return len(s)
		}
		if p[0] == nil {
			return 0
		}
		rv := reflect.ValueOf(p[0])
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len()
		}
		return 0
	}}
)

func containsParams(p []interface{}) bool {
	if s, ok := p[0].(string); ok {
		return strings.Contains(s, raymond.Str(p[1]))
	}
	needle := raymond.Str(p[1])
	for _, item := range elements(p[0]) {
		if raymond.Str(item) == needle {
			return true
		}
	}
	return false
}

// floats converts both params to float64
func floats(p []interface{}) (float64, float64, bool) {
	a, ok := toFloat(p[0])
	if !ok {
		return 0, 0, false
	}
	b, ok := toFloat(p[1])
	return a, b, ok
}

func toFloat(v interface{}) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
