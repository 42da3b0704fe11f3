package helpers

import (
	"github.com/aescanero/dago-node-render/internal/eval/cel"
	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aescanero/dago-node-render/internal/tag"
	"github.com/aymerick/raymond"
)

// DefaultLocale is used by formatNumber when no locale is configured
const DefaultLocale = "en"

// Config configures the built-in helpers
type Config struct {
	DefaultLocale string         // Defaults to DefaultLocale
	Evaluator     *cel.Evaluator // Used by when; created if nil
}

// Builtins returns a registry with every built-in helper
func Builtins(cfg Config) helper.Registry {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = DefaultLocale
	}
	if cfg.Evaluator == nil {
		cfg.Evaluator = cel.NewEvaluator()
	}

	return helper.Registry{
		"if":     ifHelper{},
		"unless": unlessHelper{},
		"each":   eachHelper{},
		"with":   withHelper{},
		"when":   &whenHelper{evaluator: cfg.Evaluator},

		"eq":       compare(2, func(p []interface{}) bool { return raymond.Str(p[0]) == raymond.Str(p[1]) }),
		"ne":       compare(2, func(p []interface{}) bool { return raymond.Str(p[0]) != raymond.Str(p[1]) }),
		"gt":       compare(2, func(p []interface{}) bool { a, b, ok := floats(p); return ok && a > b }),
		"lt":       compare(2, func(p []interface{}) bool { a, b, ok := floats(p); return ok && a < b }),
		"contains": compare(2, containsParams),

		"uppercase": uppercase,
		"lowercase": lowercase,
		"trim":      trim,
		"default":   defaultHelper,
		"join":      join,
		"len":       length,

		"formatNumber": &formatNumberHelper{defaultLocale: cfg.DefaultLocale},
		"markdown":     newMarkdownHelper(),

		"include": includeHelper{},
		"embed":   embedHelper{},
		"async":   asyncHelper{},
	}
}

// appendValue writes v, HTML escaped unless the tag is a triple mustache
func appendValue(o helper.Options, v interface{}) error {
	if v == nil {
		return nil
	}
	str := raymond.Str(v)
	if o.Tag().Type != tag.Unescaped {
		str = raymond.Escape(str)
	}
	return o.Append(str)
}

// requireBlock fails validation of helpers used as value tags
func requireBlock(def helper.Definition) error {
	if def.Tag().Type != tag.Section {
		return errBlockOnly(def.Name())
	}
	return nil
}
