package helpers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/aescanero/dago-node-render/internal/helper"
	"github.com/aescanero/dago-node-render/internal/output"
	"github.com/aymerick/raymond"
	"github.com/yuin/goldmark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// LocaleKey is the context key formatNumber falls back to
const LocaleKey = "locale"

// formatNumberHelper formats its param for the locale selected by the
// "locale" hash key, the "locale" context value or the default locale
type formatNumberHelper struct {
	defaultLocale string
}

func (h *formatNumberHelper) Validate(def helper.Definition) error {
	if err := helper.CheckParams(def, 1, 1); err != nil {
		return err
	}
	if style, ok := def.Hash()["style"].(string); ok {
		switch style {
		case "decimal", "percent", "integer":
		default:
			return fmt.Errorf("formatNumber: unsupported style %q", style)
		}
	}
	return nil
}

func (h *formatNumberHelper) Execute(o helper.Options) error {
	v := o.Params()[0]
	if !isNumber(v) {
		return fmt.Errorf("formatNumber: %v is not a number", v)
	}

	locale, err := h.locale(o)
	if err != nil {
		return err
	}

	var opts []number.Option
	if digits, ok := o.Hash()["maxFraction"]; ok {
		n, ok := toFloat(digits)
		if !ok {
			return fmt.Errorf("formatNumber: maxFraction %v is not a number", digits)
		}
		opts = append(opts, number.MaxFractionDigits(int(n)))
	}

	var formatted interface{}
	switch o.Hash()["style"] {
	case "percent":
		formatted = number.Percent(v, opts...)
	case "integer":
		formatted = number.Decimal(v, append(opts, number.MaxFractionDigits(0))...)
	default:
		formatted = number.Decimal(v, opts...)
	}

	return appendValue(o, message.NewPrinter(locale).Sprint(formatted))
}

func (h *formatNumberHelper) locale(o helper.Options) (language.Tag, error) {
	candidate, ok := o.Hash()[LocaleKey]
	if !ok || candidate == nil {
		val, err := o.Value(LocaleKey)
		if err != nil {
			return language.Und, err
		}
		candidate = val
	}

	switch l := candidate.(type) {
	case language.Tag:
		return l, nil
	case string:
		if l != "" {
			tag, err := language.Parse(l)
			if err != nil {
				return language.Und, fmt.Errorf("formatNumber: invalid locale %q: %w", l, err)
			}
			return tag, nil
		}
	}
	return language.Parse(h.defaultLocale)
}

func isNumber(v interface{}) bool {
	if _, ok := v.(string); ok {
		return false
	}
	_, ok := toFloat(v)
	return ok
}

// markdownHelper converts its param, or its rendered block, to HTML
type markdownHelper struct {
	md goldmark.Markdown
}

func newMarkdownHelper() *markdownHelper {
	return &markdownHelper{md: goldmark.New()}
}

func (h *markdownHelper) Validate(def helper.Definition) error {
	if isSectionDef(def) {
		return helper.CheckParams(def, 0, 0)
	}
	return helper.CheckParams(def, 1, 1)
}

func (h *markdownHelper) Execute(o helper.Options) error {
	var src string
	if len(o.Params()) == 1 {
		src = raymond.Str(o.Params()[0])
	} else {
		buf := &output.Buffer{}
		if err := o.FnTo(buf); err != nil {
			return err
		}
		src = buf.String()
	}

	var html bytes.Buffer
	if err := h.md.Convert([]byte(src), &html); err != nil {
		return fmt.Errorf("failed to convert markdown: %w", err)
	}
	return o.Append(html.String())
}

// quoted renders a string the way a template author would write it
func quoted(s string) string {
	return strconv.Quote(s)
}
