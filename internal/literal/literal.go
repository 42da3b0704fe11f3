// Package literal recognizes literal values in helper arguments.
//
// Anything Support does not recognize is treated by the helper parser as a
// key to resolve against the context at render time.
package literal

import (
	"errors"
	"strconv"
	"strings"
)

// Support classifies argument text as a literal value
type Support interface {
	// Literal returns the value of text and true, or false if text is not a literal.
	Literal(text string) (interface{}, bool)
}

// Default recognizes quoted strings, booleans, integers and floats
type Default struct{}

// Literal implements Support.
func (Default) Literal(text string) (interface{}, bool) {
	if text == "" {
		return nil, false
	}
	if IsQuoted(text) {
		return Unquote(text), true
	}

	switch text {
	case "true":
		return true, true
	case "false":
		return false, true
	}

	if !startsNumber(text) {
		return nil, false
	}
	i, err := strconv.Atoi(text)
	if err == nil {
		return i, true
	}
	// Integers outside the int range are still numbers
	if errors.Is(err, strconv.ErrRange) || strings.ContainsAny(text, ".eE") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f, true
		}
	}
	return nil, false
}

// IsQuoted reports whether text is a complete string literal.
func IsQuoted(text string) bool {
	if len(text) < 2 {
		return false
	}
	q := text[0]
	if q != '"' && q != '\'' {
		return false
	}
	if text[len(text)-1] != q {
		return false
	}
	// The closing quote must not be escaped
	escaped := false
	for i := 1; i < len(text)-1; i++ {
		switch {
		case escaped:
			escaped = false
		case text[i] == '\\':
			escaped = true
		}
	}
	return !escaped
}

// Unquote strips the quotes of a string literal and resolves backslash escapes.
func Unquote(text string) string {
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	escaped := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if !escaped && c == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteByte(c)
	}
	return b.String()
}

// Quote returns s as a double quoted literal that Unquote restores.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

func startsNumber(text string) bool {
	c := text[0]
	if c == '-' || c == '+' {
		if len(text) == 1 {
			return false
		}
		c = text[1]
	}
	return c >= '0' && c <= '9'
}
