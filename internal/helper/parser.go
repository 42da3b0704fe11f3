package helper

import (
	"strings"

	"github.com/aescanero/dago-node-render/internal/literal"
	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/aescanero/dago-node-render/internal/tag"
)

// Split tokenizes helper tag content on whitespace outside string literals.
// An unterminated literal is an error.
func Split(content string) ([]string, error) {
	var parts []string
	var quote byte
	escaped := false
	inToken := false
	start := 0

	for i := 0; i < len(content); i++ {
		c := content[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch {
		case isSpace(c):
			if inToken {
				parts = append(parts, content[start:i])
				inToken = false
			}
		case c == '"' || c == '\'':
			if !inToken {
				inToken = true
				start = i
			}
			quote = c
		default:
			if !inToken {
				inToken = true
				start = i
			}
		}
	}

	if quote != 0 {
		return nil, problem.New(problem.UnterminatedLiteral, "unterminated string literal in %q", content)
	}
	if inToken {
		parts = append(parts, content[start:])
	}
	return parts, nil
}

// HashKeyPosition returns the index of the first '=' of token that is not
// part of a string literal, or -1.
func HashKeyPosition(token string) int {
	var quote byte
	escaped := false
	for i := 0; i < len(token); i++ {
		c := token[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '=':
			return i
		}
	}
	return -1
}

// checkArg rejects argument text that starts a string literal without
// being exactly one
func checkArg(text string, info tag.Info) error {
	if (text[0] == '"' || text[0] == '\'') && !literal.IsQuoted(text) {
		return problem.New(problem.InvalidHashKey, "malformed string literal %s", text).At(info.Origin())
	}
	return nil
}

// Name returns the helper name of tag content, "" if there is none.
func Name(content string) string {
	parts, err := Split(content)
	if err != nil || len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// NewHandler classifies the helper tag described by info. It returns nil
// without an error when the first token does not name a registered helper.
// block and inverse may be nil.
func NewHandler(info tag.Info, env *Env, block, inverse Block) (*Handler, error) {
	parts, err := Split(info.Content)
	if err != nil {
		return nil, withOrigin(err, info)
	}
	if len(parts) == 0 {
		return nil, nil
	}

	h, ok := env.Helpers[parts[0]]
	if !ok {
		return nil, nil
	}

	def := &definition{
		name:    parts[0],
		info:    info,
		block:   block,
		inverse: inverse,
		params:  []interface{}{},
		hash:    map[string]interface{}{},
	}

	lits := env.literals()
	for _, part := range parts[1:] {
		pos := HashKeyPosition(part)
		if pos == -1 {
			if err := checkArg(part, info); err != nil {
				return nil, err
			}
			def.params = append(def.params, classify(part, lits, &def.paramPlaceholders))
			continue
		}
		if pos == 0 {
			return nil, problem.New(problem.InvalidHashKey, "hash argument %q has no key", part).At(info.Origin())
		}
		if pos == len(part)-1 {
			return nil, problem.New(problem.InvalidHashKey, "hash argument %q has no value", part).At(info.Origin())
		}
		key := part[:pos]
		if strings.ContainsAny(key, `"'`) {
			return nil, problem.New(problem.InvalidHashKey, "hash key %s must not be quoted", key).At(info.Origin())
		}
		if err := checkArg(part[pos+1:], info); err != nil {
			return nil, err
		}
		if _, dup := def.hash[key]; dup {
			return nil, problem.New(problem.InvalidHashKey, "duplicate hash key %q", key).At(info.Origin())
		}
		def.hash[key] = classify(part[pos+1:], lits, &def.hashPlaceholders)
	}

	if err := h.Validate(def); err != nil {
		if problem.CodeOf(err) == problem.HelperValidation {
			return nil, withOrigin(err, info)
		}
		return nil, problem.Wrap(problem.HelperValidation, err, "helper %q rejected its definition", def.name).At(info.Origin())
	}

	return &Handler{helper: h, def: def, env: env}, nil
}

// classify returns the literal value of text or a Placeholder for it
func classify(text string, lits literal.Support, placeholderFound *bool) interface{} {
	if v, ok := lits.Literal(text); ok {
		return v
	}
	*placeholderFound = true
	return Placeholder{Key: text}
}

// withOrigin attaches the call site to a core error that has none
func withOrigin(err error, info tag.Info) error {
	return problem.WithOrigin(err, info.Origin())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
