// Package tag describes template tags as produced by the parser.
package tag

import "fmt"

// Type is the syntactic type of a tag
type Type int

const (
	// Variable is an escaped value tag: {{name}}
	Variable Type = iota
	// Unescaped is a raw value tag: {{{name}}}
	Unescaped
	// Section opens a block: {{#name}}
	Section
	// InvertedSection opens an inverted block: {{^name}}
	InvertedSection
	// SectionEnd closes a block: {{/name}}
	SectionEnd
	// Partial includes another template: {{> name}}
	Partial
	// Comment is ignored on output: {{! text}}
	Comment
	// Helper is a value tag invoking a helper with arguments: {{name arg key=val}}
	Helper
)

var typeNames = map[Type]string{
	Variable:        "variable",
	Unescaped:       "unescaped",
	Section:         "section",
	InvertedSection: "inverted_section",
	SectionEnd:      "section_end",
	Partial:         "partial",
	Comment:         "comment",
	Helper:          "helper",
}

// String returns the name of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParsedTag is the raw content of a tag and its type
type ParsedTag struct {
	Content string
	Type    Type
}

// String returns a string representation of the tag.
func (p ParsedTag) String() string {
	return fmt.Sprintf("ParsedTag{Content=%s, Type=%s}", p.Content, p.Type)
}

// Info locates a tag within its template
type Info struct {
	ParsedTag
	Template string // Name of the template the tag belongs to
	Line     int    // 1-based line number, 0 if unknown
}

// Origin returns the call site used in error messages.
func (i Info) Origin() string {
	return fmt.Sprintf("[template: %s, line: %d]", i.Template, i.Line)
}
