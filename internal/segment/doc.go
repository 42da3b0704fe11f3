// Package segment implements the executable tree of a compiled template.
//
// A template is a Block of segments executed in document order against an
// execution context. Every segment returns the sink following segments must
// write to: it only changes when a helper starts asynchronous work.
//
// Segments:
//   - Text - literal template text
//   - Value - {{key}} and {{{key}}}
//   - Section - {{#key}}...{{else}}...{{/key}} and {{^key}}...{{/key}}
//   - Helper - a tag handled by a registered helper, with or without a block
//   - Partial - {{> id}} and {{> id key}}
//
// Values are converted to text with raymond.Str and HTML escaped with
// raymond.Escape; section truthiness follows raymond.IsTrue.
package segment
