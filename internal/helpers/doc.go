// Package helpers provides the built-in template helpers.
//
// Builtins returns a registry with every helper below. Helpers validate
// their arity when a template is compiled, so a malformed tag is reported
// before anything renders.
//
// Example usage:
//
//	registry := helpers.Builtins(helpers.Config{DefaultLocale: "en"})
//	engine := template.NewEngine(template.WithHelpers(registry))
//
// Control flow:
//   - if, unless - Render the block depending on the truthiness of a value
//   - each - Render the block once per element of a list or map
//   - with - Render the block with a value pushed as the current scope
//   - when - Render the block if a CEL expression over the hash holds
//   - eq, ne, gt, lt, contains - Comparisons, as block or value tags
//
// Output:
//   - uppercase, lowercase, trim - String transformations
//   - default - Return the second param if the first is empty
//   - join - Join list elements with a separator
//   - len - Length of a string, list or map
//   - formatNumber - Locale-aware number formatting
//   - markdown - Render Markdown to HTML
//
// Composition:
//   - include - Render another template by name
//   - embed - Output the escaped source of another template
//   - async - Render the block on the async executor
//
// Example templates:
//
//	{{#each items}}{{name}}{{else}}none{{/each}}
//	{{formatNumber total locale="de" style="decimal"}}
//	{{#when "hash.count > 3" count=items.length}}many{{else}}few{{/when}}
//	{{#async}}{{slowValue}}{{/async}}
package helpers
