package scope

// Resolver resolves a single path segment against a context object. It
// returns false if it does not claim the segment. A claimed segment may
// still resolve to nil.
type Resolver interface {
	Resolve(contextObject interface{}, name string, hooks *ReleaseHooks) (interface{}, bool)
}

// ResolverFunc adapts a function to the Resolver interface
type ResolverFunc func(contextObject interface{}, name string, hooks *ReleaseHooks) (interface{}, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(contextObject interface{}, name string, hooks *ReleaseHooks) (interface{}, bool) {
	return f(contextObject, name, hooks)
}

// Converter transforms a resolved value before it is handed to the caller.
// It returns false if it does not apply to v.
type Converter interface {
	Convert(v interface{}) (interface{}, bool)
}

// ConverterFunc adapts a function to the Converter interface
type ConverterFunc func(v interface{}) (interface{}, bool)

// Convert calls f.
func (f ConverterFunc) Convert(v interface{}) (interface{}, bool) {
	return f(v)
}
