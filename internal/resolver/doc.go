// Package resolver provides the default resolvers of the render engine.
//
// Resolvers are tried in order by scope.Context; the first one claiming a
// segment wins. Default returns the chain used when none is configured:
//
//	ctx := scope.NewRoot(scope.Config{Resolvers: resolver.Default()})
//
// Available resolvers:
//   - Map - entries of maps keyed by strings
//   - Index - elements of slices and arrays by numeric segment, and "length"
//   - Reflection - exported struct fields and zero-argument methods
package resolver
