// Package scope implements the execution context used while rendering.
//
// A Context is a node of a persistent, singly linked stack of scopes. The
// root scope holds the engine-wide global data; every Push returns a new
// child and never modifies the receiver, so a node may be shared freely by
// the code that created it.
//
//	root := scope.NewRoot(scope.Config{
//	    Resolvers: resolver.Default(),
//	    Limit:     32,
//	})
//
//	ctx := root.Push(map[string]interface{}{"a": map[string]interface{}{"b": 42}})
//	v, err := ctx.Resolve("a.b")
//	if err != nil {
//	    log.Fatal(err) // recursion limit exceeded
//	}
//	defer v.Release()
//	fmt.Println(v.Get()) // 42
//
// Resolution of a key:
//   - "." or "this" returns the current context object without consulting resolvers
//   - the first segment is searched from the current scope down to the root;
//     in each scope resolvers are tried in order and the first one claiming the
//     segment wins
//   - every further segment is resolved against the previous value
//   - a miss produces an absent Value, never an error
//
// The configured limit bounds both the number of segments in one key and the
// depth of the stack a lookup may run on. Exceeding it is an error.
package scope
