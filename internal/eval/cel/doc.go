// Package cel provides a CEL (Common Expression Language) evaluator for template conditions.
//
// CEL is a non-Turing complete expression language that provides fast, safe evaluation
// of conditions. The "when" helper uses it to decide which block of a tag to render.
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//
//	vars := map[string]interface{}{
//	    "hash": map[string]interface{}{
//	        "count": 5,
//	        "status": "active",
//	    },
//	}
//
//	result, err := evaluator.Evaluate(ctx, "hash.count > 3 && hash.status == 'active'", vars)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	matched := result.(bool) // true
//
// Declared variables:
//   - hash - the bound hash arguments of the helper tag
//   - this - the current context object, when it is a map
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - String operations: contains, startsWith, endsWith, matches
//   - Arithmetic: +, -, *, /, %
//   - List operations: in, size
//   - Map access: hash.field, hash["field"]
package cel
