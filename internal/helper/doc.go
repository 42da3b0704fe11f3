// Package helper implements the helper invocation protocol.
//
// A helper tag such as
//
//	{{formatNumber order.total style="decimal" locale=user.locale}}
//
// is classified once, when its template is compiled: the first token names
// the helper, every further token becomes a positional parameter or, when it
// has a "key=" prefix, a hash entry. Tokens recognized by literal.Support are
// fixed values; every other token is a Placeholder resolved against the
// execution context each time the tag is rendered.
//
//	h, err := helper.NewHandler(info, env, block, inverse)
//	if err != nil {
//	    return err // malformed definition, the template cannot be compiled
//	}
//	if h == nil {
//	    // not a helper call, render the tag as a plain variable
//	}
//
// At render time Handler.Execute binds the placeholders, calls the helper
// with an Options value and afterwards releases every resolved value exactly
// once. Options is the capability surface helpers work with:
//   - Params, Hash - bound arguments
//   - Append - write to the current sink
//   - Fn, FnTo, Inverse - render the enclosed blocks
//   - Push, Pop, Peek - manipulate the context stack
//   - Value - resolve an extra key
//   - Partial, PartialTo, Source - include other templates
//   - ExecuteAsync - render part of the output on the configured Executor
//
// Helpers must not modify the slices and maps returned by Params and Hash:
// when a tag has no placeholders they are shared by every render.
package helper
