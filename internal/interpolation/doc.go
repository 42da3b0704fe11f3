// Package interpolation splits dotted variable keys into path segments.
//
// A key such as "order.customer.name" is resolved one segment at a time:
// the first segment against the context stack, each following segment
// against the value produced by the previous one.
//
//	parts := interpolation.DotKeySplitter{}.Split("order.customer.name")
//	// []string{"order", "customer", "name"}
//
// Two tokens are reserved and always produce a single segment: the separator
// itself (".") and the current scope token ("this"). Both address the object
// currently in focus.
package interpolation
