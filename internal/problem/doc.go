// Package problem defines the error taxonomy shared by the render core.
//
// Every failure other than a resolution miss is reported as an *Error carrying
// a Code. Callers match codes with errors.Is or Is:
//
//	if problem.Is(err, problem.PartialNotFound) {
//	    // ...
//	}
//
// Compile-time codes abort template preparation. Render-time codes abort the
// render in progress; the core never attempts partial recovery.
package problem
