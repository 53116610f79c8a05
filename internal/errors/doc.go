// Package errors provides structured, coded errors for livetree.
//
// Every failure the module reports carries a short code (e.g. "E101") that
// maps to a registered template with a category, a one-line message and a
// longer explanation. The reconciliation core never returns these errors to
// callers; it logs them, counts them and hands them to the configured error
// handler. Configuration loading and the CLI return them directly.
//
// # Usage
//
//	err := errors.New("E101").
//	    WithField("region", tag).
//	    WithSuggestion("Do not remove sentinel comments from a managed region")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Region start sentinel missing
//	//
//	//   region: 0192...
//	//
//	//   The start comment of a managed region is no longer a child of
//	//   the region's parent...
package errors
