// Package errors provides coded, actionable errors for imui.
//
// Every failure the module reports carries a short code (e.g. "E001") that
// maps to a registered template:
//   - A short message describing the error
//   - A longer explanation of the usual cause
//   - A category (reconcile, config, script, cli)
//
// # Fatal violations
//
// Reconciliation violations (stack overflow, unbalanced Pop, a render that
// does not return to depth zero) are raised as panics carrying an *Error.
// They indicate a malformed declarative function and are never recovered
// inside the library. Callers that want a clean exit recover at the top of
// their program and print the error:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        if err, ok := r.(*errors.Error); ok {
//	            errors.PrintError(err)
//	            os.Exit(2)
//	        }
//	        panic(r)
//	    }
//	}()
//
// # Usage
//
//	err := errors.New("E002").
//	    WithDetail("Pop called at depth 0").
//	    WithSuggestion("Match every Panel call with exactly one Pop")
//
//	fmt.Println(err.Format())
package errors
