// Package errors provides structured, actionable error messages for the
// signals command line tool.
//
// Engine errors (package reactive) are plain sentinels meant for programs.
// This package turns them into errors meant for people: each has a code,
// a plain-language explanation and a hint on how to fix it.
//
// # Error Categories
//
// Errors are organized into categories:
//   - runtime: Engine errors (use after dispose, cycles, pass limit, missing context)
//   - config: Configuration loading and validation errors
//   - fetch: Resource fetch errors
//   - cli: Command line usage errors
//
// # Usage
//
//	err := errors.Classify(rt.Flush(), "X002")
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R002: Cyclic dependency detected
//	//
//	//   Cause: read memo b: signals: cyclic dependency
//	//
//	//   Evaluating a memo required the value of a memo that was already
//	//   being evaluated. ...
//	//
//	//   Hint: Break the cycle by reading one of the values with Peek or Untracked.
package errors
