// Package errors provides coded, actionable errors for the reconciler.
//
// Every error carries a short code (e.g. "E101") registered with a category,
// a one-line message and a longer detail. Callers attach context with the
// builder methods and wrap underlying causes:
//
//	err := errors.New("E103").
//	    WithDetail("SetAttribute(title) rejected").
//	    Wrap(hostErr)
//
// Two errors with the same code compare equal under errors.Is, so package
// level sentinels built with New can be matched against decorated instances.
//
// # Error Codes
//
//   - E1xx: reconciliation (render, patch, keyed diff, host failures)
//   - E2xx: configuration
//   - E3xx: scenario documents and snapshots
//   - E4xx: mirror transport
package errors
