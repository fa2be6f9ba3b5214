// Package errs defines custom error types and utilities.
//
// Its purpose is to give every failure a consistent JSON shape
// so clients receive meaningful, actionable error messages.
//
//   - Return consistent error shapes to API clients (JSON).
//   - Support per-field validation messages.
//   - Provide errors that play nicely with Go's standard errors package.
package errs
