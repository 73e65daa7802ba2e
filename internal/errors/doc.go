// Package errors provides structured, actionable error messages for the
// starter CLI and server.
//
// Every error carries a code (e.g. "E100") registered with a category, a
// short message and a longer explanation. Call sites add detail and a
// suggestion:
//
//	err := errors.New("E103").
//	    WithDetail(`base path "/a/../b" contains a dot segment`).
//	    WithSuggestion(`Use a plain prefix such as "/app"`)
//
// Format renders an error for the terminal; FormatCompact and FormatJSON
// are meant for logs.
//
// # Error Codes
//
//	E100-E109  configuration
//	E110-E119  routing
//	E120-E129  session protocol
//	E130-E139  deployment
package errors
