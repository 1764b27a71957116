// Package httputil provides HTTP helpers for the stepflow service.
//
// # Overview
//
//   - [WriteJSON]: encode a value as a JSON response
//   - [WriteError]: map an error to a status code and a JSON error body
//   - [RequestID]: middleware that assigns every request an id
//
// # Errors
//
// [WriteError] uses the code carried by a [errors.Error] to choose the
// status (see [errors.HTTPStatus]) and writes
//
//	{"error": {"code": "INVALID_INPUT", "message": "..."}}
//
// Internal errors never expose their cause; the message is replaced by a
// generic one.
//
// # Request IDs
//
// [RequestID] keeps an incoming X-Request-ID header, or generates a random
// UUID when the header is absent, echoes it on the response, and stores it
// on the request context for [RequestIDFrom].
//
// [errors.Error]: github.com/matzehuels/stepflow/pkg/errors.Error
// [errors.HTTPStatus]: github.com/matzehuels/stepflow/pkg/errors.HTTPStatus
package httputil
