// Package httputil provides shared JSON response helpers for the HTTP
// layer. Every error body is the `{"message": "..."}` envelope the
// client consumes.
package httputil
