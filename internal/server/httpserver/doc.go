// Package httpserver provides the HTTP server for the token store.
//
// It uses the Go standard library net/http for implementation. Token
// guards wrap the management endpoints: each guard extracts a token
// from the request, resolves its record, verifies it and attaches it to
// the request context, then settles the record after the handler runs
// (auto-save, TTL refresh, or deletion).
package httpserver
