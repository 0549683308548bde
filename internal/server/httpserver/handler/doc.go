// Package handler implements the HTTP API endpoints of the token
// store: issuing, listing, introspecting and revoking the three record
// kinds, plus health and build information.
package handler
