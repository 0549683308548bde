// Package shutdown coordinates graceful process shutdown.
package shutdown
