// Package cmap provides a concurrent-safe sharded map keyed by string.
//
// Sharding reduces lock contention under concurrent record traffic,
// performing better than a single RWMutex-guarded map for the hot
// get/set/delete path of the in-memory backend.
package cmap
