// Package storage provides the key-value backend abstraction the token
// store persists records through.
//
// Three implementations exist:
//
//   - redis: the deployment target, a network redis server
//   - badger: an embedded engine with native per-key TTL, for
//     single-node deployments without a redis
//   - memory: an in-process map, for tests and development
//
// The backend guarantees atomicity only at the single-command level. A
// load-mutate-save cycle is not atomic end to end; concurrent writers
// for the same key are last-write-wins.
package storage
