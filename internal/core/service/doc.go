// Package service provides the record lifecycle services of the token
// store.
//
// Each record kind (access, session, step) has a dedicated service that
// owns its persistence rules: dirty-gated saves, TTL refreshes that do
// not rewrite the payload, soft-failing resolution, and unconditional
// deletion. Services are the only writers to the storage backend;
// handlers and guards never touch storage directly.
package service
