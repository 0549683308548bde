// Package domain defines the core record models for the token store.
//
// Records are pure value objects without any IO dependencies or
// framework coupling. All persistence goes through the service layer.
//
// Three record variants share the same lifecycle contract:
//
//   - AccessRecord: authenticated user sessions with fingerprint binding,
//     soft revocation and owner-directory enumeration
//   - SessionRecord: named short-lived session records
//   - StepRecord: ordered multi-step workflow records
package domain
