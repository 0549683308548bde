// Package token provides token derivation and key codec utilities.
//
// This package implements the token scheme used by the store:
//
// Access tokens:
//
//   - Storage key: access:{userId}:{md5hex(userId-ip-nonce-timestampMs)}
//   - Public token: hex encoding of the storage key (reversible, so the
//     backend key is recoverable from the token without a lookup table)
//
// Session and step tokens:
//
//   - Token: md5hex(nonce-timestampMs); the token itself is the storage key
//
// The 32-byte random nonce makes derived identifiers unpredictable even
// for identical owner, IP and millisecond.
package token
