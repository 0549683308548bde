// Package token provides token derivation and key codec utilities.
package token

import (
	"crypto/md5"
	"encoding/hex"
)

// Digest computes the md5 hex digest of a string.
//
// md5 is used for identifier derivation only, never for secrecy;
// unpredictability comes from the random nonce mixed into the input.
func Digest(input string) string {
	h := md5.Sum([]byte(input))
	return hex.EncodeToString(h[:])
}
