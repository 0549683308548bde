// Package token provides token derivation and key codec utilities.
package token

import (
	"crypto/rand"
	"encoding/hex"
)

// NonceLength is the number of random bytes in a record nonce.
const NonceLength = 32

// Nonce generates a cryptographically secure random nonce.
//
// The returned nonce is hex encoded (64 characters for 32 bytes).
func Nonce() (string, error) {
	return NonceWithLength(NonceLength)
}

// NonceWithLength generates a nonce with the specified byte length.
func NonceWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
