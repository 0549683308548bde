// Package token provides token derivation and key codec utilities.
package token

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AccessKeyPrefix is the backend key namespace for access records.
const AccessKeyPrefix = "access"

// ErrMalformedToken indicates a token that cannot be decoded into a
// backend key.
var ErrMalformedToken = errors.New("token: malformed token")

// DeriveAccessKey derives the backend storage key for an access record.
//
// Format: access:{userId}:{md5hex(userId-ip-nonce-timestampMs)}.
func DeriveAccessKey(userID, ip, nonce string, timestampMs int64) string {
	hash := Digest(fmt.Sprintf("%s-%s-%s-%d", userID, ip, nonce, timestampMs))
	return AccessKeyPrefix + ":" + userID + ":" + hash
}

// DeriveSessionToken derives a session or step token.
//
// Format: md5hex(nonce-timestampMs). The token doubles as the backend key.
func DeriveSessionToken(nonce string, timestampMs int64) string {
	return Digest(fmt.Sprintf("%s-%d", nonce, timestampMs))
}

// EncodeAccessToken encodes a backend storage key into the public token.
func EncodeAccessToken(key string) string {
	return hex.EncodeToString([]byte(key))
}

// DecodeAccessToken recovers the backend storage key from a public token.
//
// Returns ErrMalformedToken if the token is not valid hex or does not
// decode into the access key namespace.
func DecodeAccessToken(accessToken string) (string, error) {
	raw, err := hex.DecodeString(accessToken)
	if err != nil {
		return "", ErrMalformedToken
	}
	key := string(raw)
	if !strings.HasPrefix(key, AccessKeyPrefix+":") {
		return "", ErrMalformedToken
	}
	return key, nil
}

// AccessKeyPattern returns the prefix-scan pattern matching every access
// record key owned by a user.
func AccessKeyPattern(userID string) string {
	return AccessKeyPrefix + ":" + userID + ":*"
}
