// Package token provides token derivation and key codec utilities.
package token

import (
	"strings"
	"testing"
)

func TestNonce(t *testing.T) {
	nonce, err := Nonce()
	if err != nil {
		t.Fatalf("Nonce() error = %v", err)
	}

	// 32 bytes hex encoded = 64 characters
	if len(nonce) != NonceLength*2 {
		t.Errorf("Nonce length = %d, want %d", len(nonce), NonceLength*2)
	}
}

func TestNonce_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		nonce, err := Nonce()
		if err != nil {
			t.Fatalf("Nonce() error = %v", err)
		}
		if seen[nonce] {
			t.Errorf("Duplicate nonce generated: %q", nonce)
		}
		seen[nonce] = true
	}
}

func TestDigest(t *testing.T) {
	// md5 hex digests are 32 characters and deterministic
	d1 := Digest("hello")
	d2 := Digest("hello")
	if d1 != d2 {
		t.Errorf("Digest not deterministic: %q != %q", d1, d2)
	}
	if len(d1) != 32 {
		t.Errorf("Digest length = %d, want 32", len(d1))
	}
	if Digest("other") == d1 {
		t.Error("Distinct inputs should produce distinct digests")
	}
}

func TestDeriveAccessKey(t *testing.T) {
	key := DeriveAccessKey("user-1", "10.0.0.1", "abcd", 1700000000000)

	if !strings.HasPrefix(key, "access:user-1:") {
		t.Errorf("Key should be namespaced under owner, got %q", key)
	}

	// Hash part is a 32-character md5 hex digest
	hash := strings.TrimPrefix(key, "access:user-1:")
	if len(hash) != 32 {
		t.Errorf("Hash length = %d, want 32", len(hash))
	}
}

func TestDeriveAccessKey_NonceDivergence(t *testing.T) {
	// Identical owner, IP and millisecond must still diverge by nonce.
	k1 := DeriveAccessKey("user-1", "10.0.0.1", "nonce-a", 1700000000000)
	k2 := DeriveAccessKey("user-1", "10.0.0.1", "nonce-b", 1700000000000)
	if k1 == k2 {
		t.Error("Keys with distinct nonces should diverge")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	key := DeriveAccessKey("user-1", "10.0.0.1", "abcd", 1700000000000)
	accessToken := EncodeAccessToken(key)

	decoded, err := DecodeAccessToken(accessToken)
	if err != nil {
		t.Fatalf("DecodeAccessToken() error = %v", err)
	}
	if decoded != key {
		t.Errorf("Round trip = %q, want %q", decoded, key)
	}
}

func TestDecodeAccessToken_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not hex", "zzzz"},
		{"empty", ""},
		{"wrong namespace", EncodeAccessToken("session:user-1:abc")},
		{"odd length hex", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeAccessToken(tt.token); err == nil {
				t.Errorf("DecodeAccessToken(%q) should fail", tt.token)
			}
		})
	}
}

func TestAccessKeyPattern(t *testing.T) {
	if got := AccessKeyPattern("user-1"); got != "access:user-1:*" {
		t.Errorf("AccessKeyPattern = %q, want %q", got, "access:user-1:*")
	}
}

func TestDeriveSessionToken(t *testing.T) {
	tok := DeriveSessionToken("nonce", 1700000000000)
	if len(tok) != 32 {
		t.Errorf("Token length = %d, want 32", len(tok))
	}
	if DeriveSessionToken("nonce2", 1700000000000) == tok {
		t.Error("Distinct nonces should produce distinct tokens")
	}
}
