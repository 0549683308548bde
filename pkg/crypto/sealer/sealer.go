// Package sealer provides authenticated encryption for record payloads
// stored at rest in the embedded backend.
//
// The algorithm is selected by hardware capability: AES-GCM where AES
// hardware acceleration is available, ChaCha20-Poly1305 otherwise. The
// backend key is bound in as additional data, so a sealed payload cannot
// be replayed under a different token.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm identifies the AEAD algorithm.
type Algorithm string

const (
	AlgorithmAESGCM   Algorithm = "aes-gcm"
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the required key length in bytes.
const KeySize = 32

var (
	// ErrInvalidKeySize indicates a key that is not KeySize bytes.
	ErrInvalidKeySize = errors.New("sealer: key must be 32 bytes")

	// ErrCiphertextTooShort indicates a sealed payload shorter than a nonce.
	ErrCiphertextTooShort = errors.New("sealer: ciphertext too short")
)

// Sealer seals and opens record payloads.
type Sealer struct {
	aead cipher.AEAD
	alg  Algorithm
}

// New creates a Sealer, selecting the algorithm by hardware capability.
func New(key []byte) (*Sealer, error) {
	if hasAESAcceleration() {
		return NewWithAlgorithm(key, AlgorithmAESGCM)
	}
	return NewWithAlgorithm(key, AlgorithmChaCha20)
}

// NewWithAlgorithm creates a Sealer with an explicit algorithm.
func NewWithAlgorithm(key []byte, alg Algorithm) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	switch alg {
	case AlgorithmAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		return &Sealer{aead: aead, alg: alg}, nil

	case AlgorithmChaCha20:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, err
		}
		return &Sealer{aead: aead, alg: alg}, nil

	default:
		return nil, errors.New("sealer: unknown algorithm: " + string(alg))
	}
}

// Algorithm returns the selected algorithm.
func (s *Sealer) Algorithm() Algorithm {
	return s.alg
}

// Seal encrypts a payload. The nonce is prepended to the ciphertext.
func (s *Sealer) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open decrypts a sealed payload produced by Seal.
func (s *Sealer) Open(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < s.aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce := ciphertext[:s.aead.NonceSize()]
	return s.aead.Open(nil, nonce, ciphertext[s.aead.NonceSize():], additionalData)
}

// hasAESAcceleration reports whether AES hardware acceleration is
// available. Go's crypto/aes uses AES-NI on amd64 and the ARM crypto
// extensions on arm64.
func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}
