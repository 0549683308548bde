// Package logger provides structured logging for the token store.
package logger

import (
	"log/slog"
	"strings"
)

// accessTokenHexPrefix is the hex encoding of the "access:" key
// namespace. Public access tokens are hex-encoded storage keys, so
// every one of them starts with this prefix.
const accessTokenHexPrefix = "6163636573733a"

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
	"fingerprint",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		// Access token values are self-identifying by prefix.
		// This takes priority over key-based detection so the partial
		// mask survives even under neutral key names.
		if strings.HasPrefix(strVal, accessTokenHexPrefix) {
			return slog.String(a.Key, MaskToken(strVal))
		}

		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, MaskToken(strVal))
				}
				break
			}
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// MaskToken partially masks a token value, keeping the leading and
// trailing few characters for correlation in logs.
func MaskToken(value string) string {
	if len(value) <= 12 {
		return redactedValue
	}
	return value[:6] + "..." + value[len(value)-4:]
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
