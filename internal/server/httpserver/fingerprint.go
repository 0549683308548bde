package httpserver

import (
	"net/http"
	"strings"

	"github.com/augejs/tokenstore-go/pkg/token"
)

// FingerprintFunc derives a client fingerprint from a request. The
// value is bound to an access record when the record is issued and
// compared by exact equality on every guarded request.
type FingerprintFunc func(r *http.Request) string

// deviceIDHeader carries an installation-stable client identifier when
// the client supplies one.
const deviceIDHeader = "Device-Id"

// DefaultFingerprint hashes the stable client signals the request
// carries: the device ID header, the client IP and the user agent.
//
// The fingerprint binds an access record to the environment it was
// issued in; a token replayed from elsewhere stops matching.
func DefaultFingerprint(r *http.Request) string {
	signals := []string{
		r.Header.Get(deviceIDHeader),
		getClientIP(r),
		r.Header.Get("User-Agent"),
	}

	joined := strings.Join(signals, "-")
	if strings.Trim(joined, "-") == "" {
		return ""
	}
	return token.Digest(joined)
}
