// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for tokenstore-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Storage   StorageSection   `koanf:"storage"`
	Records   RecordsSection   `koanf:"records"`
	Auth      AuthSection      `koanf:"auth"`
	RateLimit RateLimitSection `koanf:"rate_limit"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// StorageSection selects and configures the record backend.
type StorageSection struct {
	// Backend selects the store: redis, badger or memory.
	Backend string `koanf:"backend"`

	Redis  RedisStorageConfig  `koanf:"redis"`
	Badger BadgerStorageConfig `koanf:"badger"`
}

// RedisStorageConfig configures the redis backend.
type RedisStorageConfig struct {
	Addr        string        `koanf:"addr"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
	PoolSize    int           `koanf:"pool_size"`
}

// BadgerStorageConfig configures the embedded badger backend.
type BadgerStorageConfig struct {
	Dir        string        `koanf:"dir"`
	GCInterval time.Duration `koanf:"gc_interval"`
	SyncWrites bool          `koanf:"sync_writes"`

	// EncryptionKey enables at-rest payload encryption.
	// Hex-encoded, 32 bytes once decoded.
	EncryptionKey string `koanf:"encryption_key"`
}

// RecordsSection configures default record lifetimes.
//
// Lifetimes accept either a bare integer (milliseconds) or a duration
// literal such as "20m".
type RecordsSection struct {
	AccessMaxAge  string `koanf:"access_max_age"`
	SessionMaxAge string `koanf:"session_max_age"`
	StepMaxAge    string `koanf:"step_max_age"`
}

// AuthSection configures the request guards.
type AuthSection struct {
	// CheckFingerprint enables client fingerprint verification on
	// access token requests.
	CheckFingerprint bool `koanf:"check_fingerprint"`
}

// RateLimitSection configures the per-client rate limiter.
type RateLimitSection struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
