// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr  = "127.0.0.1:6080"
	DefaultRedisAddr = "127.0.0.1:6379"

	DefaultBadgerDir        = "/var/lib/tokenstore-server/data"
	DefaultBadgerGCInterval = 10 * time.Minute

	// Access records live for 20 minutes between refreshes; session
	// and step records cover short flows and get 5.
	DefaultAccessMaxAge  = "20m"
	DefaultSessionMaxAge = "5m"
	DefaultStepMaxAge    = "5m"

	DefaultRateLimitRPS   = 50.0
	DefaultRateLimitBurst = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Storage: StorageSection{
			Backend: "redis",
			Redis: RedisStorageConfig{
				Addr:        DefaultRedisAddr,
				DialTimeout: 5 * time.Second,
				PoolSize:    10,
			},
			Badger: BadgerStorageConfig{
				Dir:        DefaultBadgerDir,
				GCInterval: DefaultBadgerGCInterval,
			},
		},
		Records: RecordsSection{
			AccessMaxAge:  DefaultAccessMaxAge,
			SessionMaxAge: DefaultSessionMaxAge,
			StepMaxAge:    DefaultStepMaxAge,
		},
		Auth: AuthSection{
			CheckFingerprint: true,
		},
		RateLimit: RateLimitSection{
			Enabled: false,
			RPS:     DefaultRateLimitRPS,
			Burst:   DefaultRateLimitBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
