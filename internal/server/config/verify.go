// Package config defines the server configuration structure.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/pkg/crypto/sealer"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyRecords(&cfg.Records); err != nil {
		return err
	}
	if err := verifyRateLimit(&cfg.RateLimit); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case "redis":
		if cfg.Redis.Addr == "" {
			return errors.New("storage.redis.addr is required")
		}
	case "badger":
		if cfg.Badger.Dir == "" {
			return errors.New("storage.badger.dir is required")
		}
		if cfg.Badger.EncryptionKey != "" {
			key, err := hex.DecodeString(cfg.Badger.EncryptionKey)
			if err != nil {
				return errors.New("storage.badger.encryption_key must be hex encoded")
			}
			if len(key) != sealer.KeySize {
				return fmt.Errorf("storage.badger.encryption_key must decode to %d bytes", sealer.KeySize)
			}
		}
	case "memory":
		// nothing to check
	default:
		return fmt.Errorf("storage.backend %q is not one of redis, badger, memory", cfg.Backend)
	}
	return nil
}

func verifyRecords(cfg *RecordsSection) error {
	_, _, _, err := cfg.MaxAges()
	return err
}

// MaxAges parses the three record lifetimes into durations. Verify
// reports the same parse failures with field names attached; callers
// wiring services must still check the error rather than assume a
// prior Verify ran.
func (cfg *RecordsSection) MaxAges() (access, session, step time.Duration, err error) {
	parse := func(field, value string) (time.Duration, error) {
		ms, err := domain.ParseMaxAge(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", field, err)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}

	if access, err = parse("records.access_max_age", cfg.AccessMaxAge); err != nil {
		return 0, 0, 0, err
	}
	if session, err = parse("records.session_max_age", cfg.SessionMaxAge); err != nil {
		return 0, 0, 0, err
	}
	if step, err = parse("records.step_max_age", cfg.StepMaxAge); err != nil {
		return 0, 0, 0, err
	}
	return access, session, step, nil
}

func verifyRateLimit(cfg *RateLimitSection) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.RPS <= 0 {
		return errors.New("rate_limit.rps must be positive when enabled")
	}
	if cfg.Burst < 1 {
		return errors.New("rate_limit.burst must be at least 1 when enabled")
	}
	return nil
}
