// Package storage provides the key-value backend abstraction.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/augejs/tokenstore-go/pkg/crypto/sealer"
)

// BadgerConfig configures the embedded badger backend.
type BadgerConfig struct {
	// Dir is the storage directory. Required.
	Dir string

	// GCInterval is the interval between value-log GC runs.
	// Default: 10m
	GCInterval time.Duration

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// SyncWrites enables fsync after each write.
	// Default: false (records are reconstructible; TTL bounds the loss window)
	SyncWrites bool

	// EncryptionKey enables at-rest payload encryption when set.
	// Must be 32 bytes.
	EncryptionKey []byte
}

// DefaultBadgerConfig returns the default badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:         dir,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
	}
}

// BadgerBackend implements Backend over an embedded badger store.
//
// Badger's native per-key TTL carries the expiry semantics; expired
// entries behave as absent on reads and are skipped during scans.
type BadgerBackend struct {
	db     *badger.DB
	cfg    BadgerConfig
	sealer *sealer.Sealer
	logger *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerBackend opens an embedded badger backend.
func NewBadgerBackend(cfg BadgerConfig, logger *slog.Logger) (*BadgerBackend, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 {
		cfg.GCThreshold = 0.5
	}

	var payloadSealer *sealer.Sealer
	if len(cfg.EncryptionKey) > 0 {
		s, err := sealer.New(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("badger: encryption key: %w", err)
		}
		payloadSealer = s
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	b := &BadgerBackend{
		db:     db,
		cfg:    cfg,
		sealer: payloadSealer,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go b.gcLoop()

	logger.Info("badger backend started",
		"dir", cfg.Dir,
		"gc_interval", cfg.GCInterval,
		"encrypted", payloadSealer != nil)

	return b, nil
}

// Get retrieves a value by key.
func (b *BadgerBackend) Get(ctx context.Context, key string) (string, error) {
	var raw []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("badger: get %s: %w", key, err)
	}

	if b.sealer != nil {
		opened, err := b.sealer.Open(raw, []byte(key))
		if err != nil {
			return "", fmt.Errorf("badger: unseal %s: %w", key, err)
		}
		raw = opened
	}

	return string(raw), nil
}

// Set stores a value with a TTL.
func (b *BadgerBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	raw := []byte(value)
	if b.sealer != nil {
		sealed, err := b.sealer.Seal(raw, []byte(key))
		if err != nil {
			return fmt.Errorf("badger: seal %s: %w", key, err)
		}
		raw = sealed
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), raw)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger: set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (b *BadgerBackend) Delete(ctx context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger: del %s: %w", key, err)
	}
	return nil
}

// PExpire resets the TTL of an existing key.
//
// Badger has no in-place TTL reset; the stored value is rewritten with
// the new TTL inside a single transaction. Absent keys are a no-op.
func (b *BadgerBackend) PExpire(ctx context.Context, key string, ttl time.Duration) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		entry := badger.NewEntry([]byte(key), raw)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger: pexpire %s: %w", key, err)
	}
	return nil
}

// Keys returns the keys matching a trailing-star prefix pattern.
func (b *BadgerBackend) Keys(ctx context.Context, pattern string) ([]string, error) {
	prefix, ok := prefixFromPattern(pattern)
	if !ok {
		return nil, fmt.Errorf("badger: unsupported pattern %q (trailing-star prefixes only)", pattern)
	}

	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: keys %s: %w", pattern, err)
	}
	return keys, nil
}

// Ping verifies the backend is open.
func (b *BadgerBackend) Ping(ctx context.Context) error {
	if b.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close gracefully shuts down the backend.
func (b *BadgerBackend) Close() error {
	close(b.stopCh)
	<-b.doneCh

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("badger: close: %w", err)
	}
	return nil
}

// gcLoop runs periodic value-log garbage collection.
func (b *BadgerBackend) gcLoop() {
	defer close(b.doneCh)

	ticker := time.NewTicker(b.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				err := b.db.RunValueLogGC(b.cfg.GCThreshold)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						b.logger.Error("badger gc failed", "error", err)
					}
					break
				}
			}
		case <-b.stopCh:
			return
		}
	}
}

// prefixFromPattern extracts the prefix from a trailing-star glob.
// Returns false for any other glob shape.
func prefixFromPattern(pattern string) (string, bool) {
	if !strings.HasSuffix(pattern, "*") {
		return "", false
	}
	prefix := pattern[:len(pattern)-1]
	if strings.ContainsAny(prefix, "*?[") {
		return "", false
	}
	return prefix, true
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
