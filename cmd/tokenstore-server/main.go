// Package main provides the entry point for tokenstore-server.
//
// tokenstore-server hosts the ephemeral token store: access, session
// and step tokens backed by a TTL key-value store, exposed over a
// RESTful HTTP API.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/service"
	"github.com/augejs/tokenstore-go/internal/infra/buildinfo"
	"github.com/augejs/tokenstore-go/internal/infra/confloader"
	"github.com/augejs/tokenstore-go/internal/infra/shutdown"
	"github.com/augejs/tokenstore-go/internal/server/config"
	"github.com/augejs/tokenstore-go/internal/server/httpserver"
	"github.com/augejs/tokenstore-go/internal/storage"
	"github.com/augejs/tokenstore-go/internal/storage/memory"
	"github.com/augejs/tokenstore-go/internal/telemetry/logger"
	"github.com/augejs/tokenstore-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tokenstore-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting tokenstore-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	backend, err := initBackend(cfg, log)
	if err != nil {
		return fmt.Errorf("init storage backend: %w", err)
	}

	metrics := metric.New()

	accessMaxAge, sessionMaxAge, stepMaxAge, err := cfg.Records.MaxAges()
	if err != nil {
		return fmt.Errorf("parse record lifetimes: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		AccessService:    service.NewAccessTokenService(backend, log, metrics, accessMaxAge),
		SessionService:   service.NewSessionTokenService(backend, log, metrics, sessionMaxAge),
		StepService:      service.NewStepTokenService(backend, log, metrics, stepMaxAge),
		Backend:          backend,
		Logger:           log,
		Metrics:          metrics,
		CheckFingerprint: cfg.Auth.CheckFingerprint,
		RateLimitRPS:     rateLimitRPS(cfg),
		RateLimitBurst:   cfg.RateLimit.Burst,
	})

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing storage backend")
		return backend.Close()
	})

	watcher, err := watchConfig(*configFile, log)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	if watcher != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return watcher.Stop()
		})
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	return confloader.NewLoader(opts...).LoadServerConfig()
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// initBackend creates the configured storage backend.
func initBackend(cfg *config.ServerConfig, log logger.Logger) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedisBackend(storage.RedisConfig{
			Addr:        cfg.Storage.Redis.Addr,
			Username:    cfg.Storage.Redis.Username,
			Password:    cfg.Storage.Redis.Password,
			DB:          cfg.Storage.Redis.DB,
			DialTimeout: cfg.Storage.Redis.DialTimeout,
			PoolSize:    cfg.Storage.Redis.PoolSize,
		}), nil

	case "badger":
		badgerCfg := storage.DefaultBadgerConfig(cfg.Storage.Badger.Dir)
		if cfg.Storage.Badger.GCInterval > 0 {
			badgerCfg.GCInterval = cfg.Storage.Badger.GCInterval
		}
		badgerCfg.SyncWrites = cfg.Storage.Badger.SyncWrites
		if cfg.Storage.Badger.EncryptionKey != "" {
			key, err := hex.DecodeString(cfg.Storage.Badger.EncryptionKey)
			if err != nil {
				return nil, fmt.Errorf("decode encryption key: %w", err)
			}
			badgerCfg.EncryptionKey = key
		}
		return storage.NewBadgerBackend(badgerCfg, log.Slog())

	case "memory":
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// watchConfig reloads the log level when the config file changes.
// Other settings need a restart.
func watchConfig(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	if configFile == "" {
		return nil, nil
	}

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := confloader.NewLoader(confloader.WithConfigFile(path)).LoadServerConfig()
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			log.Info("log level changed", "level", cfg.Log.Level)
			logger.SetLevel(cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}

// rateLimitRPS maps the rate limit config onto the router setting.
func rateLimitRPS(cfg *config.ServerConfig) float64 {
	if !cfg.RateLimit.Enabled {
		return 0
	}
	return cfg.RateLimit.RPS
}
