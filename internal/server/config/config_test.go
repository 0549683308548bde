package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultVerifies(t *testing.T) {
	if err := Verify(Default()); err != nil {
		t.Fatalf("Verify(Default()) = %v", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:    "missing http addr",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.Addr = "" },
			wantErr: "server.http.addr",
		},
		{
			name:    "tls cert without key",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.TLSCertFile = "/tmp/cert.pem" },
			wantErr: "tls_cert_file",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *ServerConfig) { c.Storage.Backend = "dynamo" },
			wantErr: "storage.backend",
		},
		{
			name: "redis backend without addr",
			mutate: func(c *ServerConfig) {
				c.Storage.Backend = "redis"
				c.Storage.Redis.Addr = ""
			},
			wantErr: "storage.redis.addr",
		},
		{
			name: "badger backend without dir",
			mutate: func(c *ServerConfig) {
				c.Storage.Backend = "badger"
				c.Storage.Badger.Dir = ""
			},
			wantErr: "storage.badger.dir",
		},
		{
			name: "badger encryption key not hex",
			mutate: func(c *ServerConfig) {
				c.Storage.Backend = "badger"
				c.Storage.Badger.EncryptionKey = "zz"
			},
			wantErr: "hex",
		},
		{
			name: "badger encryption key wrong length",
			mutate: func(c *ServerConfig) {
				c.Storage.Backend = "badger"
				c.Storage.Badger.EncryptionKey = "deadbeef"
			},
			wantErr: "32 bytes",
		},
		{
			name:    "bad access max age",
			mutate:  func(c *ServerConfig) { c.Records.AccessMaxAge = "soon" },
			wantErr: "records.access_max_age",
		},
		{
			name:    "negative session max age",
			mutate:  func(c *ServerConfig) { c.Records.SessionMaxAge = "-5m" },
			wantErr: "records.session_max_age",
		},
		{
			name: "rate limit enabled without rps",
			mutate: func(c *ServerConfig) {
				c.RateLimit.Enabled = true
				c.RateLimit.RPS = 0
			},
			wantErr: "rate_limit.rps",
		},
		{
			name:   "memory backend needs nothing",
			mutate: func(c *ServerConfig) { c.Storage.Backend = "memory" },
		},
		{
			name: "milliseconds max age accepted",
			mutate: func(c *ServerConfig) {
				c.Records.AccessMaxAge = "1200000"
			},
		},
		{
			name: "valid badger encryption key",
			mutate: func(c *ServerConfig) {
				c.Storage.Backend = "badger"
				c.Storage.Badger.EncryptionKey = strings.Repeat("ab", 32)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Verify = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Verify = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRecordsMaxAges(t *testing.T) {
	records := Default().Records

	access, session, step, err := records.MaxAges()
	if err != nil {
		t.Fatalf("MaxAges: %v", err)
	}
	if access != 20*time.Minute {
		t.Errorf("access = %v, want 20m", access)
	}
	if session != 5*time.Minute {
		t.Errorf("session = %v, want 5m", session)
	}
	if step != 5*time.Minute {
		t.Errorf("step = %v, want 5m", step)
	}

	records.SessionMaxAge = "soon"
	if _, _, _, err := records.MaxAges(); err == nil || !strings.Contains(err.Error(), "records.session_max_age") {
		t.Fatalf("MaxAges bad value = %v, want error naming the field", err)
	}
}
