package backend

import (
	"testing"
	"time"

	"paire/internal/config"
)

func TestBackendTypeIsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("sheets").IsValid() {
		t.Errorf("unknown backend type should be invalid")
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "/tmp/x.db",
		AMQPURL:      "amqp://localhost",
		AMQPExchange: "paire",
		AMQPQueue:    "mirror_transactions",
		APIBaseURL:   "https://api.example.com",
		APIToken:     "tok",
		APITimeout:   10 * time.Second,
		APIPageSize:  100,
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" || cfg.APIPageSize != 100 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Categories) == 0 {
		t.Fatalf("expected default categories")
	}
}

func TestFromAppConfigRejectsUnknownBackend(t *testing.T) {
	if _, err := FromAppConfig(&config.Config{DataBackend: "redis"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "/tmp/x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"valid remote", Config{Type: RemoteBackend, APIBaseURL: "https://api.example.com"}, false},
		{"remote without url", Config{Type: RemoteBackend}, true},
		{"valid memory", Config{Type: MemoryBackend}, false},
		{"unknown type", Config{Type: "sheets"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
