package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_KeywordConfidenceRange(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Search:   SearchConfig{KeywordConfidence: 1.5},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for keyword_confidence > 1")
	}
}

func TestValidate_DefaultLimitOverMax(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Search:   SearchConfig{DefaultLimit: 100, MaxLimit: 50},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default_limit > max_limit")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("expected DefaultLimit=10, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Search.MaxLimit != 50 {
		t.Errorf("expected MaxLimit=50, got %d", cfg.Search.MaxLimit)
	}
	if cfg.Search.TierTimeoutMs != 2000 {
		t.Errorf("expected TierTimeoutMs=2000, got %d", cfg.Search.TierTimeoutMs)
	}
	if cfg.Search.KeywordConfidence != 0.5 {
		t.Errorf("expected KeywordConfidence=0.5, got %v", cfg.Search.KeywordConfidence)
	}
	if cfg.Search.FallbackScanLimit != 200 {
		t.Errorf("expected FallbackScanLimit=200, got %d", cfg.Search.FallbackScanLimit)
	}
	if cfg.Search.ResultTTLSec != 300 {
		t.Errorf("expected ResultTTLSec=300, got %d", cfg.Search.ResultTTLSec)
	}
	if cfg.Storage.KeyPrefix != "storesearch:" {
		t.Errorf("expected KeyPrefix='storesearch:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Search:   SearchConfig{DefaultLimit: 5, MaxLimit: 25, TierTimeoutMs: 500, KeywordConfidence: 0.7, FallbackScanLimit: 100, ResultTTLSec: 60},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.MaxLimit != 25 {
		t.Errorf("expected MaxLimit=25, got %d", cfg.Search.MaxLimit)
	}
	if cfg.Search.KeywordConfidence != 0.7 {
		t.Errorf("expected KeywordConfidence=0.7, got %v", cfg.Search.KeywordConfidence)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("STORESEARCH_TEST_VAR", "redis:6379")

	in := []byte("addrs: [\"${STORESEARCH_TEST_VAR}\"]\npassword: \"${STORESEARCH_TEST_UNSET:-fallback}\"")
	out := string(expandEnvVars(in))

	if out != "addrs: [\"redis:6379\"]\npassword: \"fallback\"" {
		t.Errorf("unexpected expansion: %q", out)
	}
}
