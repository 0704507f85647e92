package config

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddrHTTP != ":8080" {
		t.Errorf("EndpointAddrHTTP = %q", cfg.EndpointAddrHTTP)
	}
	if cfg.AccessTokenValidityDuration != 15*time.Minute {
		t.Errorf("AccessTokenValidityDuration = %v", cfg.AccessTokenValidityDuration)
	}
	if cfg.UserSessionTimeout != 15*time.Minute || cfg.UserSessionPollInterval != 30*time.Second {
		t.Errorf("user session profile = %v / %v", cfg.UserSessionTimeout, cfg.UserSessionPollInterval)
	}
	if cfg.AdminSessionTimeout != 5*time.Minute || cfg.AdminSessionPollInterval != 15*time.Second {
		t.Errorf("admin session profile = %v / %v", cfg.AdminSessionTimeout, cfg.AdminSessionPollInterval)
	}
	if cfg.S3Bucket != "invoices" {
		t.Errorf("S3Bucket = %q", cfg.S3Bucket)
	}
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("NOVERIF_HTTP_ADDR", ":9999")
	t.Setenv("NOVERIF_DATABASE_DSN", "postgres://elsewhere/db")
	t.Setenv("NOVERIF_SECRET_KEY", "env-secret")
	t.Setenv("NOVERIF_S3_BUCKET", "archive")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.EndpointAddrHTTP != ":9999" {
		t.Errorf("EndpointAddrHTTP = %q", cfg.EndpointAddrHTTP)
	}
	if cfg.DatabaseDSN != "postgres://elsewhere/db" {
		t.Errorf("DatabaseDSN = %q", cfg.DatabaseDSN)
	}
	if cfg.SecretKey != "env-secret" {
		t.Errorf("SecretKey = %q", cfg.SecretKey)
	}
	if cfg.S3Bucket != "archive" {
		t.Errorf("S3Bucket = %q", cfg.S3Bucket)
	}
}

func TestParseEnv_UnsetLeavesDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	want := cfg.SecretKey
	parseEnv(cfg)
	if cfg.SecretKey != want {
		t.Errorf("SecretKey changed without the env var set: %q", cfg.SecretKey)
	}
}

func TestJsonConfig_DurationForms(t *testing.T) {
	// Durations are accepted both as strings and as integer nanoseconds.
	raw := `{
		"user_session_timeout": "10m",
		"admin_session_timeout": 60000000000
	}`
	c := &JsonConfig{}
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if c.UserSessionTimeout.Duration != 10*time.Minute {
		t.Errorf("UserSessionTimeout = %v", c.UserSessionTimeout.Duration)
	}
	if c.AdminSessionTimeout.Duration != time.Minute {
		t.Errorf("AdminSessionTimeout = %v", c.AdminSessionTimeout.Duration)
	}
}

func TestSetDuration_ZeroKeepsDefault(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	var zero JsonConfig
	setDuration(&cfg.UserSessionTimeout, zero.UserSessionTimeout)
	if cfg.UserSessionTimeout != 15*time.Minute {
		t.Errorf("zero JSON duration overwrote the default: %v", cfg.UserSessionTimeout)
	}
}
