package main

import (
	"testing"
	"time"

	"github.com/Carson-Bove/tictactyler/games/tictactoe"
)

func validConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		natsSubject:    "tictactyler.events",
		port:           8080,
		resultPolicy:   "trust",
		sendBuffer:     16,
		sessionTimeout: time.Hour,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"tls pair", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, false},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"key without cert", func(c *Config) { c.tlsKey = "key.pem" }, true},
		{"port zero", func(c *Config) { c.port = 0 }, true},
		{"port too high", func(c *Config) { c.port = 65536 }, true},
		{"eviction disabled", func(c *Config) { c.sessionTimeout = 0 }, false},
		{"negative timeout", func(c *Config) { c.sessionTimeout = -time.Second }, true},
		{"empty send buffer", func(c *Config) { c.sendBuffer = 0 }, true},
		{"verify policy", func(c *Config) { c.resultPolicy = "VERIFY" }, false},
		{"unknown policy", func(c *Config) { c.resultPolicy = "majority" }, true},
		{"nats without subject", func(c *Config) { c.natsURL, c.natsSubject = "nats://localhost:4222", " " }, true},
		{"subject without nats", func(c *Config) { c.natsSubject = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPolicy(t *testing.T) {
	cfg := validConfig()

	for in, want := range map[string]tictactoe.ResultPolicy{
		"trust":  tictactoe.TrustReports,
		"Trust":  tictactoe.TrustReports,
		"verify": tictactoe.VerifyReports,
	} {
		cfg.resultPolicy = in
		got, err := cfg.policy()
		if err != nil || got != want {
			t.Errorf("policy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestScheme(t *testing.T) {
	cfg := validConfig()
	if got := cfg.scheme(); got != "http" {
		t.Fatalf("scheme() = %s, want http", got)
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if got := cfg.scheme(); got != "https" {
		t.Fatalf("scheme() = %s, want https", got)
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("TICTACTYLER_PORT", "9090")
	t.Setenv("TICTACTYLER_RESULT_POLICY", "verify")
	t.Setenv("TICTACTYLER_REJECT_FEEDBACK", "true")

	cfg := &Config{}
	cmd := newCmd(cfg)
	if err := cmd.ParseFlags([]string{"--session-timeout", "5m"}); err != nil {
		t.Fatal(err)
	}

	if cfg.port != 9090 || cfg.resultPolicy != "verify" || !cfg.rejectFeedback {
		t.Fatalf("environment not applied: %+v", cfg)
	}
	if cfg.sessionTimeout != 5*time.Minute {
		t.Fatalf("sessionTimeout = %s, want 5m", cfg.sessionTimeout)
	}
	if cfg.sendBuffer != 16 || cfg.natsSubject != "tictactyler.events" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestDefaultsDisableEviction(t *testing.T) {
	cfg := &Config{}
	if err := newCmd(cfg).ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	if cfg.sessionTimeout != 0 {
		t.Fatalf("sessionTimeout = %s, want 0", cfg.sessionTimeout)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}
