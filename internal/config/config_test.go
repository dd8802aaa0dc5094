// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"github.com/spf13/pflag"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	if cfg.Port != 3100 {
		t.Errorf("Port: %d, want: 3100", cfg.Port)
	}
	if cfg.HibpURL != "https://api.pwnedpasswords.com" {
		t.Errorf("HibpURL: %s", cfg.HibpURL)
	}
	if cfg.BreachTimeout != 5*time.Second || cfg.BreachCacheTTL != time.Hour || cfg.BreachCacheSize != 10000 {
		t.Errorf("Unexpected breach settings %+v", cfg)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "8443")
	t.Setenv("BREACH_TIMEOUT", "750ms")
	t.Setenv("BREACH_CACHE_TTL", "10m")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DEBUG", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	if cfg.Port != 8443 || cfg.BreachTimeout != 750*time.Millisecond || cfg.BreachCacheTTL != 10*time.Minute {
		t.Errorf("Env should override defaults, got %+v", cfg)
	}
	if cfg.DatabaseURL != "file:test.db" || cfg.JWTSecret == "" || !cfg.Debug {
		t.Errorf("Env should be read, got %+v", cfg)
	}
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("PORT", "8443")

	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.Uint16("port", 3100, "")
	flags.Bool("insecure", false, "")
	if err := flags.Parse([]string{"--port", "9000", "--insecure"}); err != nil {
		t.Fatalf("Should not fail parsing flags: %s", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if cfg.Port != 9000 || !cfg.Insecure {
		t.Errorf("Flags should override env, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("TLS_CERT", "/tmp/cert.pem")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("HIBP_URL", "not a url")

	_, err := Load(nil)
	if err == nil {
		t.Fatalf("Should fail validation")
	}

	for _, want := range []string{"TLS_KEY", "JWT_SECRET", "HIBP_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error should mention %s: %s", want, err)
		}
	}
}
