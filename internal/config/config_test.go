package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	return tmpDir
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	chdirTemp(t)

	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.Cart.FreeShippingThreshold != "199.00" {
		t.Fatalf("unexpected free shipping threshold: %s", cfg.Cart.FreeShippingThreshold)
	}
	if cfg.Checkout.WhatsAppBaseURL != "https://wa.me" {
		t.Fatalf("unexpected whatsapp base url: %s", cfg.Checkout.WhatsAppBaseURL)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected database driver: %s", cfg.Database.Driver)
	}
}

func TestLoadReadsConfigFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	content := []byte("server:\n  port: \"9090\"\ncart:\n  free_shipping_threshold: \"250.00\"\n  session_ttl_hours: 12\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("CHECKOUT_CURRENCY_SYMBOL", "BRL")

	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port from file, got %s", cfg.Server.Port)
	}
	if cfg.Cart.FreeShippingThreshold != "250.00" || cfg.Cart.SessionTTLHours != 12 {
		t.Fatalf("unexpected cart config: %+v", cfg.Cart)
	}
	if cfg.Checkout.CurrencySymbol != "BRL" {
		t.Fatalf("expected env override, got %s", cfg.Checkout.CurrencySymbol)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("REDIS_PREFIX=loja\n"), 0o644); err != nil {
		t.Fatalf("write .env failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("REDIS_PREFIX")
	})

	cfg := Load()
	if cfg.Redis.Prefix != "loja" {
		t.Fatalf("expected prefix from .env, got %s", cfg.Redis.Prefix)
	}
}
