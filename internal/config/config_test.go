package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("LEAFCARE_AUTH_SECRET", "auth-secret")
	t.Setenv("LEAFCARE_RESET_SECRET", "reset-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":5000" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.AuthTTL != time.Hour {
		t.Fatalf("unexpected auth ttl: %v", cfg.AuthTTL)
	}
	if cfg.ResetTTL != 15*time.Minute {
		t.Fatalf("unexpected reset ttl: %v", cfg.ResetTTL)
	}
	if cfg.UploadDir != "uploads" {
		t.Fatalf("unexpected upload dir: %s", cfg.UploadDir)
	}
	if !strings.Contains(cfg.InferenceURL, "plantdisease") {
		t.Fatalf("unexpected inference url: %s", cfg.InferenceURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LEAFCARE_ADDR", ":9999")
	t.Setenv("LEAFCARE_AUTH_TTL", "30m")
	t.Setenv("LEAFCARE_S3_BUCKET", "leaf-images")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("override not applied: %s", cfg.Addr)
	}
	if cfg.AuthTTL != 30*time.Minute {
		t.Fatalf("override not applied: %v", cfg.AuthTTL)
	}
	if cfg.S3Bucket != "leaf-images" {
		t.Fatalf("override not applied: %s", cfg.S3Bucket)
	}
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("LEAFCARE_AUTH_SECRET", "")
	t.Setenv("LEAFCARE_RESET_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing secrets")
	}
}

func TestLoadRejectsEqualSecrets(t *testing.T) {
	t.Setenv("LEAFCARE_AUTH_SECRET", "same")
	t.Setenv("LEAFCARE_RESET_SECRET", "same")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for identical secrets")
	}
}
