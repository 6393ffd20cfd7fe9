package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("OBJECT_STORE", "")
	t.Setenv("HTML_ZOOM", "")
	t.Setenv("STAGING_DIR", "")
	t.Setenv("UPLOAD_RATE_LIMIT", "")
	t.Setenv("UPLOAD_RATE_BURST", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3 store, got %q", cfg.ObjectStoreType)
	}
	if cfg.HTMLZoom != 1.25 {
		t.Fatalf("expected zoom 1.25, got %v", cfg.HTMLZoom)
	}
	if cfg.UploadRateLimit != 1 || cfg.UploadRateBurst != 10 {
		t.Fatalf("unexpected upload rate %v/%d", cfg.UploadRateLimit, cfg.UploadRateBurst)
	}
	if cfg.WorkerConcurrency != 4 || cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("unexpected worker defaults %d/%v", cfg.WorkerConcurrency, cfg.ShutdownTimeout)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies, got %v", cfg.TrustedProxies)
	}
	if cfg.StagingDir != "cargo-tmp" {
		t.Fatalf("expected cargo-tmp staging dir, got %q", cfg.StagingDir)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("AUTH_TOKEN", " secret ")
	t.Setenv("AWS_ATTACHMENTS_BUCKET", "attachments")
	t.Setenv("OBJECT_STORE", "GCS")
	t.Setenv("SOVREN_TIMEOUT_SECONDS", "30")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.1")

	cfg := Load()

	if cfg.Env != "production" || !cfg.IsProductionLike() {
		t.Fatalf("expected production env, got %q", cfg.Env)
	}
	if cfg.AuthToken != "secret" {
		t.Fatalf("expected trimmed token, got %q", cfg.AuthToken)
	}
	if cfg.Bucket != "attachments" {
		t.Fatalf("unexpected bucket %q", cfg.Bucket)
	}
	if cfg.ObjectStoreType != "gcs" {
		t.Fatalf("expected gcs, got %q", cfg.ObjectStoreType)
	}
	if cfg.SovrenTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.SovrenTimeout)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0] != "10.0.0.0/8" {
		t.Fatalf("unexpected trusted proxies %v", cfg.TrustedProxies)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
}
