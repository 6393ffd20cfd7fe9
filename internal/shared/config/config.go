package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	AuthToken       string

	ObjectStoreType string
	LocalStoreDir   string
	Bucket          string
	AWSRegion       string
	S3Prefix        string
	SSEKMSKeyID     string

	StagingDir   string
	SofficePath  string
	Pdf2HTMLPath string
	HTMLZoom     float64
	MaxUploadMB  int64

	UploadRateLimit float64
	UploadRateBurst int
	TrustedProxies  []string

	SovrenEndpoint   string
	SovrenAccountID  string
	SovrenServiceKey string
	SovrenTimeout    time.Duration

	QueueURL string

	WorkerQueueURL          string
	WorkerConcurrency       int
	WorkerVisibilitySeconds int
	ShutdownTimeout         time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	env := normalizeEnv(v.GetString("ENV"))
	token := strings.TrimSpace(v.GetString("AUTH_TOKEN"))
	if env == "production" && token == "" {
		log.Printf("AUTH_TOKEN is empty in production; protected routes will reject every request")
	}

	return Config{
		Port:             v.GetString("PORT"),
		Env:              env,
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		CORSAllowOrigin:  splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		AuthToken:        token,
		ObjectStoreType:  normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:    v.GetString("LOCAL_STORE_DIR"),
		Bucket:           strings.TrimSpace(v.GetString("AWS_ATTACHMENTS_BUCKET")),
		AWSRegion:        v.GetString("AWS_REGION"),
		S3Prefix:         v.GetString("S3_PREFIX"),
		SSEKMSKeyID:      v.GetString("SSE_KMS_KEY_ID"),
		StagingDir:       v.GetString("STAGING_DIR"),
		SofficePath:      strings.TrimSpace(v.GetString("SOFFICE_PATH")),
		Pdf2HTMLPath:     v.GetString("PDF2HTML_PATH"),
		HTMLZoom:         v.GetFloat64("HTML_ZOOM"),
		MaxUploadMB:      v.GetInt64("MAX_UPLOAD_MB"),
		UploadRateLimit:  v.GetFloat64("UPLOAD_RATE_LIMIT"),
		UploadRateBurst:  v.GetInt("UPLOAD_RATE_BURST"),
		TrustedProxies:   splitAndTrim(v.GetString("TRUSTED_PROXIES")),
		SovrenEndpoint:   v.GetString("SOVREN_ENDPOINT"),
		SovrenAccountID:  v.GetString("SOVREN_ACCOUNT_ID"),
		SovrenServiceKey: v.GetString("SOVREN_SERVICE_KEY"),
		SovrenTimeout:    time.Duration(v.GetInt("SOVREN_TIMEOUT_SECONDS")) * time.Second,
		QueueURL:         strings.TrimSpace(v.GetString("RA_SQS_QUEUE_URL")),

		WorkerQueueURL:          strings.TrimSpace(v.GetString("CONVERT_SQS_QUEUE_URL")),
		WorkerConcurrency:       v.GetInt("WORKER_CONCURRENCY"),
		WorkerVisibilitySeconds: v.GetInt("SQS_VISIBILITY_TIMEOUT_SECONDS"),
		ShutdownTimeout:         time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("OBJECT_STORE", "s3")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("STAGING_DIR", "cargo-tmp")
	v.SetDefault("PDF2HTML_PATH", "pdf2htmlEX")
	v.SetDefault("HTML_ZOOM", 1.25)
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("UPLOAD_RATE_LIMIT", 1)
	v.SetDefault("UPLOAD_RATE_BURST", 10)
	v.SetDefault("SOVREN_ENDPOINT", "https://rest.resumeparsing.com/v9/parser/resume")
	v.SetDefault("SOVREN_TIMEOUT_SECONDS", 0)
	v.SetDefault("WORKER_CONCURRENCY", 4)
	v.SetDefault("SQS_VISIBILITY_TIMEOUT_SECONDS", 1200)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)
}

// IsProductionLike reports whether the environment runs on the deployment image.
func (c Config) IsProductionLike() bool {
	return c.Env == "production" || c.Env == "staging"
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "test":
		return "test"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gcs":
		return "gcs"
	case "local":
		return "local"
	default:
		return "s3"
	}
}
