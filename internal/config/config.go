// Package config loads service configuration from the environment. All
// secrets (token signing keys, the inference API key) enter the process
// here and are passed to components by constructor; nothing reads the
// environment after startup.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "LEAFCARE"

// Config holds every runtime setting of leafcare-api.
type Config struct {
	Addr     string `envconfig:"ADDR" default:":5000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// PGDSN is optional; without it the service boots with in-memory
	// stores, which is only useful for local development.
	PGDSN string `envconfig:"PG_DSN"`

	AuthSecret  string        `envconfig:"AUTH_SECRET"`
	ResetSecret string        `envconfig:"RESET_SECRET"`
	AuthTTL     time.Duration `envconfig:"AUTH_TTL" default:"1h"`
	ResetTTL    time.Duration `envconfig:"RESET_TTL" default:"15m"`

	InferenceURL     string        `envconfig:"INFERENCE_URL" default:"https://api-inference.huggingface.co/models/ozair23/mobilenet_v2_1.0_224-finetuned-plantdisease"`
	InferenceKey     string        `envconfig:"INFERENCE_KEY"`
	InferenceTimeout time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"60s"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"uploads"`

	// S3 settings select the object-store backend for uploaded images.
	// When S3Bucket is empty images go to UploadDir on local disk.
	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3Region       string `envconfig:"S3_REGION"`
	S3BaseEndpoint string `envconfig:"S3_BASE_ENDPOINT"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.AuthSecret) == "" {
		return errors.New("config: LEAFCARE_AUTH_SECRET is required")
	}
	if strings.TrimSpace(c.ResetSecret) == "" {
		return errors.New("config: LEAFCARE_RESET_SECRET is required")
	}
	if c.AuthSecret == c.ResetSecret {
		return errors.New("config: auth and reset secrets must differ")
	}
	return nil
}
