package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "Launcher"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 10 * time.Minute
	defaultSessionTTL     = 12 * time.Hour
	defaultFaceThreshold  = 10
	defaultPINLockout     = time.Minute
	defaultImageStorage   = "local"
	defaultImagePath      = "./assets/user_images"
	defaultS3Region       = "us-east-1"
	defaultGeminiModel    = "gemini-1.5-flash"
	devSessionSecret      = "dev-session-secret"

	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	idemTTLEnvVar          = "IDEMPOTENCY_TTL"
	sessionTTLEnvVar       = "SESSION_TTL"
	thresholdEnvVar        = "FACE_MATCH_THRESHOLD"
	pinAttemptsEnvVar      = "PIN_MAX_ATTEMPTS"
	pinLockoutEnvVar       = "PIN_LOCKOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
	SQLitePath     string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	SessionSecret string
	SessionTTL    time.Duration

	// FaceThreshold is the largest accepted Hamming distance out of 64 bits, 1..64.
	FaceThreshold  int
	// PINMaxAttempts bounds failed PIN entries per PINLockout window. Zero disables the limit.
	PINMaxAttempts int
	PINLockout     time.Duration

	Images ImageConfig
	Gemini GeminiConfig
}

// ImageConfig selects where registration images are kept.
type ImageConfig struct {
	Backend      string
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// GeminiConfig configures the optional generative text service.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     os.Getenv("SQLITE_PATH"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     defaultSessionTTL,
		FaceThreshold:  defaultFaceThreshold,
		PINLockout:     defaultPINLockout,
		Images: ImageConfig{
			Backend:      strings.ToLower(getEnv("IMAGE_STORAGE", defaultImageStorage)),
			LocalPath:    getEnv("IMAGE_STORAGE_PATH", defaultImagePath),
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     getEnv("AWS_REGION", defaultS3Region),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", defaultGeminiModel),
		},
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	var err error
	if cfg.IdempotencyTTL, err = durationEnv(idemTTLEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationEnv(sessionTTLEnvVar, cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.PINLockout, err = durationEnv(pinLockoutEnvVar, cfg.PINLockout); err != nil {
		return Config{}, err
	}
	if cfg.FaceThreshold, err = intEnv(thresholdEnvVar, cfg.FaceThreshold); err != nil {
		return Config{}, err
	}
	if cfg.FaceThreshold < 1 || cfg.FaceThreshold > 64 {
		return Config{}, fmt.Errorf("invalid %s: %d not in [1,64]", thresholdEnvVar, cfg.FaceThreshold)
	}
	if cfg.PINMaxAttempts, err = intEnv(pinAttemptsEnvVar, 0); err != nil {
		return Config{}, err
	}
	if cfg.PINMaxAttempts < 0 {
		return Config{}, fmt.Errorf("invalid %s: must not be negative", pinAttemptsEnvVar)
	}

	switch cfg.Images.Backend {
	case "local":
	case "s3":
		if cfg.Images.S3Bucket == "" {
			return Config{}, fmt.Errorf("AWS_S3_BUCKET must be set when IMAGE_STORAGE=s3")
		}
	default:
		return Config{}, fmt.Errorf("unknown IMAGE_STORAGE %q", cfg.Images.Backend)
	}

	if cfg.SessionSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("SESSION_SECRET must be set when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

// IsDev reports whether the environment allows in-memory fallbacks.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
