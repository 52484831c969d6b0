package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	StorageDisk = "disk"
	StorageS3   = "s3"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	StorageDriver string
	UploadDir     string
	AvatarDir     string
	StaticURLBase string
	MaxUploadSize int64

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	RedisURL string

	SweepEnabled   bool
	SweepInterval  time.Duration
	SweepMaxAge    time.Duration
	SweepBatchSize int

	CORSAllowedOrigins []string
	RateLimitPerMinute int
	DefaultLocale      string
	ShutdownTimeout    time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "socialapp.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("STORAGE_DRIVER", StorageDisk)
	v.SetDefault("UPLOAD_DIR", "./uploads/posts")
	v.SetDefault("AVATAR_DIR", "./uploads/avatars")
	v.SetDefault("STATIC_URL_BASE", "/static")
	v.SetDefault("MAX_UPLOAD_SIZE", 10<<20)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("SWEEP_ENABLED", true)
	v.SetDefault("SWEEP_INTERVAL", "24h")
	v.SetDefault("SWEEP_MAX_AGE", "24h")
	v.SetDefault("SWEEP_BATCH_SIZE", 500)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:             strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		HTTPAddr:           v.GetString("HTTP_ADDR"),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		JWTSecret:          strings.TrimSpace(v.GetString("JWT_SECRET")),
		StorageDriver:      strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		AvatarDir:          v.GetString("AVATAR_DIR"),
		StaticURLBase:      strings.TrimSuffix(v.GetString("STATIC_URL_BASE"), "/"),
		MaxUploadSize:      v.GetInt64("MAX_UPLOAD_SIZE"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Region:           v.GetString("S3_REGION"),
		S3Endpoint:         v.GetString("S3_ENDPOINT"),
		S3AccessKey:        v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:        v.GetString("S3_SECRET_KEY"),
		RedisURL:           v.GetString("REDIS_URL"),
		SweepEnabled:       v.GetBool("SWEEP_ENABLED"),
		SweepBatchSize:     v.GetInt("SWEEP_BATCH_SIZE"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		DefaultLocale:      v.GetString("DEFAULT_LOCALE"),
	}

	var err error
	if cfg.JWTTTL, err = parseDuration(v, "JWT_TTL"); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDuration(v, "SWEEP_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.SweepMaxAge, err = parseDuration(v, "SWEEP_MAX_AGE"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration(v, "SHUTDOWN_TIMEOUT"); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if cfg.SweepMaxAge <= 0 {
		return fmt.Errorf("SWEEP_MAX_AGE must be > 0")
	}
	if cfg.SweepBatchSize <= 0 {
		return fmt.Errorf("SWEEP_BATCH_SIZE must be > 0")
	}
	if cfg.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0")
	}

	switch cfg.StorageDriver {
	case StorageDisk:
		if cfg.UploadDir == "" || cfg.AvatarDir == "" {
			return fmt.Errorf("UPLOAD_DIR and AVATAR_DIR must be set for disk storage")
		}
	case StorageS3:
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return fmt.Errorf("S3_BUCKET and S3_REGION must be set for s3 storage")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: disk, s3")
	}

	if cfg.IsProdLike() && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDuration(v *viper.Viper, name string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(name))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
