package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BlobMemory     = "memory"
	BlobFilesystem = "filesystem"
	BlobCloudinary = "cloudinary"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Session    SessionConfig
	Blob       BlobConfig
	Cloudinary CloudinaryConfig
	SMTP       SMTPConfig
	Digest     DigestConfig
	Bootstrap  BootstrapConfig
	RateLimit  RateLimitConfig
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.Blob.Backend {
	case BlobMemory, BlobFilesystem:
	case BlobCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return fmt.Errorf("cloudinary blob backend needs CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("unsupported BLOB_BACKEND %q", c.Blob.Backend)
	}

	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}

	if len(c.JWT.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

type AppConfig struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8000"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	// LogFormat is "json" or "console". Empty picks console in development.
	LogFormat string `envconfig:"LOG_FORMAT"`
	// CORSOrigins is passed straight to the fiber cors middleware.
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "development")
}

// LoggerFormat resolves the zerolog output format.
func (a AppConfig) LoggerFormat() string {
	switch {
	case a.LogFormat != "":
		return a.LogFormat
	case a.IsDev():
		return "console"
	default:
		return "json"
	}
}

type DBConfig struct {
	Driver      string `envconfig:"DB_DRIVER" default:"postgres"`
	URL         string `envconfig:"DATABASE_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"permit-desk.db"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	Debug       bool   `envconfig:"DB_DEBUG" default:"false"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type SessionConfig struct {
	Backend string `envconfig:"SESSION_BACKEND" default:"memory"`
}

type BlobConfig struct {
	Backend  string `envconfig:"BLOB_BACKEND" default:"filesystem"`
	Dir      string `envconfig:"BLOB_DIR" default:"data/pdfs"`
	MaxBytes int    `envconfig:"MAX_PDF_BYTES" default:"10485760"`
}

type CloudinaryConfig struct {
	CloudName    string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	APIKey       string `envconfig:"CLOUDINARY_API_KEY"`
	APISecret    string `envconfig:"CLOUDINARY_API_SECRET"`
	UploadPreset string `envconfig:"CLOUDINARY_UPLOAD_PRESET"`
	Folder       string `envconfig:"CLOUDINARY_FOLDER" default:"appointments"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"EMAIL_USER"`
	Password string `envconfig:"EMAIL_PASS"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.User != ""
}

type DigestConfig struct {
	Enabled  bool   `envconfig:"DIGEST_ENABLED" default:"true"`
	Schedule string `envconfig:"DIGEST_SCHEDULE" default:"0 * * * *"`
}

type BootstrapConfig struct {
	AdminUsername string `envconfig:"BOOTSTRAP_ADMIN_USERNAME"`
	AdminPassword string `envconfig:"BOOTSTRAP_ADMIN_PASSWORD"`
}

type RateLimitConfig struct {
	LoginRPS   float64 `envconfig:"LOGIN_RATE_LIMIT_RPS" default:"1"`
	LoginBurst int     `envconfig:"LOGIN_RATE_LIMIT_BURST" default:"5"`
}
