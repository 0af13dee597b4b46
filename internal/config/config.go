package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envAWSRegion             = "AWS_REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envMediaBucket           = "MEDIA_BUCKET"
	envJWTSecret             = "JWT_SECRET"
	envPaginationPageSize    = "PAGINATION_PAGE_SIZE"
	envStaticDir             = "STATIC_DIR"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "adminservice"
	defaultDBUser             = "adminservice_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultPageSize           = 10
	maxPageSize               = 100
	defaultUploadURLExpiry    = 15 * time.Minute

	// Token lifetime is a design invariant, not tunable per request.
	tokenExpiry = 24 * time.Hour

	// DefaultJWTSecret is the documented fallback used when JWT_SECRET is
	// unset. It is public knowledge and defeats token integrity; startup
	// must warn loudly whenever it is in effect.
	DefaultJWTSecret = "default-secret-key"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AWS      AWSConfig
	JWT      JWTConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	MediaBucket     string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration

	// UsingDefaultSecret is set when the insecure fallback secret is in
	// effect so the caller can warn at startup.
	UsingDefaultSecret bool
}

type AppConfig struct {
	PageSize        int
	MaxPageSize     int
	UploadURLExpiry time.Duration
	StaticDir       string
}

func Load() (*Config, error) {
	jwtSecret := os.Getenv(envJWTSecret)
	usingDefault := jwtSecret == ""
	if usingDefault {
		jwtSecret = DefaultJWTSecret
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			MediaBucket:     os.Getenv(envMediaBucket),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			Expiry:             tokenExpiry,
			UsingDefaultSecret: usingDefault,
		},
		App: AppConfig{
			PageSize:        getIntEnv(envPaginationPageSize, defaultPageSize),
			MaxPageSize:     maxPageSize,
			UploadURLExpiry: defaultUploadURLExpiry,
			StaticDir:       os.Getenv(envStaticDir),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("%s must be set", envPort)
	}
	if c.Database.Password == "" {
		return fmt.Errorf("%s must be set", envDBPassword)
	}
	if c.App.PageSize <= 0 || c.App.PageSize > c.App.MaxPageSize {
		return fmt.Errorf("%s must be between 1 and %d", envPaginationPageSize, c.App.MaxPageSize)
	}
	return nil
}

// MediaEnabled reports whether S3-backed media uploads are configured.
func (c *Config) MediaEnabled() bool {
	return c.AWS.Region != "" && c.AWS.AccessKeyID != "" && c.AWS.SecretAccessKey != "" && c.AWS.MediaBucket != ""
}

// DSN builds the postgres connection string for pgx.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
