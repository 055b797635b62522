package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"orgdrive/utils"
)

const (
	BlobProviderB2    = "b2"
	BlobProviderMinIO = "minio"
)

type Config struct {
	Port string
	Env  string

	MongoURI     string
	DatabaseName string

	IdentityJWTSecret string
	IdentityJWTIssuer string
	WebhookSecret     string

	PublicBaseURL      string
	UploadTicketSecret string
	UploadTicketTTL    time.Duration
	DownloadURLTTL     time.Duration
	MaxFileSize        int64

	BlobProvider string

	B2ApplicationKeyID string
	B2ApplicationKey   string
	B2BucketName       string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	RedisURL string

	NATSURL             string
	EventsSubjectPrefix string

	PurgeInterval time.Duration

	AllowedOrigins []string

	LogLevel string
	LogFile  string
}

// LoadConfig reads the environment into a Config and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURI:     getEnv("MONGO_URI", getEnv("MONGODB_URI", "mongodb://localhost:27017")),
		DatabaseName: getEnv("DATABASE_NAME", "orgdrive"),

		IdentityJWTSecret: getEnv("IDENTITY_JWT_SECRET", ""),
		IdentityJWTIssuer: getEnv("IDENTITY_JWT_ISSUER", ""),
		WebhookSecret:     getEnv("WEBHOOK_SECRET", ""),

		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		UploadTicketSecret: getEnv("UPLOAD_TICKET_SECRET", ""),

		BlobProvider: strings.ToLower(getEnv("BLOB_PROVIDER", BlobProviderB2)),

		B2ApplicationKeyID: getFirstEnv("B2_APPLICATION_KEY_ID", "B2_KEY_ID", "BACKBLAZE_KEY_ID"),
		B2ApplicationKey:   getFirstEnv("B2_APPLICATION_KEY", "B2_APP_KEY", "BACKBLAZE_APP_KEY"),
		B2BucketName:       getFirstEnv("B2_BUCKET_NAME", "B2_BUCKET", "BACKBLAZE_BUCKET"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "orgdrive"),

		RedisURL: getEnv("REDIS_URL", ""),

		NATSURL:             getEnv("NATS_URL", ""),
		EventsSubjectPrefix: getEnv("EVENTS_SUBJECT_PREFIX", "orgdrive.files"),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	var err error
	if cfg.UploadTicketTTL, err = parseDuration("UPLOAD_TICKET_TTL", "15m"); err != nil {
		return nil, err
	}
	if cfg.DownloadURLTTL, err = parseDuration("DOWNLOAD_URL_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.PurgeInterval, err = parseDuration("PURGE_INTERVAL", "1h"); err != nil {
		return nil, err
	}
	if cfg.MaxFileSize, err = parseInt64("MAX_FILE_SIZE", "104857600"); err != nil {
		return nil, err
	}
	if cfg.MinIOUseSSL, err = parseBool("MINIO_USE_SSL", "true"); err != nil {
		return nil, err
	}
	if cfg.UploadTicketSecret == "" {
		cfg.UploadTicketSecret = cfg.IdentityJWTSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"MONGO_URI":           c.MongoURI,
		"IDENTITY_JWT_SECRET": c.IdentityJWTSecret,
		"WEBHOOK_SECRET":      c.WebhookSecret,
	}

	switch c.BlobProvider {
	case BlobProviderB2:
		required["B2_APPLICATION_KEY_ID"] = c.B2ApplicationKeyID
		required["B2_APPLICATION_KEY"] = c.B2ApplicationKey
		required["B2_BUCKET_NAME"] = c.B2BucketName
	case BlobProviderMinIO:
		required["MINIO_ENDPOINT"] = c.MinIOEndpoint
		required["MINIO_ACCESS_KEY"] = c.MinIOAccessKey
		required["MINIO_SECRET_KEY"] = c.MinIOSecretKey
	default:
		return fmt.Errorf("unsupported BLOB_PROVIDER %q (expected %q or %q)", c.BlobProvider, BlobProviderB2, BlobProviderMinIO)
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.PurgeInterval <= 0 {
		return fmt.Errorf("PURGE_INTERVAL must be positive")
	}
	return nil
}

// LogConfig writes the effective configuration with secrets masked.
func (c *Config) LogConfig() {
	utils.Component("config").WithFields(map[string]interface{}{
		"port":            c.Port,
		"env":             c.Env,
		"database":        c.DatabaseName,
		"mongo_uri":       maskConnectionString(c.MongoURI),
		"identity_secret": maskSecret(c.IdentityJWTSecret),
		"identity_issuer": c.IdentityJWTIssuer,
		"webhook_secret":  maskSecret(c.WebhookSecret),
		"blob_provider":   c.BlobProvider,
		"b2_key_id":       maskSecret(c.B2ApplicationKeyID),
		"b2_bucket":       c.B2BucketName,
		"minio_endpoint":  c.MinIOEndpoint,
		"minio_bucket":    c.MinIOBucket,
		"redis":           maskConnectionString(c.RedisURL),
		"nats":            c.NATSURL,
		"purge_interval":  c.PurgeInterval.String(),
		"allowed_origins": c.AllowedOrigins,
	}).Info("configuration loaded")
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func maskConnectionString(uri string) string {
	if uri == "" {
		return "[NOT SET]"
	}
	if i := strings.LastIndex(uri, "@"); i >= 0 {
		return "[CREDENTIALS_HIDDEN]@" + uri[i+1:]
	}
	return uri
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFirstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func parseInt64(key, def string) (int64, error) {
	s := getEnv(key, def)
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return i, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	s := getEnv(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseBool(key, def string) (bool, error) {
	s := getEnv(key, def)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func parseStringSlice(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
