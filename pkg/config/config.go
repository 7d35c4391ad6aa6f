package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Storage      StorageConfig
	GCP          GCPConfig
	COS          COSConfig
	Media        MediaConfig
	Auth         AuthConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if !cfg.Auth.Disabled && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("%s is required unless %s is set", EnvAuthJWTSecret, EnvAuthDisabled)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VAULT_APP_ENV" required:"true"`
	Port         string `envconfig:"VAULT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VAULT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VAULT_LOG_WARN_STACK" default:"false"`

	// CORSAllowedOrigins is comma separated; empty keeps the built-in list.
	CORSAllowedOrigins []string `envconfig:"VAULT_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VAULT_DB_DSN"`
	Driver string `envconfig:"VAULT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VAULT_DB_HOST"`
	LegacyPort     int    `envconfig:"VAULT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VAULT_DB_USER"`
	LegacyPassword string `envconfig:"VAULT_DB_PASSWORD"`
	LegacyName     string `envconfig:"VAULT_DB_NAME"`
	LegacySSLMode  string `envconfig:"VAULT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VAULT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VAULT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VAULT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VAULT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"VAULT_DB_SLOW_QUERY" default:"500ms"`
}

// IsSQLite reports whether the sqlite dialector is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// RedisConfig is optional; with neither URL nor address set the API falls
// back to in-process locking and skips idempotency replay.
type RedisConfig struct {
	URL          string        `envconfig:"VAULT_REDIS_URL"`
	Address      string        `envconfig:"VAULT_REDIS_ADDR"`
	Password     string        `envconfig:"VAULT_REDIS_PASSWORD"`
	DB           int           `envconfig:"VAULT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VAULT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VAULT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VAULT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VAULT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VAULT_REDIS_WRITE_TIMEOUT" default:"5s"`

	IdempotencyTTL time.Duration `envconfig:"VAULT_REDIS_IDEMPOTENCY_TTL" default:"24h"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type StorageConfig struct {
	Driver        string `envconfig:"VAULT_STORAGE_DRIVER" default:"gcs"`
	Bucket        string `envconfig:"VAULT_STORAGE_BUCKET" default:"car-images"`
	PublicBaseURL string `envconfig:"VAULT_STORAGE_PUBLIC_BASE_URL"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverGCS, StorageDriverCOS:
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, s.Driver)
	}
	if strings.TrimSpace(s.Bucket) == "" {
		return fmt.Errorf("%s is required", EnvStorageBucket)
	}
	return nil
}

type GCPConfig struct {
	CredentialsJSON        string `envconfig:"VAULT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VAULT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type COSConfig struct {
	AppID     string `envconfig:"VAULT_COS_APP_ID"`
	Region    string `envconfig:"VAULT_COS_REGION"`
	SecretID  string `envconfig:"VAULT_COS_SECRET_ID"`
	SecretKey string `envconfig:"VAULT_COS_SECRET_KEY"`
}

type MediaConfig struct {
	MaxImageMB    int           `envconfig:"VAULT_MEDIA_MAX_IMAGE_MB" default:"10"`
	MaxVideoMB    int           `envconfig:"VAULT_MEDIA_MAX_VIDEO_MB" default:"500"`
	UploadTimeout time.Duration `envconfig:"VAULT_MEDIA_UPLOAD_TIMEOUT" default:"30s"`
	GalleryLimit  int           `envconfig:"VAULT_MEDIA_GALLERY_LIMIT" default:"10"`
	LockTTL       time.Duration `envconfig:"VAULT_MEDIA_LOCK_TTL" default:"15s"`
}

func (m MediaConfig) MaxImageBytes() int64 {
	return int64(m.MaxImageMB) * 1024 * 1024
}

func (m MediaConfig) MaxVideoBytes() int64 {
	return int64(m.MaxVideoMB) * 1024 * 1024
}

type AuthConfig struct {
	JWTSecret string `envconfig:"VAULT_AUTH_JWT_SECRET"`
	JWTIssuer string `envconfig:"VAULT_AUTH_JWT_ISSUER"`
	AdminRole string `envconfig:"VAULT_AUTH_ADMIN_ROLE" default:"admin"`
	Disabled  bool   `envconfig:"VAULT_AUTH_DISABLED" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VAULT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
