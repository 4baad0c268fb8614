package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/evolutionflow/admin-bff/pkg/env"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App            AppConfig
	Backend        BackendConfig
	DB             DBConfig
	Redis          RedisConfig
	JWT            JWTConfig
	AuthRateLimit  AuthRateLimitConfig
	FeatureFlags   FeatureFlagsConfig
	ListView       ListViewConfig
	Cron           CronConfig
	CORS           CORSConfig
	ServiceAccount ServiceAccountConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Backend.ensureURL()
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EFADMIN_APP_ENV" required:"true"`
	Port         string `envconfig:"EFADMIN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EFADMIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EFADMIN_LOG_WARN_STACK" default:"false"`
	// AdminPath is where the root path redirects.
	AdminPath string `envconfig:"EFADMIN_ADMIN_PATH" default:"/admin"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the platform REST API every admin read and write goes through.
type BackendConfig struct {
	URL        string        `envconfig:"EFADMIN_BACKEND_URL"`
	Timeout    time.Duration `envconfig:"EFADMIN_BACKEND_TIMEOUT" default:"15s"`
	FetchLimit int           `envconfig:"EFADMIN_BACKEND_FETCH_LIMIT" default:"500"`
}

func (b *BackendConfig) ensureURL() {
	if strings.TrimSpace(b.URL) == "" {
		b.URL = env.First(DefaultBackendURL, EnvBackendURLPublic)
	}
	b.URL = strings.TrimRight(strings.TrimSpace(b.URL), "/")
}

type DBConfig struct {
	DSN    string `envconfig:"EFADMIN_DB_DSN"`
	Driver string `envconfig:"EFADMIN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EFADMIN_DB_HOST"`
	LegacyPort     int    `envconfig:"EFADMIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EFADMIN_DB_USER"`
	LegacyPassword string `envconfig:"EFADMIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"EFADMIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"EFADMIN_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"EFADMIN_SQLITE_PATH" default:"admin-bff.db"`

	MaxOpenConns    int           `envconfig:"EFADMIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EFADMIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EFADMIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EFADMIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EFADMIN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EFADMIN_REDIS_ADDR"`
	Password     string        `envconfig:"EFADMIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"EFADMIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EFADMIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EFADMIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EFADMIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EFADMIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EFADMIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"EFADMIN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"EFADMIN_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"EFADMIN_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"EFADMIN_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"EFADMIN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"EFADMIN_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"EFADMIN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"EFADMIN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"EFADMIN_AUTO_MIGRATE" default:"false"`
}

// ListViewConfig holds the interaction knobs shared by every list page.
type ListViewConfig struct {
	SearchDebounce time.Duration `envconfig:"EFADMIN_LISTVIEW_DEBOUNCE" default:"500ms"`
	PageSize       int           `envconfig:"EFADMIN_LISTVIEW_PAGE_SIZE" default:"10"`
}

type CronConfig struct {
	Interval           time.Duration `envconfig:"EFADMIN_CRON_INTERVAL" default:"5m"`
	AuditRetentionDays int           `envconfig:"EFADMIN_AUDIT_RETENTION_DAYS" default:"180"`
	SnapshotTTL        time.Duration `envconfig:"EFADMIN_DASHBOARD_SNAPSHOT_TTL" default:"10m"`
	SnapshotMaxAge     time.Duration `envconfig:"EFADMIN_DASHBOARD_SNAPSHOT_MAX_AGE" default:"5m"`
}

// AuditRetention converts the configured day count into a duration.
func (c CronConfig) AuditRetention() time.Duration {
	if c.AuditRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.AuditRetentionDays) * 24 * time.Hour
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EFADMIN_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// ServiceAccountConfig is the admin identity background jobs sign in with.
type ServiceAccountConfig struct {
	Email    string `envconfig:"EFADMIN_SERVICE_ACCOUNT_EMAIL"`
	Password string `envconfig:"EFADMIN_SERVICE_ACCOUNT_PASSWORD"`
}

func (s ServiceAccountConfig) Enabled() bool {
	return strings.TrimSpace(s.Email) != "" && s.Password != ""
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = "sqlite"
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
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
