package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is used by envconfig when binding struct tags without an explicit name.
const EnvPrefix = "FRESHFARM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FRESHFARM_DB_DSN"
	EnvDBHost = "FRESHFARM_DB_HOST"
	EnvDBUser = "FRESHFARM_DB_USER"
	EnvDBName = "FRESHFARM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	CORS         CORSConfig
	Orders       OrdersConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRESHFARM_APP_ENV" required:"true"`
	Port         string `envconfig:"FRESHFARM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRESHFARM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHFARM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRESHFARM_DB_DSN"`
	Driver string `envconfig:"FRESHFARM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRESHFARM_DB_HOST"`
	LegacyPort     int    `envconfig:"FRESHFARM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRESHFARM_DB_USER"`
	LegacyPassword string `envconfig:"FRESHFARM_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRESHFARM_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRESHFARM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRESHFARM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRESHFARM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHFARM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRESHFARM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHFARM_REDIS_URL"`
	Address      string        `envconfig:"FRESHFARM_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHFARM_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHFARM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHFARM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHFARM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHFARM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHFARM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHFARM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IdentityConfig carries the external identity provider settings. Session
// tokens are verified with SecretKey; webhook payloads are authenticated with
// WebhookSecret.
type IdentityConfig struct {
	SecretKey     string        `envconfig:"FRESHFARM_IDENTITY_SECRET_KEY" required:"true"`
	WebhookSecret string        `envconfig:"FRESHFARM_IDENTITY_WEBHOOK_SECRET"`
	Issuer        string        `envconfig:"FRESHFARM_IDENTITY_ISSUER"`
	Leeway        time.Duration `envconfig:"FRESHFARM_IDENTITY_LEEWAY" default:"30s"`
}

type CORSConfig struct {
	AllowedOrigin string `envconfig:"FRESHFARM_CORS_ORIGIN" default:"http://localhost:5173"`
}

// OrdersConfig holds checkout policy knobs.
type OrdersConfig struct {
	MinimumTotal int `envconfig:"FRESHFARM_ORDER_MINIMUM_TOTAL" default:"50"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FRESHFARM_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
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
