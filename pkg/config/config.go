package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Orders   OrdersConfig
	Session  SessionConfig
	Snapshot SnapshotConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == StorageBackendPostgres {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.Backend == StorageBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required for the redis storage backend", EnvRedisURL, EnvRedisAddr)
	}
	if _, err := cfg.Pricing.TaxRate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORMEE_APP_ENV" required:"true"`
	Port         string `envconfig:"ORMEE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ORMEE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORMEE_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"ORMEE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects where cart snapshots are kept.
type StorageConfig struct {
	Backend     string `envconfig:"ORMEE_STORAGE_BACKEND" default:"memory"`
	AutoMigrate bool   `envconfig:"ORMEE_AUTO_MIGRATE" default:"false"`
}

// NeedsDB reports whether the selected backend is SQL-based.
func (s StorageConfig) NeedsDB() bool {
	return s.Backend == StorageBackendPostgres || s.Backend == StorageBackendSQLite
}

func (s StorageConfig) validate() error {
	switch s.Backend {
	case StorageBackendMemory, StorageBackendRedis, StorageBackendPostgres, StorageBackendSQLite:
		return nil
	}
	return fmt.Errorf("unsupported %s %q", EnvStorageBackend, s.Backend)
}

type DBConfig struct {
	DSN string `envconfig:"ORMEE_DB_DSN"`

	Host     string `envconfig:"ORMEE_DB_HOST"`
	Port     int    `envconfig:"ORMEE_DB_PORT" default:"5432"`
	User     string `envconfig:"ORMEE_DB_USER"`
	Password string `envconfig:"ORMEE_DB_PASSWORD"`
	Name     string `envconfig:"ORMEE_DB_NAME"`
	SSLMode  string `envconfig:"ORMEE_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"ORMEE_SQLITE_PATH" default:"file:ormee.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"ORMEE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ORMEE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ORMEE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORMEE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORMEE_REDIS_URL"`
	Address      string        `envconfig:"ORMEE_REDIS_ADDR"`
	Password     string        `envconfig:"ORMEE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORMEE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORMEE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORMEE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORMEE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORMEE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORMEE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig holds the storefront business rules. Amounts are in whole rupees.
type PricingConfig struct {
	FreeShippingThreshold int64  `envconfig:"ORMEE_FREE_SHIPPING_THRESHOLD" default:"999"`
	FlatShippingFee       int64  `envconfig:"ORMEE_FLAT_SHIPPING_FEE" default:"149"`
	TaxRatePercent        string `envconfig:"ORMEE_TAX_RATE_PERCENT" default:"5"`
}

// TaxRate returns the configured tax rate as a fraction (5 -> 0.05).
func (p PricingConfig) TaxRate() (decimal.Decimal, error) {
	pct, err := decimal.NewFromString(strings.TrimSpace(p.TaxRatePercent))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", EnvTaxRatePercent, err)
	}
	if pct.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be non-negative", EnvTaxRatePercent)
	}
	return pct.Shift(-2), nil
}

type OrdersConfig struct {
	Endpoint string        `envconfig:"ORMEE_ORDERS_ENDPOINT" required:"true"`
	Timeout  time.Duration `envconfig:"ORMEE_ORDERS_TIMEOUT" default:"15s"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"ORMEE_SESSION_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"ORMEE_SESSION_SWEEP_INTERVAL" default:"5m"`
}

type SnapshotConfig struct {
	Key       string        `envconfig:"ORMEE_SNAPSHOT_KEY" default:"cart"`
	RedisTTL  time.Duration `envconfig:"ORMEE_SNAPSHOT_REDIS_TTL" default:"720h"`
	Retention time.Duration `envconfig:"ORMEE_SNAPSHOT_RETENTION" default:"2160h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
