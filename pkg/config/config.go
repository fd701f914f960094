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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	Inventory    InventoryConfig
	Sales        SalesConfig
	CORS         CORSConfig
	Cron         CronConfig
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c Config) Validate() error {
	if c.Identity.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvIdentityTimeout)
	}
	if c.Inventory.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvInventoryTimeout)
	}
	if _, err := url.ParseRequestURI(c.Identity.BaseURL); err != nil {
		return fmt.Errorf("%s is not a valid url: %w", EnvIdentityBaseURL, err)
	}
	for name, raw := range map[string]string{
		EnvInventoryIngredientsURL: c.Inventory.IngredientsURL,
		EnvInventoryMaterialsURL:   c.Inventory.MaterialsURL,
	} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("%s is not a valid url: %w", name, err)
		}
	}
	if strings.TrimSpace(c.Sales.DisplayCodePrefix) == "" {
		return fmt.Errorf("%s must not be empty", EnvSalesDisplayCodePrefix)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"BLEUPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"BLEUPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BLEUPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLEUPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BLEUPOS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BLEUPOS_DB_DSN"`
	Driver string `envconfig:"BLEUPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BLEUPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"BLEUPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BLEUPOS_DB_USER"`
	LegacyPassword string `envconfig:"BLEUPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"BLEUPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"BLEUPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLEUPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLEUPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLEUPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLEUPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets a local sqlite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"BLEUPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BLEUPOS_REDIS_ADDR"`
	Password     string        `envconfig:"BLEUPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLEUPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLEUPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLEUPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLEUPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLEUPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLEUPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type IdentityConfig struct {
	BaseURL  string        `envconfig:"BLEUPOS_IDENTITY_BASE_URL" required:"true"`
	MePath   string        `envconfig:"BLEUPOS_IDENTITY_ME_PATH" default:"/auth/users/me"`
	Timeout  time.Duration `envconfig:"BLEUPOS_IDENTITY_TIMEOUT" default:"5s"`
	CacheTTL time.Duration `envconfig:"BLEUPOS_IDENTITY_CACHE_TTL" default:"2m"`
}

type InventoryConfig struct {
	IngredientsURL string        `envconfig:"BLEUPOS_INVENTORY_INGREDIENTS_URL" required:"true"`
	MaterialsURL   string        `envconfig:"BLEUPOS_INVENTORY_MATERIALS_URL" required:"true"`
	Timeout        time.Duration `envconfig:"BLEUPOS_INVENTORY_TIMEOUT" default:"5s"`
	ServiceToken   string        `envconfig:"BLEUPOS_INVENTORY_SERVICE_TOKEN"`

	RetryMaxAttempts int     `envconfig:"BLEUPOS_INVENTORY_RETRY_MAX_ATTEMPTS" default:"5"`
	RetryBatchSize   int     `envconfig:"BLEUPOS_INVENTORY_RETRY_BATCH_SIZE" default:"50"`
	RetryRatePerSec  float64 `envconfig:"BLEUPOS_INVENTORY_RETRY_RATE_PER_SEC" default:"5"`
}

type SalesConfig struct {
	AddonPrices             string        `envconfig:"BLEUPOS_SALES_ADDON_PRICES" default:"espressoShots:25.00,seaSaltCream:30.00,syrupSauces:20.00"`
	DisplayCodePrefix       string        `envconfig:"BLEUPOS_SALES_DISPLAY_CODE_PREFIX" default:"SO-"`
	ExternalReferencePrefix string        `envconfig:"BLEUPOS_SALES_EXTERNAL_REFERENCE_PREFIX" default:"ONLINE-"`
	IdempotencyTTL          time.Duration `envconfig:"BLEUPOS_SALES_IDEMPOTENCY_TTL" default:"24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BLEUPOS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"BLEUPOS_CRON_INTERVAL" default:"5m"`
	LockTTL  time.Duration `envconfig:"BLEUPOS_CRON_LOCK_TTL" default:"4m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BLEUPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "bleupos.db"
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
