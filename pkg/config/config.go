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
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Ranking      RankingConfig
	Commission   CommissionConfig
	Cron         CronConfig
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
	Env          string `envconfig:"RUPIYA_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"RUPIYA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RUPIYA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"RUPIYA_SERVICE_KIND" default:"worker"`
}

type DBConfig struct {
	DSN    string `envconfig:"RUPIYA_DB_DSN"`
	Driver string `envconfig:"RUPIYA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RUPIYA_DB_HOST"`
	LegacyPort     int    `envconfig:"RUPIYA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RUPIYA_DB_USER"`
	LegacyPassword string `envconfig:"RUPIYA_DB_PASSWORD"`
	LegacyName     string `envconfig:"RUPIYA_DB_NAME"`
	LegacySSLMode  string `envconfig:"RUPIYA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RUPIYA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RUPIYA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RUPIYA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RUPIYA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RUPIYA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RUPIYA_REDIS_ADDR"`
	Password     string        `envconfig:"RUPIYA_REDIS_PASSWORD"`
	DB           int           `envconfig:"RUPIYA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RUPIYA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RUPIYA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RUPIYA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RUPIYA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RUPIYA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RUPIYA_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"RUPIYA_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"RUPIYA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"RUPIYA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"RUPIYA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	PaymentsSubscription string `envconfig:"RUPIYA_PUBSUB_PAYMENTS_SUBSCRIPTION" default:"payments-commission"`
}

type BigQueryConfig struct {
	Dataset         string `envconfig:"RUPIYA_BIGQUERY_DATASET" default:"rupiya"`
	CommissionTable string `envconfig:"RUPIYA_BIGQUERY_COMMISSION_TABLE" default:"commission_facts"`
	Enabled         bool   `envconfig:"RUPIYA_BIGQUERY_ENABLED" default:"false"`
}

type RankingConfig struct {
	HomepageSize  int           `envconfig:"RUPIYA_RANKING_HOMEPAGE_SIZE" default:"24"`
	CacheTTL      time.Duration `envconfig:"RUPIYA_RANKING_CACHE_TTL" default:"30m"`
	MaxCandidates int           `envconfig:"RUPIYA_RANKING_MAX_CANDIDATES" default:"500"`
}

type CommissionConfig struct {
	CurrencyCode      string        `envconfig:"RUPIYA_COMMISSION_CURRENCY" default:"INR"`
	ReconcileBatch    int           `envconfig:"RUPIYA_COMMISSION_RECONCILE_BATCH" default:"200"`
	ReconcileLookback time.Duration `envconfig:"RUPIYA_COMMISSION_RECONCILE_LOOKBACK" default:"168h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"RUPIYA_CRON_INTERVAL" default:"15m"`
	LockTTL  time.Duration `envconfig:"RUPIYA_CRON_LOCK_TTL" default:"14m"`
}

// Currency returns the upper-cased ISO currency code commissions are booked in.
func (c CommissionConfig) Currency() string {
	code := strings.ToUpper(strings.TrimSpace(c.CurrencyCode))
	if code == "" {
		return "INR"
	}
	return code
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
