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
	Sendgrid     SendgridConfig
	Reports      ReportsConfig
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
	Env          string `envconfig:"TAXREPORTER_APP_ENV" required:"true"`
	Port         string `envconfig:"TAXREPORTER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TAXREPORTER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TAXREPORTER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TAXREPORTER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"TAXREPORTER_DB_DSN"`
	Driver string `envconfig:"TAXREPORTER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TAXREPORTER_DB_HOST"`
	LegacyPort     int    `envconfig:"TAXREPORTER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TAXREPORTER_DB_USER"`
	LegacyPassword string `envconfig:"TAXREPORTER_DB_PASSWORD"`
	LegacyName     string `envconfig:"TAXREPORTER_DB_NAME"`
	LegacySSLMode  string `envconfig:"TAXREPORTER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TAXREPORTER_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"TAXREPORTER_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TAXREPORTER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TAXREPORTER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TAXREPORTER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TAXREPORTER_REDIS_ADDR"`
	Password     string        `envconfig:"TAXREPORTER_REDIS_PASSWORD"`
	DB           int           `envconfig:"TAXREPORTER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TAXREPORTER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TAXREPORTER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TAXREPORTER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TAXREPORTER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TAXREPORTER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"TAXREPORTER_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"TAXREPORTER_SQLITE_PATH" default:"taxreporter.db"`
	AutoMigrate bool   `envconfig:"TAXREPORTER_AUTO_MIGRATE" default:"false"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"TAXREPORTER_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"TAXREPORTER_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"TAXREPORTER_SENDGRID_FROM_NAME" default:"Texas Sales Tax Reporter"`
}

type ReportsConfig struct {
	OperatorToken    string        `envconfig:"TAXREPORTER_OPERATOR_TOKEN" required:"true"`
	DefaultRecipient string        `envconfig:"TAXREPORTER_DEFAULT_RECIPIENT"`
	CronInterval     time.Duration `envconfig:"TAXREPORTER_CRON_INTERVAL" default:"24h"`
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
