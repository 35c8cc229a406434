package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

const (
	keyDBHost          = "db_host"
	keyDBPort          = "db_port"
	keyDBName          = "db_name"
	keyDBUser          = "db_user"
	keyDBPassword      = "db_password"
	keyDBSSLMode       = "db_sslmode"
	keyDBAdapter       = "db_adapter"
	keyLiveBatchSize   = "faker_batch_size"
	keyLiveIntervalSec = "faker_interval_sec"
	keyLiveMaxCycles   = "live_traffic_max_cycles"
	keyLiveRandomSeed  = "live_traffic_random_seed"
	keySeedDrivers     = "seed_drivers"
	keySeedCustomers   = "seed_customers"
	keySeedBatchSize   = "seed_batch_size"
	keySeedSources     = "seed_sources"
	keySeedSourcesFile = "seed_sources_file"
	keySeedRandomSeed  = "seed_random_seed"
	keyDownloadTimeout = "download_timeout_sec"
	keyLogLevel        = "log_level"
	keyLogFormat       = "log_format"
	keyMetricsAddr     = "metrics_addr"
	keyRabbitMQURL     = "rabbitmq_url"

	defaultDBPort          = 5432
	defaultSSLMode         = "disable"
	defaultLiveBatchSize   = 10
	defaultLiveIntervalSec = 30
	defaultSeedDrivers     = 500
	defaultSeedCustomers   = 5000
	defaultSeedBatchSize   = 5000
	defaultDownloadTimeout = 120
	defaultLogLevel        = "info"

	// AdapterPGX selects a pgxpool.Pool connection.
	AdapterPGX = "pgx"
	// AdapterSQL selects a database/sql connection with the lib/pq driver.
	AdapterSQL = "sql"
	// AdapterSQLX selects a sqlx connection with the lib/pq driver.
	AdapterSQLX = "sqlx"

	// LogFormatJSON writes one json object per record.
	LogFormatJSON = "json"
	// LogFormatText writes logfmt style records.
	LogFormatText = "text"
)

var (
	// ErrMissingSetting is returned when a required environment variable is not set.
	ErrMissingSetting = errors.New("required setting is missing")

	// ErrInvalidSetting is returned when an environment variable holds an unusable value.
	ErrInvalidSetting = errors.New("setting has an invalid value")
)

// Config is the immutable process configuration.
type Config struct {
	DB          DBConfig
	Seed        SeedConfig
	Live        LiveConfig
	Log         LogConfig
	MetricsAddr string
	RabbitMQURL string
}

// DBConfig locates the marketplace database.
type DBConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	Adapter  string
}

// SeedConfig drives the historical loader.
type SeedConfig struct {
	Drivers         int
	Customers       int
	BatchSize       int
	Sources         []tripdata.Source
	RandomSeed      uint64
	DownloadTimeout time.Duration
}

// LiveConfig drives the continuous generator.
// A zero RandomSeed picks a fresh seed on every start.
type LiveConfig struct {
	BatchSize  int
	Interval   time.Duration
	MaxCycles  int
	RandomSeed uint64
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  slog.Level
	Format string
}

// Load reads the configuration from the environment.
//
// Required: DB_HOST, DB_NAME, DB_USER, DB_PASSWORD.
// Optional with defaults: DB_PORT (5432), DB_SSLMODE (disable), DB_ADAPTER (pgx),
// FAKER_BATCH_SIZE (10), FAKER_INTERVAL_SEC (30), LIVE_TRAFFIC_MAX_CYCLES (0),
// LIVE_TRAFFIC_RANDOM_SEED (0), SEED_DRIVERS (500), SEED_CUSTOMERS (5000), SEED_BATCH_SIZE (5000),
// SEED_SOURCES (TLC 2024-01..03), SEED_SOURCES_FILE, SEED_RANDOM_SEED (0),
// DOWNLOAD_TIMEOUT_SEC (120), LOG_LEVEL (info), LOG_FORMAT (json), METRICS_ADDR, RABBITMQ_URL.
//
// SEED_RANDOM_SEED only drives the historical loader. The live generator reads
// LIVE_TRAFFIC_RANDOM_SEED, so a reproducible seed run does not make live traffic
// replay the same rides after every restart.
// Numeric settings that do not parse as integers are rejected with ErrInvalidSetting.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyDBPort, defaultDBPort)
	v.SetDefault(keyDBSSLMode, defaultSSLMode)
	v.SetDefault(keyDBAdapter, AdapterPGX)
	v.SetDefault(keyLiveBatchSize, defaultLiveBatchSize)
	v.SetDefault(keyLiveIntervalSec, defaultLiveIntervalSec)
	v.SetDefault(keyLiveMaxCycles, 0)
	v.SetDefault(keyLiveRandomSeed, 0)
	v.SetDefault(keySeedDrivers, defaultSeedDrivers)
	v.SetDefault(keySeedCustomers, defaultSeedCustomers)
	v.SetDefault(keySeedBatchSize, defaultSeedBatchSize)
	v.SetDefault(keySeedSources, strings.Join(tripdata.DefaultTLCURLs, ","))
	v.SetDefault(keySeedRandomSeed, 0)
	v.SetDefault(keyDownloadTimeout, defaultDownloadTimeout)
	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetDefault(keyLogFormat, LogFormatJSON)
}

func fromViper(v *viper.Viper) (Config, error) {
	var missing []string
	required := func(key string) string {
		value := strings.TrimSpace(v.GetString(key))
		if value == "" {
			missing = append(missing, strings.ToUpper(key))
		}

		return value
	}

	numbers := numberReader{v: v}

	cfg := Config{
		DB: DBConfig{
			Host:     required(keyDBHost),
			Port:     numbers.integer(keyDBPort),
			Name:     required(keyDBName),
			User:     required(keyDBUser),
			Password: required(keyDBPassword),
			SSLMode:  v.GetString(keyDBSSLMode),
			Adapter:  strings.ToLower(v.GetString(keyDBAdapter)),
		},
		Seed: SeedConfig{
			Drivers:         numbers.integer(keySeedDrivers),
			Customers:       numbers.integer(keySeedCustomers),
			BatchSize:       numbers.integer(keySeedBatchSize),
			RandomSeed:      numbers.unsigned(keySeedRandomSeed),
			DownloadTimeout: numbers.seconds(keyDownloadTimeout),
		},
		Live: LiveConfig{
			BatchSize:  numbers.integer(keyLiveBatchSize),
			Interval:   numbers.seconds(keyLiveIntervalSec),
			MaxCycles:  numbers.integer(keyLiveMaxCycles),
			RandomSeed: numbers.unsigned(keyLiveRandomSeed),
		},
		Log: LogConfig{
			Format: strings.ToLower(v.GetString(keyLogFormat)),
		},
		MetricsAddr: v.GetString(keyMetricsAddr),
		RabbitMQURL: v.GetString(keyRabbitMQURL),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}

	if numbers.err != nil {
		return Config{}, numbers.err
	}

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString(keyLogLevel))); err != nil {
		return Config{}, invalid(keyLogLevel, err.Error())
	}

	sources, sourcesErr := loadSources(v.GetString(keySeedSourcesFile), v.GetString(keySeedSources))
	if sourcesErr != nil {
		return Config{}, sourcesErr
	}
	cfg.Seed.Sources = sources

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// numberReader parses numeric settings strictly and keeps the first failure.
// viper's GetInt would turn "abc" or "30s" into 0.
type numberReader struct {
	v   *viper.Viper
	err error
}

func (r *numberReader) integer(key string) int {
	n, err := cast.ToIntE(strings.TrimSpace(cast.ToString(r.v.Get(key))))
	if err != nil {
		r.fail(key, "must be an integer")
		return 0
	}

	return n
}

func (r *numberReader) unsigned(key string) uint64 {
	n, err := cast.ToUint64E(strings.TrimSpace(cast.ToString(r.v.Get(key))))
	if err != nil {
		r.fail(key, "must be a non-negative integer")
		return 0
	}

	return n
}

func (r *numberReader) seconds(key string) time.Duration {
	return time.Duration(r.integer(key)) * time.Second
}

func (r *numberReader) fail(key string, reason string) {
	if r.err == nil {
		r.err = invalid(key, reason)
	}
}

func (c Config) validate() error {
	switch {
	case c.DB.Port <= 0:
		return invalid(keyDBPort, "must be positive")
	case c.DB.Adapter != AdapterPGX && c.DB.Adapter != AdapterSQL && c.DB.Adapter != AdapterSQLX:
		return invalid(keyDBAdapter, "must be one of pgx, sql, sqlx")
	case c.Live.BatchSize <= 0:
		return invalid(keyLiveBatchSize, "must be positive")
	case c.Live.Interval < 0:
		return invalid(keyLiveIntervalSec, "must not be negative")
	case c.Live.MaxCycles < 0:
		return invalid(keyLiveMaxCycles, "must not be negative")
	case c.Seed.Drivers < 0:
		return invalid(keySeedDrivers, "must not be negative")
	case c.Seed.Customers < 0:
		return invalid(keySeedCustomers, "must not be negative")
	case c.Seed.BatchSize <= 0:
		return invalid(keySeedBatchSize, "must be positive")
	case c.Seed.DownloadTimeout <= 0:
		return invalid(keyDownloadTimeout, "must be positive")
	case c.Log.Format != LogFormatJSON && c.Log.Format != LogFormatText:
		return invalid(keyLogFormat, "must be json or text")
	default:
		return nil
	}
}

func invalid(key string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidSetting, strings.ToUpper(key), reason)
}
