package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Policy values for handling bad records during a run.
const (
	// PolicyAbort fails the whole run on the first offending record.
	PolicyAbort = "abort"
	// PolicySkip drops the offending record and counts it.
	PolicySkip = "skip"
	// PolicyDrop silently drops ledger results without a customer record.
	PolicyDrop = "drop"
	// PolicyError treats a ledger result without a customer record as fatal.
	PolicyError = "error"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	Expiry   time.Duration `mapstructure:"expiry"`
	Issuer   string        `mapstructure:"issuer"`
	AdminKey string        `mapstructure:"admin_key"` // shared key exchanged for a token
}

// BatchConfig drives one analytics run.
type BatchConfig struct {
	CustomersFile     string        `mapstructure:"customers_file"`
	TransactionsFile  string        `mapstructure:"transactions_file"`
	CurrenciesFile    string        `mapstructure:"currencies_file"`
	OutputDir         string        `mapstructure:"output_dir"`
	BaseCurrency      string        `mapstructure:"base_currency"`
	Workers           int           `mapstructure:"workers"`
	BonusMarker       string        `mapstructure:"bonus_marker"`
	TaxRate           float64       `mapstructure:"tax_rate"`
	OnUnknownCurrency string        `mapstructure:"on_unknown_currency"` // abort | skip
	OnUnknownCustomer string        `mapstructure:"on_unknown_customer"` // drop | error
	Persist           bool          `mapstructure:"persist"`
	RateCacheTTL      time.Duration `mapstructure:"rate_cache_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WLA_ (Wager Ledger Analytics).
// Nested keys use underscore: WLA_DATABASE_HOST, WLA_BATCH_WORKERS, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wager_analytics")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "wager-ledger-analytics")
	v.SetDefault("jwt.admin_key", "")
	v.SetDefault("batch.customers_file", "data/customers.csv")
	v.SetDefault("batch.transactions_file", "data/transactions.csv")
	v.SetDefault("batch.currencies_file", "data/currencies.csv")
	v.SetDefault("batch.output_dir", "out")
	v.SetDefault("batch.base_currency", "EUR")
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.bonus_marker", "_BONUS")
	v.SetDefault("batch.tax_rate", 0.01)
	v.SetDefault("batch.on_unknown_currency", PolicyAbort)
	v.SetDefault("batch.on_unknown_customer", PolicyDrop)
	v.SetDefault("batch.persist", false)
	v.SetDefault("batch.rate_cache_ttl", "15m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: WLA_DATABASE_HOST -> database.host
	v.SetEnvPrefix("WLA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Batch.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (b BatchConfig) validate() error {
	switch b.OnUnknownCurrency {
	case PolicyAbort, PolicySkip:
	default:
		return fmt.Errorf("batch.on_unknown_currency: invalid policy %q", b.OnUnknownCurrency)
	}
	switch b.OnUnknownCustomer {
	case PolicyDrop, PolicyError:
	default:
		return fmt.Errorf("batch.on_unknown_customer: invalid policy %q", b.OnUnknownCustomer)
	}
	if b.Workers < 1 {
		return fmt.Errorf("batch.workers: must be at least 1, got %d", b.Workers)
	}
	if b.TaxRate < 0 || b.TaxRate >= 1 {
		return fmt.Errorf("batch.tax_rate: must be in [0, 1), got %v", b.TaxRate)
	}
	return nil
}
