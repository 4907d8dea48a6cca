// Package config loads the pensionctl configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Provider ProviderConfig `mapstructure:"provider"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// LedgerConfig selects where the ledger lives and what it tracks.
type LedgerConfig struct {
	Backend  string `mapstructure:"backend"` // file, sqlite, postgres or sheets
	Window   int    `mapstructure:"window"`
	Features string `mapstructure:"features"` // basic or full
	File     string `mapstructure:"file"`
}

// SQLiteConfig holds sqlite settings.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig holds postgres settings.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// SheetsConfig holds the Google Sheet settings.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Sheet           string `mapstructure:"sheet"`
	Layout          string `mapstructure:"layout"` // oldest_first or newest_first
	CredentialsFile string `mapstructure:"credentials_file"`
	ClientEmail     string `mapstructure:"client_email"`
	PrivateKey      string `mapstructure:"private_key"`
}

// ProviderConfig holds the pension provider portal settings.
type ProviderConfig struct {
	URL    string `mapstructure:"url"`
	Policy string `mapstructure:"policy"`
}

// KafkaConfig enables row notifications when brokers are set.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// legacyEnv are the variable names of the former .env files, still honored.
var legacyEnv = map[string]string{
	"provider.url":          "PENSION_URL",
	"sheets.spreadsheet_id": "GOOGLE_SPREADSHEET_ID",
	"sheets.client_email":   "CLIENT_EMAIL",
	"sheets.private_key":    "PRIVATE_KEY",
}

// Load reads configuration from .env, the config file and env. Env var
// overrides use prefix PENSION_.
func Load() (Config, error) {
	// a missing .env is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// default values
	v.SetDefault("ledger.backend", "file")
	v.SetDefault("ledger.window", 15)
	v.SetDefault("ledger.features", "full")
	v.SetDefault("ledger.file", "ledger.jsonl")
	v.SetDefault("sqlite.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "pension", "ledger.db"))
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.sheet", "")
	v.SetDefault("sheets.layout", "newest_first")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.client_email", "")
	v.SetDefault("sheets.private_key", "")
	v.SetDefault("provider.url", "")
	v.SetDefault("provider.policy", "")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "pension.row_recorded")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PENSION_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "pension"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PENSION")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, legacy := range legacyEnv {
		envKey := "PENSION_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return Config{}, err
		}
	}

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
