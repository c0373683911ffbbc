package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/paygo/internal/logging"
	"github.com/spf13/viper"
)

// Settings holds process configuration for the CLI and the HTTP server
type Settings struct {
	Log        logging.Config
	PolicyFile string
	HTTP       HTTPSettings
	Database   DatabaseSettings
	Batch      BatchSettings
}

// HTTPSettings configures the API server
type HTTPSettings struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout int // seconds
}

// DatabaseSettings configures the optional Postgres catalog. An empty DSN
// means no database is used.
type DatabaseSettings struct {
	DSN      string
	MaxConns int32
}

// BatchSettings configures payroll batch runs
type BatchSettings struct {
	Concurrency int
}

// LoadSettings loads settings from, lowest to highest priority: built-in
// defaults, a paygo.yaml config file, a .env file and PAYGO_ environment
// variables (PAYGO_HTTP_ADDR, PAYGO_DATABASE_DSN, ...). configFile overrides
// the config file search; a missing .env or paygo.yaml is not an error.
func LoadSettings(configFile string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("paygo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/paygo")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PAYGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	s := &Settings{
		Log: logging.Config{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			TimeFormat: v.GetString("log.time_format"),
		},
		PolicyFile: v.GetString("policy_file"),
		HTTP: HTTPSettings{
			Addr:            v.GetString("http.addr"),
			AllowedOrigins:  v.GetStringSlice("http.allowed_origins"),
			ShutdownTimeout: v.GetInt("http.shutdown_timeout"),
		},
		Database: DatabaseSettings{
			DSN:      v.GetString("database.dsn"),
			MaxConns: v.GetInt32("database.max_conns"),
		},
		Batch: BatchSettings{
			Concurrency: v.GetInt("batch.concurrency"),
		},
	}
	applyDefaults(s)
	return s, nil
}

// applyDefaults sets default values for any empty settings
func applyDefaults(s *Settings) {
	def := logging.DefaultConfig()
	if s.Log.Level == "" {
		s.Log.Level = def.Level
	}
	if s.Log.Format == "" {
		s.Log.Format = def.Format
	}
	if s.Log.Output == "" {
		s.Log.Output = def.Output
	}
	if s.Log.TimeFormat == "" {
		s.Log.TimeFormat = def.TimeFormat
	}
	if s.HTTP.Addr == "" {
		s.HTTP.Addr = ":8080"
	}
	if len(s.HTTP.AllowedOrigins) == 0 {
		s.HTTP.AllowedOrigins = []string{"*"}
	}
	if s.HTTP.ShutdownTimeout <= 0 {
		s.HTTP.ShutdownTimeout = 10
	}
	if s.Database.MaxConns <= 0 {
		s.Database.MaxConns = 4
	}
}
