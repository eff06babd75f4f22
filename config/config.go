package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	DataFile   string
	ExportDir  string
	ReportFile string
	HTTPAddr   string
	GinMode    string
	TgToken    string
	DbDriver   string
	DbDsn      string
	TopN       int
	LogLevel   string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the process-wide configuration, loading .env on first use.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("cannot read .env file: %v", err)
		}
		cfg, err := Load()
		if err != nil {
			log.Printf("config: %v, using defaults for those keys", err)
		}
		config = &cfg
	})
	return config
}

func Defaults() Config {
	return Config{
		DataFile:   "data/merged_clients.csv",
		ExportDir:  "exports",
		ReportFile: "insights.pdf",
		HTTPAddr:   ":8005",
		GinMode:    "release",
		DbDriver:   "sqlite",
		DbDsn:      "insights.db",
		TopN:       10,
		LogLevel:   "info",
	}
}

// Load reads the environment on top of Defaults. A key that does not parse or
// validate keeps its default and is reported in the returned error; the
// returned Config is usable either way.
func Load() (Config, error) {
	d := Defaults()
	cfg := Config{
		DataFile:   getEnv("DATA_FILE", d.DataFile),
		ExportDir:  getEnv("EXPORT_DIR", d.ExportDir),
		ReportFile: getEnv("REPORT_FILE", d.ReportFile),
		HTTPAddr:   getEnv("HTTP_ADDR", d.HTTPAddr),
		GinMode:    getEnv("GIN_MODE", d.GinMode),
		TgToken:    strings.TrimSpace(os.Getenv("TG_TOKEN")),
		DbDriver:   strings.ToLower(getEnv("DB_DRIVER", d.DbDriver)),
		DbDsn:      getEnv("DB_DSN", d.DbDsn),
		LogLevel:   getEnv("LOG_LEVEL", d.LogLevel),
	}

	var errs []error
	topN, err := parseIntEnv("TOP_N", d.TopN)
	if err != nil {
		errs = append(errs, fmt.Errorf("parse TOP_N: %w", err))
		topN = d.TopN
	}
	cfg.TopN = topN

	if err := validateTopN(cfg.TopN); err != nil {
		errs = append(errs, err)
		cfg.TopN = d.TopN
	}
	if err := validateDriver(cfg.DbDriver); err != nil {
		errs = append(errs, err)
		cfg.DbDriver = d.DbDriver
	}
	return cfg, errors.Join(errs...)
}

func (c Config) Validate() error {
	return errors.Join(validateTopN(c.TopN), validateDriver(c.DbDriver))
}

func validateTopN(n int) error {
	if n <= 0 {
		return errors.New("TOP_N must be positive")
	}
	return nil
}

func validateDriver(driver string) error {
	switch driver {
	case "mysql", "sqlite":
		return nil
	}
	return fmt.Errorf("DB_DRIVER %q is not supported, use mysql or sqlite", driver)
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(val)
}
