package config

import (
	"io/fs"
	"time"

	"library-tracker/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Storage struct {
	DataFile string `envconfig:"LIBRARY_DATA_FILE" default:"library_data.json"`
	Backend  string `envconfig:"LIBRARY_BACKEND" default:"file"`
}

type Config struct {
	Storage        Storage
	LoanPeriodDays int `envconfig:"LIBRARY_LOAN_PERIOD_DAYS" default:"30"`
	Log            logger.Log
}

// LoanPeriod returns the late-return threshold.
func (c Config) LoanPeriod() time.Duration {
	return time.Duration(c.LoanPeriodDays) * 24 * time.Hour
}

type options struct {
	envFile string
}

type Option func(*options)

// WithEnvFile loads variables from path before reading the environment.
// Variables that are already set win.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// NewConfig reads config from environment. A missing .env file is ignored.
func NewConfig(ops ...Option) (Config, error) {
	o := options{envFile: ".env"}
	for _, op := range ops {
		op(&o)
	}
	if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "process env")
	}
	if cfg.LoanPeriodDays <= 0 {
		return Config{}, errors.Errorf("LIBRARY_LOAN_PERIOD_DAYS must be positive, got %d", cfg.LoanPeriodDays)
	}
	return cfg, nil
}
