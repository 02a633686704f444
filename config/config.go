// Package config resolves the runtime configuration from command-line
// flags and the environment. Environment values override flag values.
package config

import (
	"flag"
	"fmt"
	"log"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the resolved runtime configuration.
type Config struct {
	InputPath       string        `env:"CONTRIBGRID_INPUT" validate:"required"`
	Token           string        `env:"GITHUB_TOKEN" validate:"required"`
	Endpoint        string        `env:"CONTRIBGRID_ENDPOINT" validate:"url"`
	BatchSize       int           `env:"CONTRIBGRID_BATCH_SIZE" validate:"gt=0"`
	InterBatchDelay time.Duration `env:"CONTRIBGRID_BATCH_DELAY" validate:"gte=0"`
	RetryAttempts   int           `env:"CONTRIBGRID_RETRIES" validate:"gt=0"`
	NameWidth       int           `env:"CONTRIBGRID_NAME_WIDTH" validate:"gt=0"`
}

// NonSensitiveString returns a representation suitable for logging. The
// token is never included.
func (c Config) NonSensitiveString() string {
	return fmt.Sprintf("Config{input: %s, endpoint: %s, batch_size: %d, delay: %s, retries: %d, name_width: %d}",
		c.InputPath, c.Endpoint, c.BatchSize, c.InterBatchDelay, c.RetryAttempts, c.NameWidth)
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command-line parsing; used by tests.
func WithDisableFlagsParsing(disable bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disable
	}
}

// Load builds the configuration: defaults, then flags, then environment
// variables, then validation.
func Load(optionsProto ...InitOption) (Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	cfg := Config{
		InputPath:       "users.txt",
		Endpoint:        "https://api.github.com/graphql",
		BatchSize:       50,
		InterBatchDelay: 60 * time.Second,
		RetryAttempts:   3,
		NameWidth:       16,
	}

	if !options.disableFlagsParsing {
		flag.StringVar(&cfg.InputPath, "input", cfg.InputPath, "user list: local path or gs://bucket/object URL")
		flag.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "GraphQL API endpoint")
		flag.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "maximum users fetched per batch")
		flag.DurationVar(&cfg.InterBatchDelay, "delay", cfg.InterBatchDelay, "pause between batches")
		flag.IntVar(&cfg.RetryAttempts, "retries", cfg.RetryAttempts, "attempts per user request")
		flag.IntVar(&cfg.NameWidth, "name-width", cfg.NameWidth, "username column width")
		flag.Parse()
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate configuration: %w", err)
	}

	return cfg, nil
}
