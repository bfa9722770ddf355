// Package config loads mediakey settings from the environment.
package config

import (
	"fmt"
	"runtime"

	"github.com/dendrascience/mediakey/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. MEDIAKEY_SCHEME.
const Prefix = "MEDIAKEY"

// Config holds the account and layout settings the CLI addresses media with.
type Config struct {
	// Scheme selects the layout new originals are written under.
	Scheme string `envconfig:"SCHEME" default:"shard" validate:"oneof=shard bins"`
	// Approx is the account's approximate asset count; it sizes the bins layout.
	Approx int `envconfig:"APPROX" default:"0" validate:"gte=0"`
	// Root is the account discriminator mixed into legacy codes.
	Root            string `envconfig:"ROOT" validate:"omitempty,min=3,max=50"`
	ShardSegments   int    `envconfig:"SHARD_SEGMENTS" default:"1" validate:"gte=1,lte=16"`
	ShardSegmentLen int    `envconfig:"SHARD_SEGMENT_LEN" default:"3" validate:"gte=1,lte=16"`
	APIEndpoint     string `envconfig:"API_ENDPOINT" validate:"omitempty,url"`
	// Workers bounds concurrent file work; 0 means one per CPU.
	Workers int `envconfig:"WORKERS" default:"0" validate:"gte=0"`
}

var validate = validator.New()

// Load reads the configuration from the environment and validates it.
// Variables in envFiles are loaded first; they never replace variables that
// are already set.
func Load(envFiles ...string) (Config, error) {
	cfg, err := Read(envFiles...)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply overrides before
// calling Validate themselves.
func Read(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("failed to read env file: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Validate checks field rules and that the shard layout fits a 16 character
// digest, the shortest one stored.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Layout().Validate(util.ShortHexLen); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Layout returns the configured shard layout.
func (c Config) Layout() util.Layout {
	return util.Layout{Segments: c.ShardSegments, SegmentLen: c.ShardSegmentLen}
}

// Addresser returns the addresser for the configured scheme.
func (c Config) Addresser() (util.Addresser, error) {
	scheme, err := util.ParseScheme(c.Scheme)
	if err != nil {
		return util.Addresser{}, err
	}
	return util.Addresser{Scheme: scheme, Approx: c.Approx, Layout: c.Layout()}, nil
}

// WorkerCount resolves Workers, substituting the CPU count for 0.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
