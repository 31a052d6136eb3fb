package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the ambient settings of the app. Everything has a default;
// with USE_MEMORY_STORE=true no AWS credentials are needed at all.
type Config struct {
	AWSRegion            string        `env:"AWS_REGION" envDefault:"us-east-1"`
	StateTable           string        `env:"STATE_TABLE" envDefault:"AppState"`
	StateNamespace       string        `env:"STATE_NAMESPACE" envDefault:"appState"`
	UseMemoryStore       bool          `env:"USE_MEMORY_STORE" envDefault:"true"`
	PaymentSweepInterval time.Duration `env:"PAYMENT_SWEEP_INTERVAL" envDefault:"1m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
