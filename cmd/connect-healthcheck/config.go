package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/BigKAA/connecthealth/connecthealth"
)

// Config holds the service configuration, read once from the environment.
type Config struct {
	ConnectURL string `env:"HEALTHCHECK_KAFKA_CONNECT_URL,required,notEmpty"`
	WorkerID   string `env:"HEALTHCHECK_KAFKA_CONNECT_WORKERID,required,notEmpty"`

	RequestTimeout       time.Duration `env:"HEALTHCHECK_REQUEST_TIMEOUT" envDefault:"5s"`
	EvaluationTimeout    time.Duration `env:"HEALTHCHECK_EVALUATION_TIMEOUT" envDefault:"0s"`
	Concurrency          int           `env:"HEALTHCHECK_CONCURRENCY" envDefault:"1"`
	SkipFailedConnectors bool          `env:"HEALTHCHECK_SKIP_FAILED_CONNECTORS" envDefault:"false"`
	TLSSkipVerify        bool          `env:"HEALTHCHECK_TLS_SKIP_VERIFY" envDefault:"false"`

	// Optional broker reachability check; empty disables it.
	KafkaBrokers []string `env:"HEALTHCHECK_KAFKA_BROKERS" envSeparator:","`

	Port     string     `env:"PORT" envDefault:"8080"`
	GRPCPort string     `env:"GRPC_PORT" envDefault:""`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

func loadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("empty PORT")
	}
	return cfg, nil
}

// aggregatorOptions translates the configuration into connecthealth options.
func (c Config) aggregatorOptions() []connecthealth.Option {
	opts := []connecthealth.Option{
		connecthealth.WithTimeout(c.RequestTimeout),
		connecthealth.WithEvaluationTimeout(c.EvaluationTimeout),
		connecthealth.WithConcurrency(c.Concurrency),
		connecthealth.WithInsecureSkipVerify(c.TLSSkipVerify),
	}
	if c.SkipFailedConnectors {
		opts = append(opts, connecthealth.WithErrorPolicy(connecthealth.SkipFailedConnectors))
	}
	return opts
}
