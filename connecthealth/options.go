package connecthealth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrorPolicy selects how a failing connector status call is handled.
type ErrorPolicy int

const (
	// FailFast aborts the whole evaluation on the first failing status call.
	FailFast ErrorPolicy = iota
	// SkipFailedConnectors records the failure as a "skipped-<name>"
	// diagnostic and continues with the next connector.
	SkipFailedConnectors
)

// String returns the policy name.
func (p ErrorPolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case SkipFailedConnectors:
		return "skip"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// Option is a functional option for New.
type Option func(*config) error

// config is the internal configuration of an Aggregator.
type config struct {
	client            StatusClient
	requestTimeout    time.Duration
	tlsSkipVerify     bool
	evaluationTimeout time.Duration
	concurrency       int
	policy            ErrorPolicy
	registerer        prometheus.Registerer
	logger            *slog.Logger
	checks            []Check
}

// WithTimeout sets the timeout of each REST call.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d < MinTimeout || d > MaxTimeout {
			return fmt.Errorf("timeout %s out of range [%s, %s]", d, MinTimeout, MaxTimeout)
		}
		c.requestTimeout = d
		return nil
	}
}

// WithEvaluationTimeout sets a hard deadline for a whole evaluation.
// Zero disables it; the caller's context still applies.
func WithEvaluationTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return fmt.Errorf("negative evaluation timeout %s", d)
		}
		c.evaluationTimeout = d
		return nil
	}
}

// WithConcurrency sets how many connector statuses are fetched in parallel.
// The default of 1 queries connectors one after another.
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n < 1 || n > MaxConcurrency {
			return fmt.Errorf("concurrency %d out of range [1, %d]", n, MaxConcurrency)
		}
		c.concurrency = n
		return nil
	}
}

// WithErrorPolicy sets the handling of failing connector status calls.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(c *config) error {
		if p != FailFast && p != SkipFailedConnectors {
			return fmt.Errorf("unknown error policy %s", p)
		}
		c.policy = p
		return nil
	}
}

// WithInsecureSkipVerify skips TLS certificate verification of the REST API.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *config) error {
		c.tlsSkipVerify = skip
		return nil
	}
}

// WithStatusClient replaces the HTTP client, e.g. with a fake in tests.
func WithStatusClient(sc StatusClient) Option {
	return func(c *config) error {
		if sc == nil {
			return fmt.Errorf("nil status client")
		}
		c.client = sc
		return nil
	}
}

// WithRegisterer sets the prometheus.Registerer for the metrics.
// nil disables metrics.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *config) error {
		c.registerer = r
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithCheck adds a health check that runs after the connector fold.
// Its failure turns the verdict down and is reported under check.Name().
func WithCheck(check Check) Option {
	return func(c *config) error {
		if check == nil {
			return fmt.Errorf("nil check")
		}
		c.checks = append(c.checks, check)
		return nil
	}
}
