package connecthealth

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Aggregator evaluates the readiness of one Kafka Connect worker.
// It holds only immutable configuration; every Evaluate call starts from
// scratch, so an Aggregator is safe for concurrent use.
type Aggregator struct {
	workerID          string
	client            StatusClient
	evaluationTimeout time.Duration
	concurrency       int
	policy            ErrorPolicy
	checks            []Check
	logger            *slog.Logger
	metrics           *MetricsExporter
}

// New creates an Aggregator for the Connect REST API at baseURL and the
// local worker workerID (host:port, as reported in worker_id).
func New(baseURL, workerID string, opts ...Option) (*Aggregator, error) {
	if workerID == "" {
		return nil, fmt.Errorf("connecthealth: missing worker id")
	}

	cfg := config{
		requestTimeout: DefaultTimeout,
		concurrency:    DefaultConcurrency,
		policy:         FailFast,
		registerer:     prometheus.DefaultRegisterer,
		logger:         slog.Default(),
	}
	for _, o := range opts {
		if err := o(&cfg); err != nil {
			return nil, fmt.Errorf("connecthealth: %w", err)
		}
	}

	client := cfg.client
	if client == nil {
		hc, err := NewHTTPClient(baseURL,
			WithRequestTimeout(cfg.requestTimeout),
			WithTLSSkipVerify(cfg.tlsSkipVerify),
		)
		if err != nil {
			return nil, err
		}
		client = hc
	}

	var metrics *MetricsExporter
	if cfg.registerer != nil {
		m, err := NewMetricsExporter(workerID, WithMetricsRegisterer(cfg.registerer))
		if err != nil {
			return nil, fmt.Errorf("connecthealth: metrics: %w", err)
		}
		metrics = m
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		workerID:          workerID,
		client:            client,
		evaluationTimeout: cfg.evaluationTimeout,
		concurrency:       cfg.concurrency,
		policy:            cfg.policy,
		checks:            cfg.checks,
		logger:            logger,
		metrics:           metrics,
	}, nil
}

// WorkerID returns the local worker identifier.
func (a *Aggregator) WorkerID() string {
	return a.workerID
}

// Evaluate polls the Connect REST API and returns the readiness verdict.
// The verdict is up if and only if the poll succeeded and no connector or
// task owned by the local worker is FAILED. A failing list or status call
// discards everything gathered so far: the verdict is down and the only
// diagnostic is "error". Cancelling ctx abandons the in-flight call.
func (a *Aggregator) Evaluate(ctx context.Context) Verdict {
	if a.evaluationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.evaluationTimeout)
		defer cancel()
	}

	a.logger.LogAttrs(ctx, slog.LevelDebug, "connecthealth: evaluating",
		slog.String("worker_id", a.workerID))

	start := time.Now()
	v := a.evaluate(ctx)
	v.Duration = time.Since(start)

	if a.metrics != nil {
		a.metrics.Record(v)
	}
	return v
}

// fetchResult is the outcome of one status call.
type fetchResult struct {
	status ConnectorStatus
	err    error
}

// stateCounts tallies local connectors and tasks by state.
type stateCounts struct {
	connectors map[string]int
	tasks      map[string]int
}

func (a *Aggregator) evaluate(ctx context.Context) Verdict {
	names, err := a.client.ListConnectors(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}

	results, err := a.fetchStatuses(ctx, names)
	if err != nil {
		return a.fail(ctx, err)
	}
	// Skipped connectors must not hide an expired deadline.
	if err := ctx.Err(); err != nil {
		return a.fail(ctx, fmt.Errorf("kafka connect evaluation: timeout: %w", err))
	}

	v := Verdict{Up: true, Diagnostics: NewDiagnostics()}
	counts := stateCounts{connectors: map[string]int{}, tasks: map[string]int{}}

	for i, name := range names {
		r := results[i]
		if r.err != nil {
			a.logger.LogAttrs(ctx, slog.LevelWarn, "connecthealth: connector skipped",
				slog.String("connector", name),
				slog.String("error", r.err.Error()))
			v.Diagnostics.Set(skippedPrefix+name, r.err.Error())
			continue
		}
		a.fold(&v, r.status, counts)
	}

	var checkErr error
	for _, c := range a.checks {
		if err := c.Check(ctx); err != nil {
			a.logger.LogAttrs(ctx, slog.LevelWarn, "connecthealth: check failed",
				slog.String("check", c.Name()),
				slog.String("error", err.Error()))
			v.Up = false
			v.Diagnostics.Set(c.Name(), err.Error())
			if checkErr == nil {
				checkErr = err
			}
		}
	}

	switch {
	case checkErr != nil:
		v.Category = classifyError(checkErr)
	case !v.Up:
		v.Category = StatusUnhealthy
	default:
		v.Category = StatusOK
	}

	if a.metrics != nil {
		a.metrics.SetStateCounts(counts.connectors, counts.tasks)
	}
	return v
}

// fold merges one connector status into the verdict.
// Connectors on other workers are ignored together with all their tasks.
func (a *Aggregator) fold(v *Verdict, cs ConnectorStatus, counts stateCounts) {
	if !cs.Connector.BelongsTo(a.workerID) {
		return
	}

	// Fixed label: with several local connectors only the last one is kept.
	v.Diagnostics.Set(LabelConnector, fmt.Sprintf("name: %s, type: %s, state: %s",
		cs.Name, cs.Type, cs.Connector.State))
	counts.connectors[cs.Connector.State]++
	if cs.Connector.State == StateFailed {
		v.Up = false
	}

	for _, t := range cs.Tasks {
		if !t.BelongsTo(a.workerID) {
			continue
		}
		v.Diagnostics.Set(fmt.Sprintf(taskLabelFmt, t.ID), taskSummary(t))
		counts.tasks[t.State]++
		if t.State == StateFailed {
			v.Up = false
		}
	}
}

// fetchStatuses queries the status of every connector.
// Results are indexed like names. Under FailFast the first error is
// returned and the remaining connectors are not queried; otherwise errors
// are kept per connector.
func (a *Aggregator) fetchStatuses(ctx context.Context, names []string) ([]fetchResult, error) {
	results := make([]fetchResult, len(names))

	if a.concurrency <= 1 || len(names) <= 1 {
		for i, name := range names {
			cs, err := a.client.ConnectorStatus(ctx, name)
			if err != nil && a.policy == FailFast {
				return nil, err
			}
			results[i] = fetchResult{status: cs, err: err}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, name := range names {
		g.Go(func() error {
			cs, err := a.client.ConnectorStatus(gctx, name)
			if err != nil && a.policy == FailFast {
				return err
			}
			results[i] = fetchResult{status: cs, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fail builds the verdict of an aborted evaluation.
func (a *Aggregator) fail(ctx context.Context, err error) Verdict {
	a.logger.LogAttrs(ctx, slog.LevelWarn, "connecthealth: poll failed",
		slog.String("worker_id", a.workerID),
		slog.String("error", err.Error()))

	if a.metrics != nil {
		a.metrics.SetStateCounts(nil, nil)
	}

	d := NewDiagnostics()
	d.Set(LabelError, err.Error())
	return Verdict{Up: false, Diagnostics: d, Category: classifyError(err)}
}

// taskSummary renders the "task-<id>" diagnostic.
func taskSummary(t TaskInfo) string {
	s := "state: " + t.State
	if t.Trace != nil {
		s += ", error: " + truncateTrace(*t.Trace)
	}
	return s
}

// truncateTrace keeps the first MaxTraceLength characters of a trace and
// marks the cut with "...". Shorter traces are returned unchanged.
func truncateTrace(trace string) string {
	if utf8.RuneCountInString(trace) <= MaxTraceLength {
		return trace
	}
	n := 0
	for i := range trace {
		if n == MaxTraceLength {
			return trace[:i] + "..."
		}
		n++
	}
	return trace
}
