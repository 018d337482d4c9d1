package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/BigKAA/connecthealth/connecthealth"
)

// evaluator runs one readiness evaluation.
type evaluator interface {
	Evaluate(ctx context.Context) connecthealth.Verdict
}

// liveReport is the body of /health/live: the process is up, nothing else is checked.
var liveReport = []byte(`{"status":"UP","checks":[]}`)

// transitionLogger logs changes of the readiness verdict between probes.
// It only feeds the log; verdicts never depend on it.
type transitionLogger struct {
	logger *slog.Logger
	last   atomic.Int32 // 0 = none yet, 1 = up, 2 = down
}

func (t *transitionLogger) observe(ctx context.Context, v connecthealth.Verdict) {
	next := int32(2)
	if v.Up {
		next = 1
	}
	prev := t.last.Swap(next)
	if prev == next {
		return
	}
	attrs := []slog.Attr{
		slog.String("status", v.Status()),
		slog.String("category", string(v.Category)),
	}
	if msg, ok := v.Diagnostics.Get(connecthealth.LabelError); ok {
		attrs = append(attrs, slog.String("error", msg))
	}
	level := slog.LevelInfo
	if !v.Up {
		level = slog.LevelWarn
	}
	t.logger.LogAttrs(ctx, level, "kafka connect readiness changed", attrs...)
}

// handleReady runs an evaluation per request: 200 when up, 503 when down.
func handleReady(eval evaluator, tl *transitionLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := eval.Evaluate(r.Context())
		tl.observe(r.Context(), v)

		data, err := json.Marshal(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if v.Up {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_, _ = w.Write(data)
	}
}

func handleLive() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(liveReport)
	}
}

// newMux registers the HTTP routes.
func newMux(eval evaluator, tl *transitionLogger, metrics http.Handler) *http.ServeMux {
	ready := handleReady(eval, tl)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", ready)
	mux.HandleFunc("GET /health/ready", ready)
	mux.HandleFunc("GET /health/live", handleLive())
	mux.Handle("GET /metrics", metrics)
	return mux
}
