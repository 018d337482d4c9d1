// Example: embedding the Kafka Connect readiness check in an existing HTTP server.
package main

import (
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BigKAA/connecthealth/connecthealth"
	"github.com/BigKAA/connecthealth/connecthealth/brokercheck"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Optional: also require the Kafka cluster to be reachable.
	brokers, err := brokercheck.New([]string{"kafka-0.kafka:9092", "kafka-1.kafka:9092"})
	if err != nil {
		log.Fatal(err)
	}

	agg, err := connecthealth.New("http://localhost:8083", os.Getenv("CONNECT_REST_ADVERTISED_HOST_NAME")+":8083",
		connecthealth.WithLogger(logger),
		connecthealth.WithTimeout(3*time.Second),
		connecthealth.WithEvaluationTimeout(10*time.Second),
		connecthealth.WithConcurrency(4),
		connecthealth.WithErrorPolicy(connecthealth.SkipFailedConnectors),
		connecthealth.WithCheck(brokers),
	)
	if err != nil {
		log.Fatal(err)
	}

	http.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		v := agg.Evaluate(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if !v.Up {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(v)
	})
	http.Handle("GET /metrics", promhttp.Handler())

	if err := http.ListenAndServe(":9090", nil); err != nil {
		log.Fatal(err)
	}
}
