// Package connecthealth provides a readiness check for a Kafka Connect worker.
// It polls the Kafka Connect REST API, keeps only the connectors and tasks
// assigned to the local worker and folds their states into a single up/down
// Verdict with diagnostic key/value pairs.
package connecthealth

import "time"

// Version is reported in the User-Agent header of REST requests.
const Version = "0.3.0"

// CheckName is the name of the health check in the JSON report.
const CheckName = "Kafka Connect health check"

// Connector and task states as reported by Kafka Connect.
// Workers may report other values; only StateFailed affects the verdict.
const (
	StateRunning    = "RUNNING"
	StatePaused     = "PAUSED"
	StateFailed     = "FAILED"
	StateUnassigned = "UNASSIGNED"
	StateRestarting = "RESTARTING"
)

// Default values.
const (
	DefaultTimeout     = 5 * time.Second
	DefaultConcurrency = 1

	MinTimeout     = 100 * time.Millisecond
	MaxTimeout     = 60 * time.Second
	MaxConcurrency = 64

	// MaxTraceLength is the number of trace characters kept in a task diagnostic.
	MaxTraceLength = 150
)

// Diagnostic labels.
const (
	LabelError     = "error"
	LabelConnector = "connector"
	LabelKafka     = "kafka"
	taskLabelFmt   = "task-%d"
	skippedPrefix  = "skipped-"
)

// ConnectorStatus is the detailed status of one connector,
// as returned by GET /connectors/{name}/status.
type ConnectorStatus struct {
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	Connector ConnectorInfo `json:"connector"`
	Tasks     []TaskInfo    `json:"tasks"`
}

// ConnectorInfo holds the connector state and the worker running it.
type ConnectorInfo struct {
	State    string `json:"state"`
	WorkerID string `json:"worker_id"`
}

// TaskInfo holds the state of a single connector task.
// Trace is only reported for FAILED tasks.
type TaskInfo struct {
	ID       int     `json:"id"`
	State    string  `json:"state"`
	WorkerID string  `json:"worker_id"`
	Trace    *string `json:"trace,omitempty"`
}
