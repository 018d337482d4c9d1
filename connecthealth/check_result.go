package connecthealth

import (
	"fmt"
	"strings"
)

// StatusCategory is the classification of an evaluation outcome.
// It is used as the value of the status label of kafka_connect_health_status.
type StatusCategory string

const (
	// StatusOK means the evaluation completed and the worker is up.
	StatusOK StatusCategory = "ok"
	// StatusTimeout means a REST call or the whole evaluation exceeded its deadline.
	StatusTimeout StatusCategory = "timeout"
	// StatusConnectionError means the connection to the Connect REST API failed.
	StatusConnectionError StatusCategory = "connection_error"
	// StatusDNSError means DNS resolution of the Connect REST host failed.
	StatusDNSError StatusCategory = "dns_error"
	// StatusTLSError means a TLS handshake or certificate error occurred.
	StatusTLSError StatusCategory = "tls_error"
	// StatusNotFound means a connector disappeared between the list and status calls.
	StatusNotFound StatusCategory = "not_found"
	// StatusProtocolError means the REST API answered with an unexpected status or body.
	StatusProtocolError StatusCategory = "protocol_error"
	// StatusUnhealthy means the poll succeeded but a local connector or task is FAILED.
	StatusUnhealthy StatusCategory = "unhealthy"
	// StatusError means an unclassified error occurred.
	StatusError StatusCategory = "error"
)

// AllStatusCategories contains the categories of the enum-pattern status gauge.
var AllStatusCategories = []StatusCategory{
	StatusOK,
	StatusTimeout,
	StatusConnectionError,
	StatusDNSError,
	StatusTLSError,
	StatusNotFound,
	StatusProtocolError,
	StatusUnhealthy,
	StatusError,
}

// RequestError describes a failed REST call.
// Kind is one of ErrTransport, ErrProtocol or ErrNotFound, so callers can
// match it with errors.Is; Cause keeps the underlying error.
type RequestError struct {
	Kind       error
	Op         string // "list connectors" or "connector status <name>"
	URL        string
	StatusCode int // 0 when no response was received.
	Cause      error
}

// Error returns a message suitable for the "error" diagnostic.
func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString("kafka connect ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": http status %d from %s", e.StatusCode, e.URL)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *RequestError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// ClassifiedError is an error that carries its own status category.
// Additional checks can return it to control the status metric.
type ClassifiedError interface {
	error
	StatusCategory() StatusCategory
}

// ClassifiedCheckError is a concrete ClassifiedError.
type ClassifiedCheckError struct {
	Category StatusCategory
	Detail   string
	Cause    error
}

// Error returns the error message, delegating to Cause if present.
func (e *ClassifiedCheckError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Detail
}

// Unwrap returns the underlying cause for use with errors.Is/As.
func (e *ClassifiedCheckError) Unwrap() error {
	return e.Cause
}

// StatusCategory returns the status category for this error.
func (e *ClassifiedCheckError) StatusCategory() StatusCategory {
	return e.Category
}
