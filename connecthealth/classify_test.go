package connecthealth

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestClassifyError_Nil(t *testing.T) {
	if got := classifyError(nil); got != StatusOK {
		t.Errorf("nil error: expected ok, got %s", got)
	}
}

func TestClassifyError_ClassifiedError(t *testing.T) {
	err := &ClassifiedCheckError{
		Category: StatusUnhealthy,
		Detail:   "no brokers",
		Cause:    errors.New("metadata is empty"),
	}
	if got := classifyError(err); got != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", got)
	}
}

func TestClassifyError_WrappedClassifiedError(t *testing.T) {
	inner := &ClassifiedCheckError{Category: StatusDNSError, Detail: "lookup failed"}
	err := fmt.Errorf("kafka: %w", inner)
	if got := classifyError(err); got != StatusDNSError {
		t.Errorf("expected dns_error, got %s", got)
	}
}

func TestClassifyError_RequestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want StatusCategory
	}{
		{
			name: "not found",
			err:  &RequestError{Kind: ErrNotFound, Op: "connector status a", StatusCode: 404},
			want: StatusNotFound,
		},
		{
			name: "protocol",
			err:  &RequestError{Kind: ErrProtocol, Op: "list connectors", StatusCode: 500},
			want: StatusProtocolError,
		},
		{
			name: "transport without cause",
			err:  &RequestError{Kind: ErrTransport, Op: "list connectors"},
			want: StatusConnectionError,
		},
		{
			name: "transport with deadline",
			err:  &RequestError{Kind: ErrTransport, Op: "list connectors", Cause: context.DeadlineExceeded},
			want: StatusTimeout,
		},
		{
			name: "transport with refused connection",
			err: &RequestError{Kind: ErrTransport, Op: "list connectors", Cause: &net.OpError{
				Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
			}},
			want: StatusConnectionError,
		},
		{
			name: "transport with dns failure",
			err: &RequestError{Kind: ErrTransport, Op: "list connectors", Cause: &net.DNSError{
				Err: "no such host", Name: "connect.invalid", IsNotFound: true,
			}},
			want: StatusDNSError,
		},
		{
			name: "protocol with decode cause",
			err:  &RequestError{Kind: ErrProtocol, Op: "list connectors", Cause: errors.New("decode response: unexpected EOF")},
			want: StatusProtocolError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyError_Timeouts(t *testing.T) {
	tests := []error{
		context.DeadlineExceeded,
		context.Canceled,
		fmt.Errorf("kafka connect evaluation: timeout: %w", context.DeadlineExceeded),
		&net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded},
	}
	for _, err := range tests {
		if got := classifyError(err); got != StatusTimeout {
			t.Errorf("%v: expected timeout, got %s", err, got)
		}
		if !isTimeout(err) {
			t.Errorf("%v: isTimeout returned false", err)
		}
	}
}

func TestClassifyError_TLS(t *testing.T) {
	certErr := &tls.CertificateVerificationError{Err: x509.UnknownAuthorityError{}}
	if got := classifyError(fmt.Errorf("get: %w", certErr)); got != StatusTLSError {
		t.Errorf("certificate error: expected tls_error, got %s", got)
	}
	if got := classifyError(errors.New("remote error: tls: handshake failure")); got != StatusTLSError {
		t.Errorf("handshake error: expected tls_error, got %s", got)
	}
}

func TestClassifyError_Sentinels(t *testing.T) {
	tests := []struct {
		err  error
		want StatusCategory
	}{
		{ErrUnhealthy, StatusUnhealthy},
		{fmt.Errorf("kafka: %w", ErrUnhealthy), StatusUnhealthy},
		{ErrProtocol, StatusProtocolError},
		{ErrTransport, StatusConnectionError},
		{ErrNotFound, StatusNotFound},
		{errors.New("something else"), StatusError},
	}
	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Errorf("%v: expected %s, got %s", tt.err, tt.want, got)
		}
	}
}

func TestRequestError_Message(t *testing.T) {
	err := &RequestError{
		Kind:       ErrNotFound,
		Op:         "connector status sink",
		URL:        "http://connect:8083/connectors/sink/status",
		StatusCode: 404,
		Cause:      errors.New("Connector sink not found"),
	}
	want := "kafka connect connector status sink: connector not found: http status 404 from http://connect:8083/connectors/sink/status: Connector sink not found"
	if got := err.Error(); got != want {
		t.Errorf("unexpected message:\n got: %s\nwant: %s", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound)")
	}
}
