package connecthealth

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strings"
	"syscall"
)

// classifyError maps an evaluation error to a StatusCategory.
// Classification chain:
// 1. ClassifiedError interface
// 2. Not found
// 3. Timeouts (context deadline or cancellation, net.Error timeout)
// 4. Platform network errors (DNS, refused connection, TLS)
// 5. Sentinel kinds (protocol, transport, unhealthy)
// 6. Fallback → error
func classifyError(err error) StatusCategory {
	if err == nil {
		return StatusOK
	}

	var ce ClassifiedError
	if errors.As(err, &ce) {
		return ce.StatusCategory()
	}

	if errors.Is(err, ErrNotFound) {
		return StatusNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return StatusTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return StatusDNSError
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && isSyscallConnectionRefused(opErr.Err) {
		return StatusConnectionError
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) || isTLSError(err) {
		return StatusTLSError
	}

	switch {
	case errors.Is(err, ErrProtocol):
		return StatusProtocolError
	case errors.Is(err, ErrTransport):
		return StatusConnectionError
	case errors.Is(err, ErrUnhealthy):
		return StatusUnhealthy
	}

	return StatusError
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	return classifyError(err) == StatusTimeout
}

// isSyscallConnectionRefused checks if the error is ECONNREFUSED.
func isSyscallConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

// isTLSError checks if the error message indicates a TLS error.
func isTLSError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "tls:") ||
		strings.Contains(msg, "x509:")
}
