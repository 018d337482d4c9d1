// Package brokercheck provides an optional Kafka broker reachability check
// for the connecthealth aggregator.
//
//	bc, err := brokercheck.New([]string{"kafka-0:9092", "kafka-1:9092"})
//	agg, err := connecthealth.New(url, workerID, connecthealth.WithCheck(bc))
package brokercheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/BigKAA/connecthealth/connecthealth"
)

// DefaultPort is used for bootstrap addresses without a port.
const DefaultPort = "9092"

// Option configures the Checker.
type Option func(*Checker)

// Checker verifies that the Kafka cluster used by the Connect worker is reachable.
// It connects to the first bootstrap address that accepts a connection,
// requests broker metadata and closes the connection.
type Checker struct {
	addrs    []string
	clientID string
}

// WithClientID sets the Kafka client id sent with the metadata request.
func WithClientID(id string) Option {
	return func(c *Checker) {
		c.clientID = id
	}
}

// New creates a broker check for the given bootstrap addresses (host or host:port).
func New(addrs []string, opts ...Option) (*Checker, error) {
	c := &Checker{clientID: "connecthealth"}
	for _, raw := range addrs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		addr, err := normalizeAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("brokercheck: %w", err)
		}
		c.addrs = append(c.addrs, addr)
	}
	if len(c.addrs) == 0 {
		return nil, fmt.Errorf("brokercheck: no bootstrap addresses")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check returns nil if a bootstrap broker answers with a non-empty broker list.
func (c *Checker) Check(ctx context.Context) error {
	dialer := &kafka.Dialer{ClientID: c.clientID}

	var errs []error
	for _, addr := range c.addrs {
		err := c.checkAddr(ctx, dialer, addr)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

func (c *Checker) checkAddr(ctx context.Context, dialer *kafka.Dialer, addr string) error {
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("kafka dial %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	brokers, err := conn.Brokers()
	if err != nil {
		return fmt.Errorf("kafka brokers %s: %w", addr, err)
	}
	if len(brokers) == 0 {
		return &connecthealth.ClassifiedCheckError{
			Category: connecthealth.StatusUnhealthy,
			Detail:   "no_brokers",
			Cause:    fmt.Errorf("kafka %s: no brokers in metadata response: %w", addr, connecthealth.ErrUnhealthy),
		}
	}
	return nil
}

// Name returns the diagnostic label of the check.
func (c *Checker) Name() string {
	return connecthealth.LabelKafka
}

// Addrs returns the normalized bootstrap addresses.
func (c *Checker) Addrs() []string {
	out := make([]string, len(c.addrs))
	copy(out, c.addrs)
	return out
}

// normalizeAddr adds DefaultPort to addresses without a port.
func normalizeAddr(raw string) (string, error) {
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		// No port: "kafka-0" or "[::1]".
		host = strings.Trim(raw, "[]")
		port = DefaultPort
	}
	if host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	if port == "" {
		return "", fmt.Errorf("empty port in %q", raw)
	}
	return net.JoinHostPort(host, port), nil
}
