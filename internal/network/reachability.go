package network

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Checker decides whether the device is online.
type Checker interface {
	Reachable(ctx context.Context) bool
}

// CheckerFunc adapts a function to [Checker].
type CheckerFunc func(ctx context.Context) bool

func (f CheckerFunc) Reachable(ctx context.Context) bool {
	return f(ctx)
}

// AllOf reports online only when every checker does. Checkers run in order
// and the first failure stops the check.
func AllOf(checkers ...Checker) Checker {
	return CheckerFunc(func(ctx context.Context) bool {
		for _, p := range checkers {
			if !p.Reachable(ctx) {
				return false
			}
		}
		return true
	})
}

// Pinger treats a successful health check as online. It is satisfied by
// the sync adapter.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewPingChecker wraps p into a [Checker] bounded by timeout.
func NewPingChecker(p Pinger, timeout time.Duration) Checker {
	return CheckerFunc(func(ctx context.Context) bool {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Ping(ctx) == nil
	})
}

// TCPChecker dials the sync server host. A completed TCP handshake counts as
// online.
type TCPChecker struct {
	address string
	dialer  net.Dialer
}

// NewTCPChecker builds a checker for rawAddress, which may be a URL or a
// host:port pair. The port defaults to the scheme's well-known port.
func NewTCPChecker(rawAddress string, timeout time.Duration) (*TCPChecker, error) {
	address, err := dialAddress(rawAddress)
	if err != nil {
		return nil, err
	}
	return &TCPChecker{address: address, dialer: net.Dialer{Timeout: timeout}}, nil
}

func (p *TCPChecker) Reachable(ctx context.Context) bool {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func dialAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidCheckAddress)
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCheckAddress, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidCheckAddress, raw)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
