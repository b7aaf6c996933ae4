package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// networkCauses map lowercase message fragments to a short cause. Wrapped
// client errors lose their type, so the message is the last resort.
var networkCauses = []struct {
	pattern string
	cause   string
}{
	{"connection reset by peer", "connection reset"},
	{"connection refused", "connection refused"},
	{"broken pipe", "connection closed"},
	{"server closed idle connection", "connection closed"},
	{"temporary failure in name resolution", "dns lookup failed"},
	{"no such host", "dns lookup failed"},
	{"tls handshake timeout", "timeout"},
	{"i/o timeout", "timeout"},
	{"client.timeout exceeded", "timeout"},
	{"context deadline exceeded", "timeout"},
}

// IsNetworkFailure reports whether err looks like a transport-level failure
// (timeouts, connection resets, DNS) rather than an upstream answer.
func IsNetworkFailure(err error) bool {
	return NetworkCause(err) != ""
}

// NetworkCause returns a short human-readable cause for a transport-level
// failure, or "" when err is not one.
func NetworkCause(err error) string {
	if err == nil {
		return ""
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	switch {
	case errors.Is(err, syscall.ECONNRESET):
		return "connection reset"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused"
	case errors.Is(err, syscall.ECONNABORTED):
		return "connection closed"
	}

	msg := strings.ToLower(err.Error())
	for _, c := range networkCauses {
		if strings.Contains(msg, c.pattern) {
			return c.cause
		}
	}
	return ""
}
