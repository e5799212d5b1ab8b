package proxy

import (
	"net"
	"time"

	"github.com/arcress0/socksd/internal/dialer"
	"github.com/arcress0/socksd/internal/socks5"
)

type Config struct {
	// NegotiationTimeout bounds the handshake on an accepted connection.
	// It does not apply to the relay phase.
	NegotiationTimeout time.Duration

	// IOTimeout, if positive, bounds the total relay phase.
	IOTimeout time.Duration

	// KeepAlive is applied to accepted TCP connections.
	KeepAlive net.KeepAliveConfig

	// Dialer establishes destination connections.
	Dialer dialer.Dialer

	// Credentials enables username/password authentication when non-nil.
	Credentials socks5.CredentialChecker
}
