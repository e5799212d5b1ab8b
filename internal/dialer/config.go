package dialer

import (
	"net"
	"time"

	"github.com/arcress0/socksd/internal/resolver"
)

type Config struct {
	// DialTimeout bounds a single outbound TCP connect attempt.
	DialTimeout time.Duration

	// KeepAlive is applied to dialed TCP connections.
	KeepAlive net.KeepAliveConfig

	// Resolver maps domain destinations to IP candidates for the direct
	// dialer. Nil falls back to the dialing stack's own resolution.
	Resolver resolver.Resolver
}
