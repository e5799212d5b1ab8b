package relay

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Side identifies one end of a relayed connection pair.
type Side string

const (
	SideClient   Side = "client"
	SideUpstream Side = "upstream"
)

// Result reports what a finished relay moved. It is informational only;
// nothing branches on it.
type Result struct {
	// FromClient is the byte count copied client to upstream.
	FromClient int64

	// FromUpstream is the byte count copied upstream to client.
	FromUpstream int64

	// ClosedFirst names the side whose read direction terminated first.
	ClosedFirst Side
}

// Pipe copies bytes between client and upstream in both directions until
// either side reaches end-of-stream or errors, then returns once both
// directions have stopped. A direction that drains cleanly half-closes its
// destination so the opposite direction can finish; a direction that dies
// mid-stream closes both connections to unblock its peer. No framing is
// imposed and nothing is retried.
//
// If ioTimeout is positive it is applied as an absolute deadline on both
// connections. Context cancellation also closes both connections.
func Pipe(ctx context.Context, client, upstream net.Conn, ioTimeout time.Duration) (Result, error) {
	if ioTimeout > 0 {
		dl := time.Now().Add(ioTimeout)
		_ = client.SetDeadline(dl)
		_ = upstream.SetDeadline(dl)
	}

	var closeOnce sync.Once
	closeBoth := func() {
		closeOnce.Do(func() {
			_ = client.Close()
			_ = upstream.Close()
		})
	}
	stop := context.AfterFunc(ctx, closeBoth)
	defer stop()

	var (
		res       Result
		firstOnce sync.Once
		g         errgroup.Group
	)
	markFirst := func(side Side) {
		firstOnce.Do(func() { res.ClosedFirst = side })
	}

	g.Go(func() error {
		n, err := io.Copy(upstream, client)
		res.FromClient = n
		markFirst(SideClient)
		finishCopy(upstream, err, closeBoth)
		return err
	})

	g.Go(func() error {
		n, err := io.Copy(client, upstream)
		res.FromUpstream = n
		markFirst(SideUpstream)
		finishCopy(client, err, closeBoth)
		return err
	})

	err := g.Wait()
	return res, err
}

// finishCopy propagates termination of one copy direction. On clean
// end-of-stream the destination is half-closed where the transport allows
// it, so in-flight data in the other direction still drains.
func finishCopy(dst net.Conn, copyErr error, closeBoth func()) {
	if copyErr == nil {
		if tc, ok := dst.(*net.TCPConn); ok {
			_ = tc.CloseWrite()
			return
		}
	}
	closeBoth()
}
