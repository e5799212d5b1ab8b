package proxy

import (
	"context"
	"log"
	"net"
	"time"

	"github.com/arcress0/socksd/internal/socks5"
)

// Server accepts SOCKS5 client connections and runs each one as an
// independent session. Sessions share nothing; a failed session only ever
// takes down its own connection.
type Server struct {
	cfg     Config
	verbose bool
}

func NewServer(cfg Config, verbose bool) *Server {
	return &Server{cfg: cfg, verbose: verbose}
}

// Serve accepts connections until ln fails, handling each on its own
// goroutine. It returns the accept error, which is ln.Close's
// net.ErrClosed during shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(ctx, c)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if s.cfg.NegotiationTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.cfg.NegotiationTimeout))
	}

	sess := socks5.NewSession(conn, socks5.SessionConfig{
		Dialer:      s.cfg.Dialer,
		Credentials: s.cfg.Credentials,
		IOTimeout:   s.cfg.IOTimeout,
	})

	res, err := sess.Handle(ctx)
	if !s.verbose {
		return
	}

	if err != nil {
		log.Printf("socks5 %s: %v", conn.RemoteAddr(), err)
		return
	}
	log.Printf("socks5 %s: %d bytes sent, %d received, %s closed first",
		conn.RemoteAddr(), res.FromClient, res.FromUpstream, res.ClosedFirst)
}
