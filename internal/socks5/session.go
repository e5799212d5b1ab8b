package socks5

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net"
	"slices"
	"time"

	"github.com/arcress0/socksd/internal/relay"
)

// Dialer establishes the outbound connection for a CONNECT request. It
// mirrors the net.Dialer interface.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// CredentialChecker reports whether a username/password pair from the
// subnegotiation should be accepted.
type CredentialChecker func(username, password []byte) bool

// StaticCredential returns a CredentialChecker accepting exactly one
// username/password pair, compared in constant time.
func StaticCredential(username, password string) CredentialChecker {
	u, p := []byte(username), []byte(password)
	return func(user, pass []byte) bool {
		userOK := subtle.ConstantTimeCompare(user, u) == 1
		passOK := subtle.ConstantTimeCompare(pass, p) == 1
		return userOK && passOK
	}
}

// SessionConfig carries the collaborators a Session needs beyond its client
// connection.
type SessionConfig struct {
	// Dialer establishes outbound connections.
	Dialer Dialer

	// Credentials enables the username/password method when non-nil.
	// With no checker configured only no-auth is offered.
	Credentials CredentialChecker

	// IOTimeout, if positive, bounds the total relay phase.
	IOTimeout time.Duration
}

// Session drives one accepted connection through the SOCKS5 handshake and,
// on a successful CONNECT, the relay phase. It does not close the client
// connection; the caller owns it.
type Session struct {
	conn    net.Conn
	cfg     SessionConfig
	version byte
}

func NewSession(conn net.Conn, cfg SessionConfig) *Session {
	return &Session{conn: conn, cfg: cfg, version: Version}
}

// Handle runs the session to completion. Protocol steps are strictly
// sequential; every mandated negative reply is written, best-effort, before
// the corresponding error is returned. The relay result is meaningful only
// when err is nil or the session reached the relay phase.
func (s *Session) Handle(ctx context.Context) (relay.Result, error) {
	method, err := s.negotiateMethod()
	if err != nil {
		return relay.Result{}, err
	}

	if err := s.authenticate(method); err != nil {
		return relay.Result{}, err
	}

	return s.command(ctx)
}

// negotiateMethod performs the greeting exchange. A bad version byte still
// gets the 2-byte rejection reply before the session fails; clients expect
// a reply frame even then.
func (s *Session) negotiateMethod() (Method, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(s.conn, hdr[:]); err != nil {
		return 0, fmt.Errorf("read greeting: %w", err)
	}

	method := MethodNoAcceptable
	if hdr[0] == s.version {
		// The count byte directly gives the number of method ids; a
		// zero count is legal and simply matches nothing.
		methods := make([]byte, int(hdr[1]))
		if _, err := io.ReadFull(s.conn, methods); err != nil {
			return 0, fmt.Errorf("read methods: %w", err)
		}
		method = s.selectMethod(methods)
	}

	if method == MethodNoAcceptable {
		// A mandated rejection reply is best-effort; its own write
		// failure is swallowed, not escalated.
		_ = WriteMethodReply(s.conn, method)
		return 0, ErrNoAcceptableMethod
	}
	if err := WriteMethodReply(s.conn, method); err != nil {
		return 0, err
	}
	return method, nil
}

// selectMethod prefers username/password over no-auth whenever it is both
// offered and configured.
func (s *Session) selectMethod(methods []byte) Method {
	if s.cfg.Credentials != nil && slices.Contains(methods, byte(MethodPasswd)) {
		return MethodPasswd
	}
	if slices.Contains(methods, byte(MethodNoAuth)) {
		return MethodNoAuth
	}
	return MethodNoAcceptable
}

// authenticate runs the username/password subnegotiation. The auth version
// byte is its own sub-protocol's and is echoed, not validated.
func (s *Session) authenticate(method Method) error {
	if method != MethodPasswd {
		return nil
	}

	var aver [1]byte
	if _, err := io.ReadFull(s.conn, aver[:]); err != nil {
		return fmt.Errorf("read auth version: %w", err)
	}

	username, err := s.readCredentialField(aver[0], "username")
	if err != nil {
		return err
	}
	password, err := s.readCredentialField(aver[0], "password")
	if err != nil {
		return err
	}

	if !s.cfg.Credentials(username, password) {
		_ = WriteAuthReply(s.conn, aver[0], false)
		return ErrAuthFailed
	}

	return WriteAuthReply(s.conn, aver[0], true)
}

// readCredentialField reads one length-prefixed credential field. A
// zero-length field is a framing violation and still draws the failure
// reply; a truncated read terminates silently.
func (s *Session) readCredentialField(aver byte, name string) ([]byte, error) {
	b, err := ReadLengthPrefixed(s.conn)
	if err != nil {
		if errors.Is(err, ErrEmptyField) {
			_ = WriteAuthReply(s.conn, aver, false)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

// command reads the request frame, establishes the upstream connection, and
// hands off to the relay.
func (s *Session) command(ctx context.Context) (relay.Result, error) {
	var hdr [3]byte
	if _, err := io.ReadFull(s.conn, hdr[:]); err != nil {
		return relay.Result{}, fmt.Errorf("read command: %w", err)
	}

	if hdr[0] != s.version {
		return relay.Result{}, s.failCommand(StatusNotAllowed, ErrVersionMismatch)
	}
	if Command(hdr[1]) != CmdConnect {
		return relay.Result{}, s.failCommand(StatusCmdNotSupported, ErrUnsupportedCommand)
	}

	dst, err := ReadAddress(s.conn)
	switch {
	case errors.Is(err, ErrUnsupportedAddrType):
		return relay.Result{}, s.failCommand(StatusAddrNotSupported, err)
	case errors.Is(err, ErrEmptyField):
		return relay.Result{}, s.failCommand(StatusNotAllowed, err)
	case err != nil:
		return relay.Result{}, err
	}

	upstream, err := s.cfg.Dialer.DialContext(ctx, "tcp", dst.Host())
	if err != nil {
		return relay.Result{}, s.failCommand(StatusConnectionRefused,
			fmt.Errorf("%w: %s: %w", ErrUpstreamUnreachable, dst.Host(), err))
	}
	defer upstream.Close()

	if err := WriteReply(s.conn, StatusSucceeded); err != nil {
		return relay.Result{}, err
	}

	// Any handshake deadline must not apply to the relay phase.
	_ = s.conn.SetDeadline(time.Time{})

	return relay.Pipe(ctx, s.conn, upstream, s.cfg.IOTimeout)
}

// failCommand writes the negative reply mandated for err. The reply write
// is best-effort; its own failure is swallowed.
func (s *Session) failCommand(status ReplyStatus, err error) error {
	_ = WriteReply(s.conn, status)
	return err
}
