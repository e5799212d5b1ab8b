package socks5

import "errors"

// Session errors, one per way a handshake can go wrong. Where the protocol
// defines a negative reply for a condition, the session writes it before
// returning the matching error; transport failures with no defined reply
// are returned as wrapped I/O errors instead.
var (
	// ErrEmptyField is a framing violation: a length-prefixed field
	// declared a zero length.
	ErrEmptyField = errors.New("zero-length field")

	// ErrVersionMismatch means a frame carried a version byte other than 5.
	ErrVersionMismatch = errors.New("protocol version mismatch")

	// ErrNoAcceptableMethod means the client offered no authentication
	// method this server accepts.
	ErrNoAcceptableMethod = errors.New("no acceptable authentication method")

	// ErrAuthFailed means the username/password pair was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrUnsupportedCommand means the request command was not CONNECT.
	ErrUnsupportedCommand = errors.New("unsupported command")

	// ErrUnsupportedAddrType means the request carried an unrecognized
	// ATYP byte.
	ErrUnsupportedAddrType = errors.New("unsupported address type")

	// ErrUpstreamUnreachable means resolving or connecting to the
	// requested destination failed.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
)
