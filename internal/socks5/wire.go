package socks5

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"
)

// Version is the SOCKS protocol version this server speaks.
const Version byte = 0x05

// Method is an authentication method identifier from the client greeting.
type Method byte

// RFC 1928 method identifiers. Anything else a client offers is ignored.
const (
	MethodNoAuth       Method = 0x00
	MethodPasswd       Method = 0x02
	MethodNoAcceptable Method = 0xff
)

// Command is the CMD byte of a client request.
type Command byte

const (
	CmdConnect      Command = 0x01
	CmdBind         Command = 0x02
	CmdUDPAssociate Command = 0x03
)

// AddrType is the ATYP byte of a request address.
type AddrType byte

const (
	AddrIPv4   AddrType = 0x01
	AddrDomain AddrType = 0x03
	AddrIPv6   AddrType = 0x04
)

// ReplyStatus is the REP byte of a command reply.
type ReplyStatus byte

// RFC 1928 reply codes. The full table is listed for completeness; this
// server only ever sends Succeeded, NotAllowed, ConnectionRefused,
// CmdNotSupported, and AddrNotSupported.
const (
	StatusSucceeded          ReplyStatus = 0x00
	StatusServerFailure      ReplyStatus = 0x01
	StatusNotAllowed         ReplyStatus = 0x02
	StatusNetworkUnreachable ReplyStatus = 0x03
	StatusHostUnreachable    ReplyStatus = 0x04
	StatusConnectionRefused  ReplyStatus = 0x05
	StatusTTLExpired         ReplyStatus = 0x06
	StatusCmdNotSupported    ReplyStatus = 0x07
	StatusAddrNotSupported   ReplyStatus = 0x08
)

const (
	authStatusSuccess byte = 0x00
	authStatusFailure byte = 0xff
)

// Addr is a decoded destination address. IP is set for AddrIPv4/AddrIPv6,
// Name for AddrDomain.
type Addr struct {
	Type AddrType
	IP   net.IP
	Name string
	Port uint16
}

// Host returns the destination in host:port form suitable for dialing or
// resolution.
func (a Addr) Host() string {
	host := a.Name
	if a.Type != AddrDomain {
		host = a.IP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(int(a.Port)))
}

// ReadLengthPrefixed reads one length byte followed by that many bytes. A
// zero length byte is a framing violation, not an empty value.
func ReadLengthPrefixed(r io.Reader) ([]byte, error) {
	var n [1]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, fmt.Errorf("read field length: %w", err)
	}
	if n[0] == 0 {
		return nil, ErrEmptyField
	}

	b := make([]byte, int(n[0]))
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("read %d-byte field: %w", n[0], err)
	}
	return b, nil
}

// ReadAddress reads an ATYP byte and the address and port it declares. An
// unrecognized ATYP returns ErrUnsupportedAddrType without consuming any
// further bytes.
func ReadAddress(r io.Reader) (Addr, error) {
	var atyp [1]byte
	if _, err := io.ReadFull(r, atyp[:]); err != nil {
		return Addr{}, fmt.Errorf("read address type: %w", err)
	}

	addr := Addr{Type: AddrType(atyp[0])}

	switch addr.Type {
	case AddrIPv4:
		ip := make(net.IP, net.IPv4len)
		if _, err := io.ReadFull(r, ip); err != nil {
			return Addr{}, fmt.Errorf("read ipv4 address: %w", err)
		}
		addr.IP = ip
	case AddrIPv6:
		ip := make(net.IP, net.IPv6len)
		if _, err := io.ReadFull(r, ip); err != nil {
			return Addr{}, fmt.Errorf("read ipv6 address: %w", err)
		}
		addr.IP = ip
	case AddrDomain:
		name, err := ReadLengthPrefixed(r)
		if err != nil {
			return Addr{}, err
		}
		addr.Name = string(name)
	default:
		return Addr{}, fmt.Errorf("%w: 0x%02x", ErrUnsupportedAddrType, atyp[0])
	}

	var port [2]byte
	if _, err := io.ReadFull(r, port[:]); err != nil {
		return Addr{}, fmt.Errorf("read port: %w", err)
	}
	addr.Port = binary.BigEndian.Uint16(port[:])

	return addr, nil
}

// AppendAddr appends the wire encoding of addr (ATYP, address bytes, port)
// to b. It is the inverse of ReadAddress for recognized address types.
func AppendAddr(b []byte, addr Addr) []byte {
	switch addr.Type {
	case AddrIPv4:
		b = append(b, byte(AddrIPv4))
		b = append(b, addr.IP.To4()...)
	case AddrIPv6:
		b = append(b, byte(AddrIPv6))
		b = append(b, addr.IP.To16()...)
	case AddrDomain:
		b = append(b, byte(AddrDomain), byte(len(addr.Name)))
		b = append(b, addr.Name...)
	}
	return binary.BigEndian.AppendUint16(b, addr.Port)
}

// WriteMethodReply writes the 2-byte method selection reply.
func WriteMethodReply(w io.Writer, method Method) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(Version)<<8|uint16(method))
	if _, err := w.Write(b[:]); err != nil {
		return fmt.Errorf("write method reply: %w", err)
	}
	return nil
}

// WriteAuthReply writes the 2-byte username/password subnegotiation status,
// echoing the auth version byte the client sent.
func WriteAuthReply(w io.Writer, authVersion byte, ok bool) error {
	status := authStatusFailure
	if ok {
		status = authStatusSuccess
	}
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(authVersion)<<8|uint16(status))
	if _, err := w.Write(b[:]); err != nil {
		return fmt.Errorf("write auth reply: %w", err)
	}
	return nil
}

// WriteReply writes the fixed 10-byte command reply. The bound address is
// always the zero IPv4 address and port; clients are tested against this
// exact frame.
func WriteReply(w io.Writer, status ReplyStatus) error {
	b := [10]byte{Version, byte(status), 0x00, byte(AddrIPv4)}
	if _, err := w.Write(b[:]); err != nil {
		return fmt.Errorf("write reply %d: %w", status, err)
	}
	return nil
}
