package dialer

// Package dialer provides outbound dialing implementations used by socksd.
//
// Dialers implement a small interface (DialContext) and are used by the
// SOCKS5 server to establish the destination connection for a CONNECT
// request, either directly or via an upstream SOCKS5 proxy.
