package relay

// Package relay shuttles bytes between two established connections after
// the SOCKS5 handshake has succeeded. From here on the proxy stops
// interpreting bytes; it is an opaque full-duplex pipe.
