package socks5

// Package socks5 implements the server side of the SOCKS5 protocol for
// socksd: the wire codec, the per-connection handshake state machine, and
// the handoff into the byte relay.
//
// Only the CONNECT command is served. Replies always carry a zero IPv4
// bound address; this server never discloses a meaningful bound address.
