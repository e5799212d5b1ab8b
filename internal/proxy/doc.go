package proxy

// Package proxy implements the socksd listener side: the keepalive
// listener, per-connection session dispatch, and server configuration.
