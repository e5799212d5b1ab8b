package resolver

// Package resolver maps the domain form of a SOCKS5 destination address to
// concrete IP addresses, either via the system resolver or by querying a
// configured DNS server directly.
