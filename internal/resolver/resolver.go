package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Resolver turns a hostname into candidate IP addresses for dialing.
type Resolver interface {
	LookupIP(ctx context.Context, host string) ([]net.IP, error)
}

type Config struct {
	// Server is a DNS server to query directly, in host or host:port form
	// (port 53 assumed). Empty selects the system resolver.
	Server string

	// Timeout bounds a single DNS exchange. Zero uses the dns package
	// default.
	Timeout time.Duration
}

// New returns the Resolver implementation selected by cfg.
func New(cfg Config) Resolver {
	if cfg.Server == "" {
		return &systemResolver{}
	}

	server := cfg.Server
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &dnsResolver{
		server: server,
		client: &dns.Client{Timeout: cfg.Timeout},
	}
}

// systemResolver defers to the platform's stub resolver.
type systemResolver struct {
	r net.Resolver
}

func (s *systemResolver) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	ips, err := s.r.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", host, err)
	}
	return ips, nil
}

// dnsResolver queries one configured server for A and AAAA records.
type dnsResolver struct {
	server string
	client *dns.Client
}

func (d *dnsResolver) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	var ips []net.IP

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(host), qtype)

		r, _, err := d.client.ExchangeContext(ctx, m, d.server)
		if err != nil {
			return nil, fmt.Errorf("query %s %s: %w", dns.TypeToString[qtype], host, err)
		}

		for _, ans := range r.Answer {
			switch rr := ans.(type) {
			case *dns.A:
				ips = append(ips, rr.A)
			case *dns.AAAA:
				ips = append(ips, rr.AAAA)
			}
		}
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("lookup %s: no addresses", host)
	}
	return ips, nil
}
