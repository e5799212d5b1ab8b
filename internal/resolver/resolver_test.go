package resolver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
)

func TestSystemResolverLocalhost(t *testing.T) {
	t.Parallel()

	r := New(Config{})

	ips, err := r.LookupIP(context.Background(), "localhost")
	if err != nil {
		t.Fatal(err)
	}

	for _, ip := range ips {
		if ip.IsLoopback() {
			return
		}
	}
	t.Fatalf("expected a loopback address, got %v", ips)
}

// startDNSServer runs a local DNS server answering A queries for
// example.test only.
func startDNSServer(t *testing.T) string {
	t.Helper()

	mux := dns.NewServeMux()
	mux.HandleFunc("example.test.", func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		if r.Question[0].Qtype == dns.TypeA {
			rr, err := dns.NewRR("example.test. 60 IN A 192.0.2.10")
			if err == nil {
				m.Answer = append(m.Answer, rr)
			}
		}
		_ = w.WriteMsg(m)
	})
	mux.HandleFunc(".", func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeNameError)
		_ = w.WriteMsg(m)
	})

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := &dns.Server{PacketConn: pc, Handler: mux}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func TestDNSResolverLookup(t *testing.T) {
	t.Parallel()

	server := startDNSServer(t)
	r := New(Config{Server: server, Timeout: 2 * time.Second})

	ips, err := r.LookupIP(context.Background(), "example.test")
	if err != nil {
		t.Fatal(err)
	}

	want := net.IPv4(192, 0, 2, 10)
	for _, ip := range ips {
		if ip.Equal(want) {
			return
		}
	}
	t.Fatalf("expected %s in %v", want, ips)
}

func TestDNSResolverNoAnswer(t *testing.T) {
	t.Parallel()

	server := startDNSServer(t)
	r := New(Config{Server: server, Timeout: 2 * time.Second})

	if _, err := r.LookupIP(context.Background(), "missing.test"); err == nil {
		t.Fatal("expected an error for a name with no records")
	}
}

func TestNewDefaultsDNSPort(t *testing.T) {
	t.Parallel()

	r := New(Config{Server: "192.0.2.53"})

	d, ok := r.(*dnsResolver)
	if !ok {
		t.Fatalf("expected *dnsResolver got %T", r)
	}
	if d.server != "192.0.2.53:53" {
		t.Fatalf("expected 192.0.2.53:53 got %q", d.server)
	}
}
