package notifier

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/kursadbilgin/logurl/internal/domain"
)

// Address is one resolved IPv4 stream endpoint, consumed once by a Connector.
type Address struct {
	IP   net.IP
	Port int
}

func (a Address) Network() string { return "tcp4" }

func (a Address) String() string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(a.Port))
}

// Resolver turns a configured host and port into ordered candidate addresses.
type Resolver interface {
	Resolve(ctx context.Context, host string, port int) ([]Address, error)
}

// ResolveConfig tunes the default resolver.
type ResolveConfig struct {
	DNSServer   string            // host:port of a DNS server, empty uses the system resolver
	StaticHosts map[string]string // resembles /etc/hosts, consulted before DNS
}

var _ Resolver = (*NetResolver)(nil)

// NetResolver resolves through net.Resolver restricted to IPv4. It holds no
// mutable state and is safe for concurrent use.
type NetResolver struct {
	staticHosts map[string]string
	lookupIP    func(ctx context.Context, network, host string) ([]net.IP, error)
}

func NewNetResolver(cfg ResolveConfig) *NetResolver {
	resolver := net.DefaultResolver
	if server := strings.TrimSpace(cfg.DNSServer); server != "" {
		var dialer net.Dialer
		resolver = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
				return dialer.DialContext(ctx, network, server)
			},
		}
	}

	static := make(map[string]string, len(cfg.StaticHosts))
	for host, ip := range cfg.StaticHosts {
		static[strings.ToLower(host)] = ip
	}

	return &NetResolver{
		staticHosts: static,
		lookupIP:    resolver.LookupIP,
	}
}

func (r *NetResolver) Resolve(ctx context.Context, host string, port int) ([]Address, error) {
	if port < domain.MinPort || port > domain.MaxPort {
		return nil, newNotifyError(ErrResolution, nil, "port %d out of range", port)
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, newNotifyError(ErrResolution, nil, "host is required")
	}

	if static, ok := r.staticHosts[strings.ToLower(host)]; ok {
		ip := net.ParseIP(static).To4()
		if ip == nil {
			return nil, newNotifyError(ErrResolution, nil, "static host %q maps to non-IPv4 address %q", host, static)
		}
		return []Address{{IP: ip, Port: port}}, nil
	}

	ips, err := r.lookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, newNotifyError(ErrResolution, err, "lookup %s failed", host)
	}

	addrs := make([]Address, 0, len(ips))
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			addrs = append(addrs, Address{IP: v4, Port: port})
		}
	}
	if len(addrs) == 0 {
		return nil, newNotifyError(ErrResolution, nil, "lookup %s returned no IPv4 addresses", host)
	}

	return addrs, nil
}

func (a Address) validate() error {
	if a.IP.To4() == nil {
		return fmt.Errorf("address %v is not IPv4", a.IP)
	}
	return nil
}
