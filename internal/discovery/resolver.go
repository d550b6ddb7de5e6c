// Package discovery maps logical service names to network endpoints.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
)

var ErrUnknownPeer = errors.New("unknown peer service")

type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) Addr() string { return net.JoinHostPort(e.Host, strconv.Itoa(e.Port)) }

func (e Endpoint) BaseURL() string { return "http://" + e.Addr() }

type PeerResolver interface {
	Resolve(ctx context.Context, name string) (Endpoint, error)
}

// StaticResolver serves a fixed name table. It is safe for concurrent use
// and can be changed at runtime with Set.
type StaticResolver struct {
	mu    sync.RWMutex
	peers map[string]Endpoint
}

// NewStaticResolver builds a resolver from name -> "host:port" pairs.
func NewStaticResolver(peers map[string]string) (*StaticResolver, error) {
	r := &StaticResolver{peers: map[string]Endpoint{}}
	for name, addr := range peers {
		if err := r.Set(name, addr); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *StaticResolver) Set(name, addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("peer %s: %w", name, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("peer %s: invalid port %q", name, portStr)
	}
	r.mu.Lock()
	r.peers[name] = Endpoint{Host: host, Port: port}
	r.mu.Unlock()
	return nil
}

func (r *StaticResolver) Resolve(_ context.Context, name string) (Endpoint, error) {
	r.mu.RLock()
	ep, ok := r.peers[name]
	r.mu.RUnlock()
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrUnknownPeer, name)
	}
	return ep, nil
}

type srvLookup func(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)

// DNSResolver looks up _http._tcp.<name>[.<domain>] SRV records, as
// published by Kubernetes headless services or Consul DNS, and uses the
// first record returned.
type DNSResolver struct {
	Domain string
	lookup srvLookup
}

func NewDNSResolver(domain string) *DNSResolver {
	return &DNSResolver{Domain: strings.Trim(domain, "."), lookup: net.DefaultResolver.LookupSRV}
}

func (r *DNSResolver) Resolve(ctx context.Context, name string) (Endpoint, error) {
	target := name
	if r.Domain != "" {
		target = name + "." + r.Domain
	}
	_, addrs, err := r.lookup(ctx, "http", "tcp", target)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return Endpoint{}, fmt.Errorf("%w: %s", ErrUnknownPeer, name)
		}
		return Endpoint{}, err
	}
	if len(addrs) == 0 {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrUnknownPeer, name)
	}
	return Endpoint{Host: strings.TrimSuffix(addrs[0].Target, "."), Port: int(addrs[0].Port)}, nil
}
