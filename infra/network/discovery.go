package network

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	consulx "github.com/phuhao00/pandaparty/infra/consul"
	redisx "github.com/phuhao00/pandaparty/infra/redis"
)

// discoveryCacheTTL bounds how long a resolved address list is trusted
// before ServiceResolver consults Consul again, keeping a dead instance
// from being handed out long after it fails health checks.
const discoveryCacheTTL = 5 * time.Second

// ServiceResolver turns a logical service name into a dialable address.
// Callers may also bypass discovery entirely by passing a literal
// "host:port" as name - it is returned unchanged without a Consul or Redis
// query, which is how the client demos (friendserver, roomserver,
// gameserver) run without a live Consul agent in simple setups.
type ServiceResolver struct {
	consul *consulx.ConsulClient
	cache  *redisx.RedisClient

	mu        sync.Mutex
	localNext map[string]int
}

// NewServiceResolver builds a resolver backed by consulClient for service
// lookups and, optionally, cache for short-TTL result caching (pass nil for
// either to disable that layer - a resolver with both nil only ever serves
// literal "host:port" names).
func NewServiceResolver(consulClient *consulx.ConsulClient, cache *redisx.RedisClient) *ServiceResolver {
	return &ServiceResolver{consul: consulClient, cache: cache, localNext: make(map[string]int)}
}

// Resolve returns one address to dial for serviceName, round-robining
// across healthy instances. If serviceName already looks like a literal
// address (contains ":"), it is returned unchanged and neither Consul nor
// the cache is consulted.
func (r *ServiceResolver) Resolve(ctx context.Context, serviceName string) (string, error) {
	if strings.Contains(serviceName, ":") {
		return serviceName, nil
	}
	addrs, err := r.healthyAddrs(ctx, serviceName)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("network: no healthy instances for service %q", serviceName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.localNext[serviceName] % len(addrs)
	r.localNext[serviceName] = i + 1
	return addrs[i], nil
}

func (r *ServiceResolver) healthyAddrs(ctx context.Context, serviceName string) ([]string, error) {
	cacheKey := "rpc:discovery:" + serviceName
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			return strings.Split(cached, ","), nil
		}
	}

	if r.consul == nil {
		return nil, nil
	}
	services, err := r.consul.GetHealthyServices(serviceName)
	if err != nil {
		return nil, fmt.Errorf("network: consul health query for %q: %w", serviceName, err)
	}
	addrs := make([]string, 0, len(services))
	for _, svc := range services {
		addrs = append(addrs, fmt.Sprintf("%s:%d", svc.Address, svc.Port))
	}
	rand.Shuffle(len(addrs), func(i, j int) { addrs[i], addrs[j] = addrs[j], addrs[i] })

	if r.cache != nil && len(addrs) > 0 {
		_ = r.cache.Set(ctx, cacheKey, strings.Join(addrs, ","), discoveryCacheTTL)
	}
	return addrs, nil
}
