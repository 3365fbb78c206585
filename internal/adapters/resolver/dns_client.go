// internal/adapters/resolver/dns_client.go
package resolver

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/cache"
	"dnsrake/internal/platform/errors"
	"dnsrake/internal/platform/logx"
	"dnsrake/internal/platform/rate"
	"dnsrake/internal/platform/resilience"
	"dnsrake/internal/platform/validator"
)

// ednsUDPSize reduce respuestas truncadas sin pasar del MTU típico.
const ednsUDPSize = 1232

// Config configura el cliente DNS.
type Config struct {
	// Servers upstreams en forma host o host:port (puerto 53 por defecto)
	Servers []string

	// Timeout por intento
	Timeout time.Duration

	// Lifetime presupuesto total por nombre, repartido entre upstreams
	Lifetime time.Duration

	// Transport "udp" (default) o "tcp"
	Transport string

	// RateLimit consultas por segundo; 0 = sin límite
	RateLimit float64

	// BreakerThreshold fallos de transporte consecutivos antes de apartar un upstream; 0 = deshabilitado
	BreakerThreshold int
	BreakerCooldown  time.Duration

	// CacheSize respuestas definitivas recordadas por nombre; 0 = sin cache
	CacheSize int
	CacheTTL  time.Duration

	Logger logx.Logger
}

// DNSClient resuelve registros A contra una lista de upstreams.
// Implementa ports.Resolver: cualquier fallo colapsa a domain.Unresolved().
type DNSClient struct {
	servers  []string
	client   *dns.Client
	timeout  time.Duration
	lifetime time.Duration
	limiter  *rate.Limiter
	breakers *resilience.BreakerSet
	answers  *cache.LRU[domain.Outcome]
	logger   logx.Logger

	next    atomic.Uint64
	queries atomic.Int64
}

var _ ports.Resolver = (*DNSClient)(nil)

// New crea el cliente. Falla si algún upstream no es válido.
func New(cfg Config) (*DNSClient, error) {
	if cfg.Logger == nil {
		cfg.Logger = logx.NewSilent()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = cfg.Timeout
	}

	servers := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		addr, err := validator.NormalizeNameserver(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
		servers = append(servers, addr)
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("%w: no upstream servers", domain.ErrInvalidConfig)
	}

	network := strings.ToLower(cfg.Transport)
	switch network {
	case "", "udp":
		network = "udp"
	case "tcp":
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", domain.ErrInvalidConfig, cfg.Transport)
	}

	c := &DNSClient{
		servers: servers,
		client: &dns.Client{
			Net:     network,
			Timeout: cfg.Timeout,
			UDPSize: ednsUDPSize,
		},
		timeout:  cfg.Timeout,
		lifetime: cfg.Lifetime,
		limiter:  rate.ForQPS(cfg.RateLimit),
		breakers: resilience.NewBreakerSet(servers, cfg.BreakerThreshold, cfg.BreakerCooldown),
		answers:  cache.New[domain.Outcome](cfg.CacheSize, cfg.CacheTTL),
		logger:   cfg.Logger.With("component", "resolver"),
	}

	c.logger.Debug("resolver ready",
		"servers", strings.Join(servers, ","),
		"transport", network,
		"timeout_ms", cfg.Timeout.Milliseconds(),
		"lifetime_ms", cfg.Lifetime.Milliseconds(),
		"rate_limit", cfg.RateLimit,
		"cache_size", cfg.CacheSize,
	)

	return c, nil
}

// Servers retorna los upstreams normalizados.
func (c *DNSClient) Servers() []string {
	return append([]string(nil), c.servers...)
}

// Queries retorna cuántas consultas se han enviado.
func (c *DNSClient) Queries() int64 {
	return c.queries.Load()
}

// CacheStats retorna los contadores del cache de respuestas.
func (c *DNSClient) CacheStats() cache.Stats {
	return c.answers.Stats()
}

// Resolve consulta el registro A de name (los labels no ASCII van en punycode).
// Prueba los upstreams en round-robin, cada uno como mucho una vez, dentro del
// lifetime. Nunca devuelve error.
func (c *DNSClient) Resolve(ctx context.Context, name string) domain.Outcome {
	ascii, err := validator.ToASCIIName(name)
	if err != nil {
		c.logger.Debug("unresolved", "name", name, "cause", err.Error())
		return domain.Unresolved()
	}

	fqdn := dns.Fqdn(ascii)
	if _, ok := dns.IsDomainName(fqdn); !ok || len(fqdn) > validator.MaxNameLength+1 {
		c.logger.Debug("unresolved", "name", name, "cause", errors.ErrInvalidName.Error())
		return domain.Unresolved()
	}

	key := strings.ToLower(fqdn)
	if out, ok := c.answers.Get(key); ok {
		return out
	}

	// El rate limit no consume lifetime: espera antes de arrancar el reloj.
	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Debug("unresolved", "name", name, "cause", err.Error())
		return domain.Unresolved()
	}

	lifeCtx, cancel := context.WithTimeout(ctx, c.lifetime)
	defer cancel()

	order := c.rotation()
	var lastErr error
	attempted := 0

	// Primera pasada respeta los breakers; si ninguno dejó pasar, segunda pasada sin ellos.
	for pass := 0; pass < 2 && attempted == 0; pass++ {
		honourBreakers := pass == 0 && c.breakers.Enabled()

		for _, server := range order {
			if lifeCtx.Err() != nil {
				lastErr = errors.ErrLifetimeExceeded
				break
			}

			cb := c.breakers.For(server)
			if honourBreakers && !cb.Allow() {
				continue
			}
			if attempted > 0 {
				if err := c.limiter.Wait(lifeCtx); err != nil {
					lastErr = errors.ErrLifetimeExceeded
					break
				}
			}
			attempted++

			addrs, err := c.exchange(lifeCtx, fqdn, server)
			switch {
			case err == nil:
				cb.RecordSuccess()
				out := domain.Resolved(addrs)
				c.answers.Set(key, out)
				return out
			case errors.IsDefinitive(err):
				cb.RecordSuccess()
				c.answers.Set(key, domain.Unresolved())
				c.logger.Debug("unresolved", "name", name, "server", server, "cause", err.Error())
				return domain.Unresolved()
			case errors.IsUpstreamFault(err) || errors.Is(err, errors.ErrRefused):
				cb.RecordFailure()
			default:
				// SERVFAIL o truncado: el upstream respondió, el fallo es del nombre.
				cb.RecordSuccess()
			}
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = errors.ErrLifetimeExceeded
	}
	c.logger.Debug("unresolved", "name", name, "attempts", attempted, "cause", lastErr.Error())
	return domain.Unresolved()
}

// exchange hace un único intento contra server, acotado por min(timeout, lifetime restante).
func (c *DNSClient) exchange(ctx context.Context, fqdn, server string) (domain.AddressSet, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(fqdn, dns.TypeA)
	msg.RecursionDesired = true
	if c.client.Net == "udp" {
		msg.SetEdns0(ednsUDPSize, false)
	}

	c.queries.Add(1)
	resp, _, err := c.client.ExchangeContext(attemptCtx, msg, server)
	if err != nil {
		return domain.AddressSet{}, classifyTransportError(err, server)
	}
	return parseResponse(resp, server)
}

// parseResponse traduce el rcode y extrae los registros A de la sección answer.
func parseResponse(resp *dns.Msg, server string) (domain.AddressSet, error) {
	if resp == nil {
		return domain.AddressSet{}, errors.Wrapf(errors.ErrInvalidResponse, "%s: empty message", server)
	}
	if resp.Truncated {
		return domain.AddressSet{}, errors.Wrap(errors.ErrTruncated, server)
	}

	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return domain.AddressSet{}, errors.Wrap(errors.ErrNXDomain, server)
	case dns.RcodeServerFailure:
		return domain.AddressSet{}, errors.Wrap(errors.ErrServFail, server)
	case dns.RcodeRefused:
		return domain.AddressSet{}, errors.Wrap(errors.ErrRefused, server)
	default:
		return domain.AddressSet{}, errors.Wrapf(errors.ErrInvalidResponse, "%s: rcode %s", server, dns.RcodeToString[resp.Rcode])
	}

	addrs := make([]netip.Addr, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		if addr, ok := netip.AddrFromSlice(a.A); ok {
			addrs = append(addrs, addr)
		}
	}

	set := domain.NewAddressSet(addrs...)
	if set.IsEmpty() {
		return set, errors.Wrap(errors.ErrNoAnswer, server)
	}
	return set, nil
}

func classifyTransportError(err error, server string) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return errors.Wrapf(errors.ErrTimeout, "%s: %v", server, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrapf(errors.ErrTimeout, "%s: %v", server, err)
	}
	if errors.Is(err, dns.ErrId) || errors.Is(err, dns.ErrShortRead) {
		return errors.Wrapf(errors.ErrInvalidResponse, "%s: %v", server, err)
	}
	return errors.Wrapf(errors.ErrConnectionFailed, "%s: %v", server, err)
}

// rotation retorna los upstreams empezando por el siguiente en round-robin.
func (c *DNSClient) rotation() []string {
	n := len(c.servers)
	if n == 1 {
		return c.servers
	}
	start := int((c.next.Add(1) - 1) % uint64(n))
	order := make([]string, 0, n)
	order = append(order, c.servers[start:]...)
	order = append(order, c.servers[:start]...)
	return order
}
