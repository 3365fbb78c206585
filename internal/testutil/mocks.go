// internal/testutil/mocks.go
package testutil

import (
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// Nota: los mocks de ports viven en sus respectivos paquetes.
// Aquí solo hay infraestructura genérica: un servidor DNS real en loopback.

// DNSServer es un servidor DNS autoritativo mínimo para tests.
// Responde A para los nombres registrados y NXDOMAIN para el resto,
// salvo que un sufijo wildcard esté configurado.
type DNSServer struct {
	Addr    string // UDP
	TCPAddr string

	mu        sync.RWMutex
	records   map[string][]string
	wildcards map[string][]string
	rcodes    map[string]int
	delay     time.Duration

	queries atomic.Int64
	udp     *dns.Server
	tcp     *dns.Server
}

// StartDNSServer arranca un servidor UDP y TCP en 127.0.0.1 y lo detiene al terminar el test.
// TCP usa el mismo puerto que UDP cuando está libre.
func StartDNSServer(t *testing.T) *DNSServer {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	ln, err := net.Listen("tcp", pc.LocalAddr().String())
	if err != nil {
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			_ = pc.Close()
			t.Fatalf("listen tcp: %v", err)
		}
	}

	s := &DNSServer{
		Addr:      pc.LocalAddr().String(),
		TCPAddr:   ln.Addr().String(),
		records:   make(map[string][]string),
		wildcards: make(map[string][]string),
		rcodes:    make(map[string]int),
	}

	udpStarted := make(chan struct{})
	tcpStarted := make(chan struct{})
	s.udp = &dns.Server{
		PacketConn:        pc,
		Handler:           dns.HandlerFunc(s.serve),
		NotifyStartedFunc: func() { close(udpStarted) },
	}
	s.tcp = &dns.Server{
		Listener:          ln,
		Handler:           dns.HandlerFunc(s.serve),
		NotifyStartedFunc: func() { close(tcpStarted) },
	}

	go func() { _ = s.udp.ActivateAndServe() }()
	go func() { _ = s.tcp.ActivateAndServe() }()

	for _, ch := range []chan struct{}{udpStarted, tcpStarted} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("dns test server did not start")
		}
	}

	t.Cleanup(func() {
		_ = s.udp.Shutdown()
		_ = s.tcp.Shutdown()
	})

	return s
}

// DeadAddr retorna una dirección UDP de loopback donde nadie escucha.
func DeadAddr(t *testing.T) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	addr := pc.LocalAddr().String()
	_ = pc.Close()
	return addr
}

// AddA registra uno o más A records para name.
func (s *DNSServer) AddA(name string, ips ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[dns.Fqdn(strings.ToLower(name))] = ips
}

// AddWildcard responde con ips para cualquier nombre bajo zone sin registro propio.
func (s *DNSServer) AddWildcard(zone string, ips ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wildcards[dns.Fqdn(strings.ToLower(zone))] = ips
}

// SetRcode fuerza un rcode (p.ej. dns.RcodeServerFailure) para name.
func (s *DNSServer) SetRcode(name string, rcode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rcodes[dns.Fqdn(strings.ToLower(name))] = rcode
}

// SetDelay retrasa todas las respuestas.
func (s *DNSServer) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Queries retorna el número de consultas recibidas.
func (s *DNSServer) Queries() int64 {
	return s.queries.Load()
}

func (s *DNSServer) serve(w dns.ResponseWriter, req *dns.Msg) {
	s.queries.Add(1)

	s.mu.RLock()
	delay := s.delay
	s.mu.RUnlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	resp := new(dns.Msg)
	resp.SetReply(req)
	resp.Authoritative = true

	if len(req.Question) != 1 {
		resp.Rcode = dns.RcodeFormatError
		_ = w.WriteMsg(resp)
		return
	}

	q := req.Question[0]
	name := strings.ToLower(q.Name)

	s.mu.RLock()
	rcode, forced := s.rcodes[name]
	ips, ok := s.records[name]
	if !ok {
		ips, ok = s.matchWildcard(name)
	}
	s.mu.RUnlock()

	switch {
	case forced:
		resp.Rcode = rcode
	case !ok:
		resp.Rcode = dns.RcodeNameError
	case q.Qtype == dns.TypeA:
		for _, ip := range ips {
			resp.Answer = append(resp.Answer, &dns.A{
				Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
				A:   net.ParseIP(ip).To4(),
			})
		}
	}

	_ = w.WriteMsg(resp)
}

// matchWildcard debe llamarse con s.mu tomado.
func (s *DNSServer) matchWildcard(name string) ([]string, bool) {
	for zone, ips := range s.wildcards {
		if strings.HasSuffix(name, "."+zone) {
			return ips, true
		}
	}
	return nil, false
}
