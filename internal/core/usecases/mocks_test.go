// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/workerpool"
)

// mockResolver responde desde un mapa. Los nombres bajo zone que no están en el mapa
// devuelven wildcard (si hay) o Unresolved.
type mockResolver struct {
	zone     string
	answers  map[string]domain.AddressSet
	wildcard domain.AddressSet
	delay    time.Duration

	mu       sync.Mutex
	queried  []string
	calls    atomic.Int64
	inFlight atomic.Int64
	maxSeen  atomic.Int64
}

func newMockResolver(zone string) *mockResolver {
	return &mockResolver{zone: zone, answers: make(map[string]domain.AddressSet)}
}

func (m *mockResolver) set(name string, ips ...string) *mockResolver {
	m.answers[strings.ToLower(name)] = domain.MustParseAddressSet(ips...)
	return m
}

func (m *mockResolver) Resolve(ctx context.Context, name string) domain.Outcome {
	m.calls.Add(1)
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		prev := m.maxSeen.Load()
		if cur <= prev || m.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}

	m.mu.Lock()
	m.queried = append(m.queried, name)
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if addrs, ok := m.answers[strings.ToLower(name)]; ok {
		return domain.Resolved(addrs)
	}
	if strings.HasSuffix(strings.ToLower(name), "."+m.zone) {
		return domain.Resolved(m.wildcard)
	}
	return domain.Unresolved()
}

func (m *mockResolver) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queried...)
}

// sliceChunks entrega chunks fijos y anota el progreso visto en cada Next.
type sliceChunks struct {
	chunks   [][]domain.Candidate
	next     int
	err      error
	closed   bool
	onNext   func(idx int)
	nextSeen int
}

func (s *sliceChunks) Next() ([]domain.Candidate, error) {
	s.nextSeen++
	if s.onNext != nil {
		s.onNext(s.next)
	}
	if s.err != nil && s.next == len(s.chunks) {
		return nil, s.err
	}
	if s.next >= len(s.chunks) {
		return nil, io.EOF
	}
	c := s.chunks[s.next]
	s.next++
	return c, nil
}

func (s *sliceChunks) Close() error {
	s.closed = true
	return nil
}

// candidates parte labels en chunks de tamaño size.
func candidates(size int, labels ...string) [][]domain.Candidate {
	var out [][]domain.Candidate
	var cur []domain.Candidate
	for i, l := range labels {
		cur = append(cur, domain.Candidate{Label: l, Line: int64(i + 1)})
		if len(cur) == size {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// mockWordlist sirve candidatos en memoria.
type mockWordlist struct {
	labels    []string
	chunkSize int
	countErr  error
	chunksErr error

	source *sliceChunks
}

func (m *mockWordlist) Count(ctx context.Context) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(m.labels)), nil
}

func (m *mockWordlist) Chunks() (ports.ChunkSource, error) {
	if m.chunksErr != nil {
		return nil, m.chunksErr
	}
	size := m.chunkSize
	if size <= 0 {
		size = 10
	}
	m.source = &sliceChunks{chunks: candidates(size, m.labels...)}
	return m.source, nil
}

// mockSink guarda en memoria. failAfter > 0 hace fallar el Record número failAfter+1.
type mockSink struct {
	mu        sync.Mutex
	openErr   error
	closeErr  error
	failAfter int
	opened    bool
	closed    bool
	records   []string
	summaries []domain.ScanSummary
}

func (m *mockSink) Open() error {
	if m.openErr != nil {
		return m.openErr
	}
	m.opened = true
	return nil
}

func (m *mockSink) Record(sub domain.ConfirmedSubdomain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && len(m.records) >= m.failAfter {
		return errors.New("disk full")
	}
	m.records = append(m.records, sub.Name)
	return nil
}

func (m *mockSink) Close() error {
	m.closed = true
	return m.closeErr
}

func (m *mockSink) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.records...)
}

// summarySink añade RecordSummary.
type summarySink struct {
	mockSink
}

func (s *summarySink) RecordSummary(summary domain.ScanSummary) error {
	s.summaries = append(s.summaries, summary)
	return nil
}

// recordingReporter registra las llamadas en orden.
type recordingReporter struct {
	events   []string
	ticks    []int64
	found    []string
	wildcard *domain.WildcardSet
	total    int64
	finished *domain.ScanSummary
	onTick   func(processed int64)
}

func (r *recordingReporter) Start(total int64) {
	r.total = total
	r.events = append(r.events, "start")
}

func (r *recordingReporter) Wildcard(wc *domain.WildcardSet) {
	r.wildcard = wc
	r.events = append(r.events, "wildcard")
}

func (r *recordingReporter) Tick(processed, total int64) {
	r.ticks = append(r.ticks, processed)
	if r.onTick != nil {
		r.onTick(processed)
	}
}

func (r *recordingReporter) Found(sub domain.ConfirmedSubdomain) {
	r.found = append(r.found, sub.Name)
}

func (r *recordingReporter) Finish(summary domain.ScanSummary) {
	r.finished = &summary
	r.events = append(r.events, "finish")
}

func newTestPool(t *testing.T, workers int) *workerpool.Pool {
	t.Helper()
	p, err := workerpool.New(workerpool.Config{Workers: workers})
	if err != nil {
		t.Fatalf("worker pool: %v", err)
	}
	t.Cleanup(p.Release)
	return p
}
