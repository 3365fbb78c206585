// internal/core/usecases/scan_coordinator.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/logx"
)

// TaskPool es lo que el coordinador necesita de un worker pool.
// Submit debe bloquear mientras no haya un worker libre.
type TaskPool interface {
	Submit(task func()) error
	Wait()
}

// CoordinatorOptions configura el ScanCoordinator.
type CoordinatorOptions struct {
	Resolver ports.Resolver
	Pool     TaskPool
	Sink     ports.Sink
	Reporter ports.ProgressReporter
	Logger   logx.Logger
}

// ScanCoordinator reparte los candidatos de cada chunk en el pool, recoge los
// resultados en un único consumidor y persiste los confirmados.
// El chunk N+1 no se lee hasta que todos los resultados del chunk N se consumieron.
type ScanCoordinator struct {
	resolver ports.Resolver
	pool     TaskPool
	sink     ports.Sink
	reporter ports.ProgressReporter
	logger   logx.Logger
}

// NewScanCoordinator crea el coordinador.
func NewScanCoordinator(opts CoordinatorOptions) *ScanCoordinator {
	if opts.Logger == nil {
		opts.Logger = logx.Discard()
	}
	if opts.Reporter == nil {
		opts.Reporter = noopReporter{}
	}
	return &ScanCoordinator{
		resolver: opts.Resolver,
		pool:     opts.Pool,
		sink:     opts.Sink,
		reporter: opts.Reporter,
		logger:   opts.Logger.With("component", "coordinator"),
	}
}

// resolution es lo que una tarea entrega al consumidor.
type resolution struct {
	name        string
	outcome     domain.Outcome
	undecodable bool
}

// scanState es propiedad exclusiva del consumidor.
type scanState struct {
	summary domain.ScanSummary
	seen    map[string]struct{}
	sinkErr error
}

// Run procesa todos los chunks. En cancelación retorna domain.ErrScanCanceled junto al
// resumen parcial; si el sink falla, deja de despachar, drena y retorna domain.ErrSinkWrite.
func (c *ScanCoordinator) Run(
	ctx context.Context,
	target domain.Target,
	wildcard *domain.WildcardSet,
	chunks ports.ChunkSource,
	total int64,
) (domain.ScanSummary, error) {
	start := time.Now()
	st := &scanState{
		summary: domain.ScanSummary{
			Target:    target.Root,
			Status:    domain.ScanStatusRunning,
			Total:     total,
			Wildcard:  wildcard.Addresses(),
			StartTime: start,
		},
		seen: make(map[string]struct{}),
	}

	finish := func(status domain.ScanStatus) domain.ScanSummary {
		st.summary.Status = status
		st.summary.Elapsed = time.Since(start)
		return st.summary
	}

	for chunkIdx := 0; ; chunkIdx++ {
		if ctx.Err() != nil {
			c.logger.Info("scan canceled", "processed", st.summary.Processed, "total", total)
			return finish(domain.ScanStatusCanceled), domain.ErrScanCanceled
		}

		chunk, err := chunks.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return finish(domain.ScanStatusFailed), err
		}

		c.logger.Debug("chunk started", "chunk", chunkIdx, "candidates", len(chunk))
		c.runChunk(ctx, target, wildcard, chunk, st)

		if st.sinkErr != nil {
			return finish(domain.ScanStatusFailed), st.sinkErr
		}
	}

	c.logger.Debug("scan finished",
		"processed", st.summary.Processed,
		"confirmed", st.summary.Confirmed,
		"undecodable", st.summary.Undecodable,
	)
	return finish(domain.ScanStatusCompleted), nil
}

// runChunk despacha el chunk y consume sus resultados hasta el último.
func (c *ScanCoordinator) runChunk(
	ctx context.Context,
	target domain.Target,
	wildcard *domain.WildcardSet,
	chunk []domain.Candidate,
	st *scanState,
) {
	// Con buffer len(chunk) ninguna tarea se bloquea al entregar.
	results := make(chan resolution, len(chunk))
	dispatched := make(chan int, 1)
	var stop atomic.Bool

	// Las tareas en vuelo terminan por timeout/lifetime, no por la señal.
	taskCtx := context.WithoutCancel(ctx)

	go func() {
		n := 0
		defer func() { dispatched <- n }()

		for _, cand := range chunk {
			if ctx.Err() != nil || stop.Load() {
				return
			}

			if cand.Undecodable {
				results <- resolution{name: cand.Label, undecodable: true}
				n++
				continue
			}

			name := target.FQCN(cand.Label)
			err := c.pool.Submit(func() {
				outcome := domain.Unresolved()
				defer func() { results <- resolution{name: name, outcome: outcome} }()
				outcome = c.resolver.Resolve(taskCtx, name)
			})
			if err != nil {
				c.logger.Warn("submit failed", "name", name, "error", err.Error())
				results <- resolution{name: name, outcome: domain.Unresolved()}
			}
			n++
		}
	}()

	received, expected := 0, -1
	for expected < 0 || received < expected {
		select {
		case r := <-results:
			received++
			if c.consume(r, wildcard, st) {
				stop.Store(true)
			}
		case n := <-dispatched:
			expected = n
		}
	}

	// Barrera: ninguna tarea del chunk sigue viva.
	c.pool.Wait()
}

// consume aplica el filtro a un resultado. Retorna true si el sink falló.
func (c *ScanCoordinator) consume(r resolution, wildcard *domain.WildcardSet, st *scanState) bool {
	failed := false

	switch {
	case r.undecodable:
		st.summary.Undecodable++
		c.logger.Debug("undecodable candidate skipped", "label", r.name)

	default:
		addrs, ok := r.outcome.Addresses()
		if !ok {
			break
		}
		if wildcard.Explains(addrs) {
			c.logger.Debug("wildcard match dropped", "name", r.name, "addresses", addrs.String())
			break
		}

		sub := domain.ConfirmedSubdomain{Name: r.name, Addresses: addrs, FoundAt: time.Now()}
		if _, dup := st.seen[sub.Key()]; dup || st.sinkErr != nil {
			break
		}

		if err := c.sink.Record(sub); err != nil {
			if !errors.Is(err, domain.ErrSinkWrite) {
				err = fmt.Errorf("%w: %v", domain.ErrSinkWrite, err)
			}
			st.sinkErr = fmt.Errorf("record %s: %w", sub.Name, err)
			c.logger.Err(err, "name", sub.Name)
			failed = true
			break
		}

		st.seen[sub.Key()] = struct{}{}
		st.summary.Confirmed++
		c.reporter.Found(sub)
	}

	st.summary.Processed++
	c.reporter.Tick(st.summary.Processed, st.summary.Total)
	return failed
}

// noopReporter descarta el progreso.
type noopReporter struct{}

func (noopReporter) Start(int64)                     {}
func (noopReporter) Wildcard(*domain.WildcardSet)    {}
func (noopReporter) Tick(int64, int64)               {}
func (noopReporter) Found(domain.ConfirmedSubdomain) {}
func (noopReporter) Finish(domain.ScanSummary)       {}
