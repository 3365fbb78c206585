// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"dnsrake/internal/platform/logx"
)

// Pool es un pool persistente de goroutines (ants) reutilizado durante todo el scan.
// Submit bloquea cuando todos los workers están ocupados, así el que despacha
// nunca tiene más de Workers tareas en vuelo.
type Pool struct {
	pool    *ants.Pool
	wg      sync.WaitGroup
	workers int
	logger  logx.Logger
}

// Config configura el worker pool.
type Config struct {
	Workers int
	Logger  logx.Logger

	// ExpiryDuration libera workers inactivos; 0 usa el default de ants.
	ExpiryDuration time.Duration
}

// Stats contiene estadísticas del worker pool.
type Stats struct {
	Workers int
	Running int
	Free    int
	Waiting int
}

// New crea el pool. Workers <= 0 usa 1.
func New(cfg Config) (*Pool, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.NewSilent()
	}

	p := &Pool{
		workers: cfg.Workers,
		logger:  cfg.Logger.With("component", "worker-pool"),
	}

	opts := []ants.Option{
		ants.WithPanicHandler(func(r any) {
			p.logger.Warn("task panicked", "panic", fmt.Sprint(r))
		}),
		ants.WithLogger(antsLogger{p.logger}),
	}
	if cfg.ExpiryDuration > 0 {
		opts = append(opts, ants.WithExpiryDuration(cfg.ExpiryDuration))
	}

	pool, err := ants.NewPool(cfg.Workers, opts...)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	p.pool = pool

	p.logger.Debug("worker pool ready", "workers", cfg.Workers)
	return p, nil
}

// Submit encola task. Bloquea mientras no haya un worker libre.
func (p *Pool) Submit(task func()) error {
	p.wg.Add(1)

	wrapped := func() {
		defer p.wg.Done()
		task()
	}

	if err := p.pool.Submit(wrapped); err != nil {
		p.wg.Done()
		return err
	}
	return nil
}

// Wait bloquea hasta que terminan todas las tareas enviadas hasta ahora.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Running retorna cuántos workers ejecutan una tarea en este momento.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Cap retorna la capacidad del pool.
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Stats retorna estadísticas del worker pool.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers: p.workers,
		Running: p.pool.Running(),
		Free:    p.pool.Free(),
		Waiting: p.pool.Waiting(),
	}
}

// Release espera a las tareas en vuelo y libera el pool. Submit posterior falla.
func (p *Pool) Release() {
	p.wg.Wait()
	p.pool.Release()
	p.logger.Debug("worker pool released")
}

// antsLogger adapta logx.Logger a ants.Logger.
type antsLogger struct {
	l logx.Logger
}

func (a antsLogger) Printf(format string, args ...any) {
	a.l.Debug(fmt.Sprintf(format, args...))
}
