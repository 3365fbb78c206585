// internal/core/usecases/runner.go
package usecases

import (
	"context"
	"fmt"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	platformerrors "dnsrake/internal/platform/errors"
	"dnsrake/internal/platform/logx"
)

// RunnerOptions configura el Runner.
type RunnerOptions struct {
	Wordlist ports.Wordlist
	Resolver ports.Resolver
	Sink     ports.Sink
	Reporter ports.ProgressReporter
	Pool     TaskPool
	Logger   logx.Logger
}

// Runner secuencia un scan completo: pre-scan de la wordlist, apertura del sink,
// detección de wildcard y coordinación por chunks.
type Runner struct {
	wordlist    ports.Wordlist
	sink        ports.Sink
	reporter    ports.ProgressReporter
	detector    *WildcardDetector
	coordinator *ScanCoordinator
	logger      logx.Logger
}

// NewRunner crea el runner.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Logger == nil {
		opts.Logger = logx.Discard()
	}
	if opts.Reporter == nil {
		opts.Reporter = noopReporter{}
	}

	return &Runner{
		wordlist: opts.Wordlist,
		sink:     opts.Sink,
		reporter: opts.Reporter,
		detector: NewWildcardDetector(opts.Resolver, opts.Logger),
		coordinator: NewScanCoordinator(CoordinatorOptions{
			Resolver: opts.Resolver,
			Pool:     opts.Pool,
			Sink:     opts.Sink,
			Reporter: opts.Reporter,
			Logger:   opts.Logger,
		}),
		logger: opts.Logger.With("component", "runner"),
	}
}

// Run ejecuta el scan sobre target.
// Un error de la wordlist aborta antes de cualquier consulta DNS y sin abrir el sink.
// En cancelación retorna el resumen parcial junto a domain.ErrScanCanceled.
func (r *Runner) Run(ctx context.Context, target domain.Target) (summary *domain.ScanSummary, err error) {
	total, err := r.wordlist.Count(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrScanCanceled, err)
		}
		return nil, err
	}
	r.logger.Info("wordlist loaded", "candidates", total)

	if err := r.sink.Open(); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.sink.Close(); cerr != nil {
			err = platformerrors.Join(err, cerr)
		}
	}()

	wildcard := r.detector.Detect(ctx, target)
	r.reporter.Wildcard(wildcard)

	chunks, err := r.wordlist.Chunks()
	if err != nil {
		return nil, err
	}
	defer chunks.Close()

	r.reporter.Start(total)
	result, runErr := r.coordinator.Run(ctx, target, wildcard, chunks, total)
	if runErr != nil && !platformerrors.Is(runErr, domain.ErrScanCanceled) {
		// Fallo fatal: sin estadísticas parciales.
		r.logger.Warn("scan aborted", "status", result.Status.String(), "error", runErr.Error())
		return nil, runErr
	}
	if runErr == nil {
		r.reporter.Finish(result)
	}

	if ss, ok := r.sink.(ports.SummarySink); ok {
		if serr := ss.RecordSummary(result); serr != nil {
			r.logger.Warn("summary not recorded", "error", serr.Error())
		}
	}

	r.logger.Info("scan done",
		"status", result.Status.String(),
		"confirmed", result.Confirmed,
		"processed", result.Processed,
		"elapsed", domain.FormatElapsed(result.Elapsed),
	)
	return &result, runErr
}
