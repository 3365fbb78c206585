// cmd/dnsrake/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dnsrake/internal/adapters/output"
	"dnsrake/internal/adapters/resolver"
	"dnsrake/internal/adapters/wordlist"
	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/core/usecases"
	"dnsrake/internal/platform/config"
	"dnsrake/internal/platform/logx"
	"dnsrake/internal/platform/ui"
	"dnsrake/internal/platform/workerpool"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Códigos de salida
const (
	exitOK       = 0
	exitFatal    = 1
	exitUsage    = 2
	exitCanceled = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Config centralizada (help/version terminan aquí)
	cfg, err := config.Load(version, commit, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		return exitUsage
	}

	// 2. Logger compartido. En modo pterm la barra es la salida principal.
	mode := ui.ResolveMode(cfg.UI.Mode, os.Stderr)
	logger := logx.NewWithLevel(loggerLevel(cfg.UI.LogLevel, mode))

	// 3. Target: argumento, o prompt si stdin es una terminal
	if cfg.Core.Target == "" && ui.IsTerminal(os.Stdin) {
		cfg.Core.Target = promptTarget(os.Stdin, os.Stderr)
	}
	if cfg.Core.Target == "" {
		fmt.Fprintln(os.Stderr, "Error: target domain is required")
		fmt.Fprintln(os.Stderr, "Usage: dnsrake -t <domain> [-W wordlist.txt]")
		fmt.Fprintln(os.Stderr, "Try: dnsrake -h for help")
		return exitUsage
	}

	target := domain.NewTarget(cfg.Core.Target)
	if err := target.Validate(); err != nil {
		logger.Err(err, "phase", "validation")
		return exitUsage
	}
	if target.IsPublicSuffix() {
		logger.Warn("target is a public suffix, every registered domain under it may look like a hit", "target", target.Root)
	}

	logger.Info("dnsrake starting",
		"version", version,
		"target", target.Root,
		"wordlist", cfg.Wordlist.Path,
		"workers", cfg.Core.Workers,
		"resolvers", strings.Join(cfg.Resolver.Servers, ","),
	)

	// 4. Contexto raíz con señales y timeout global opcional
	ctx, cancel := rootContextWithSignals(cfg.Timeout())
	defer cancel()

	// 5. Componentes
	dns, err := resolver.New(resolver.Config{
		Servers:          cfg.Resolver.Servers,
		Timeout:          cfg.Resolver.QueryTimeout(),
		Lifetime:         cfg.Resolver.QueryLifetime(),
		Transport:        cfg.Resolver.Transport,
		RateLimit:        cfg.Resolver.RateLimit,
		BreakerThreshold: cfg.Resolver.BreakerThreshold,
		BreakerCooldown:  cfg.Resolver.BreakerCooldown(),
		CacheSize:        cfg.Resolver.CacheSize,
		CacheTTL:         cfg.Resolver.CacheTTL(),
		Logger:           logger,
	})
	if err != nil {
		logger.Err(err, "phase", "resolver")
		return exitUsage
	}

	words := wordlist.New(cfg.Wordlist.Path, wordlist.Options{
		ChunkSize: cfg.Core.ChunkSize,
		Encoding:  cfg.Wordlist.Encoding,
		Logger:    logger,
	})

	sinks := buildSink(cfg, *target, logger)
	outputPath := sinks.file.Path()

	pool, err := workerpool.New(workerpool.Config{Workers: cfg.Core.Workers, Logger: logger})
	if err != nil {
		logger.Err(err, "phase", "worker-pool")
		return exitFatal
	}
	defer pool.Release()

	reporter := ui.New(ui.Options{
		Mode:           mode,
		MaxLiveDisplay: cfg.UI.MaxLiveDisplay,
		Logger:         logger,
		Info: ui.ScanInfo{
			Target:    target.Root,
			Wordlist:  cfg.Wordlist.Path,
			Workers:   cfg.Core.Workers,
			ChunkSize: cfg.Core.ChunkSize,
			Resolvers: dns.Servers(),
			Transport: cfg.Resolver.Transport,
			Output:    outputPath,
		},
	})
	defer reporter.Close()

	runner := usecases.NewRunner(usecases.RunnerOptions{
		Wordlist: words,
		Resolver: dns,
		Sink:     sinks.sink,
		Reporter: reporter,
		Pool:     pool,
		Logger:   logger,
	})

	// 6. Scan
	summary, runErr := runner.Run(ctx, *target)
	reporter.Close()

	if runErr != nil {
		return handleRunError(runErr, summary, logger)
	}

	if mode == ui.ModeQuiet {
		fmt.Println(summary.String())
	}
	cacheStats := dns.CacheStats()
	logger.Debug("dnsrake finished",
		"confirmed", summary.Confirmed,
		"processed", summary.Processed,
		"queries", dns.Queries(),
		"cache_hits", cacheStats.Hits,
		"encoding", words.Encoding(),
		"output", outputPath,
		"written", sinks.file.Written(),
	)
	if sinks.db != nil {
		logger.Debug("sqlite mirror",
			"path", cfg.Output.DBPath,
			"run_id", sinks.db.RunID(),
			"mirror_failures", sinks.multi.MirrorFailures(),
		)
	}
	return exitOK
}

// handleRunError informa el fallo y elige el código de salida.
func handleRunError(err error, summary *domain.ScanSummary, logger logx.Logger) int {
	code := exitCode(err)

	switch {
	case code == exitCanceled:
		if summary != nil {
			logger.Warn("scan canceled, partial results kept",
				"processed", summary.Processed,
				"total", summary.Total,
				"confirmed", summary.Confirmed,
			)
		} else {
			logger.Warn("scan canceled before it started")
		}
	case errors.Is(err, domain.ErrSourceNotFound):
		fmt.Fprintf(os.Stderr, "Error: wordlist not found: %v\n", err)
	default:
		logger.Err(err, "phase", "run")
	}
	return code
}

// exitCode traduce el error del run a un código de salida.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrScanCanceled):
		return exitCanceled
	case errors.Is(err, domain.ErrInvalidConfig),
		errors.Is(err, domain.ErrEmptyTarget),
		errors.Is(err, domain.ErrInvalidDomain):
		return exitUsage
	default:
		return exitFatal
	}
}

// scanSinks guarda el sink del run y los concretos que lo forman.
type scanSinks struct {
	sink  ports.Sink
	file  *output.FileSink
	db    *output.SQLiteSink
	multi *output.MultiSink
}

// buildSink arma el sink de archivo y, si hay db_path, lo combina con SQLite
// (el archivo es el primario).
func buildSink(cfg config.Config, target domain.Target, logger logx.Logger) scanSinks {
	file := output.NewFileSink(cfg.Output.Dir, target, logger)
	if cfg.Output.DBPath == "" {
		return scanSinks{sink: file, file: file}
	}
	db := output.NewSQLiteSink(cfg.Output.DBPath, target, logger)
	multi := output.NewMultiSink(logger, file, db)
	return scanSinks{sink: multi, file: file, db: db, multi: multi}
}

// loggerLevel baja el ruido del logger cuando pterm ocupa la terminal,
// salvo que se haya pedido debug explícitamente.
func loggerLevel(name, mode string) logx.Level {
	lvl := logx.ParseLevel(name)
	if mode == ui.ModePTerm && lvl != logx.LevelDebug && lvl < logx.LevelWarn {
		return logx.LevelWarn
	}
	return lvl
}

// promptTarget pide el dominio por la terminal. Retorna "" si no se introduce nada.
func promptTarget(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, "Enter target domain: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

// rootContextWithSignals crea el contexto raíz con timeout opcional y cancelación por señales.
// El cancel devuelto libera el handler de señales.
func rootContextWithSignals(timeout time.Duration) (context.Context, context.CancelFunc) {
	var base context.Context
	var baseCancel context.CancelFunc

	if timeout > 0 {
		base, baseCancel = context.WithTimeout(context.Background(), timeout)
	} else {
		base, baseCancel = context.WithCancel(context.Background())
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		baseCancel()
	}
	return base, cleanup
}
