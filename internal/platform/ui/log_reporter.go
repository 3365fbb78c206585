// internal/platform/ui/log_reporter.go
package ui

import (
	"fmt"
	"sync"
	"time"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/platform/logx"
)

// progressSteps número de líneas de progreso a lo largo del scan
const progressSteps = 20

// LogReporter informa el progreso por el logger: una línea cada 5% y un hallazgo
// por línea hasta MaxLiveDisplay. Pensado para salida no interactiva.
type LogReporter struct {
	mu      sync.Mutex
	logger  logx.Logger
	maxLive int

	step      int64
	nextLog   int64
	startTime time.Time
	shown     int
	hidden    int
}

// NewLogReporter crea el reporter.
func NewLogReporter(logger logx.Logger, maxLive int) *LogReporter {
	if logger == nil {
		logger = logx.Discard()
	}
	return &LogReporter{
		logger:  logger.With("component", "progress"),
		maxLive: maxLive,
	}
}

func (r *LogReporter) Wildcard(wc *domain.WildcardSet) {
	if wc == nil {
		r.logger.Info("no wildcard detected")
		return
	}
	r.logger.Warn(fmt.Sprintf("Wildcard detected at %s", wc.String()))
}

func (r *LogReporter) Start(total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.startTime = time.Now()
	r.step = total / progressSteps
	if r.step < 1 {
		r.step = 1
	}
	r.nextLog = r.step
	r.logger.Info("scan started", "candidates", total)
}

func (r *LogReporter) Tick(processed, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if processed < r.nextLog && processed < total {
		return
	}
	for r.nextLog <= processed {
		r.nextLog += r.step
	}

	elapsed := time.Since(r.startTime)
	r.logger.Info("progress",
		"processed", processed,
		"total", total,
		"percent", fmt.Sprintf("%.1f", percent(processed, total)),
		"rate", fmt.Sprintf("%.0f/s", rate(processed, elapsed)),
		"elapsed", formatDuration(elapsed),
	)
}

func (r *LogReporter) Found(sub domain.ConfirmedSubdomain) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shown >= r.maxLive {
		r.hidden++
		return
	}
	r.shown++
	r.logger.Info("found", "name", sub.Name, "addresses", sub.Addresses.String())
}

func (r *LogReporter) Finish(summary domain.ScanSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info(summary.String(),
		"processed", summary.Processed,
		"total", summary.Total,
		"undecodable", summary.Undecodable,
		"not_shown", r.hidden,
	)
}

func (r *LogReporter) Close() error { return nil }
