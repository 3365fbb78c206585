// internal/platform/ui/noop_reporter.go
package ui

import "dnsrake/internal/core/domain"

// NoopReporter no produce ninguna salida. Modo quiet.
type NoopReporter struct{}

// NewNoopReporter crea el reporter sin salida
func NewNoopReporter() *NoopReporter {
	return &NoopReporter{}
}

func (n *NoopReporter) Start(total int64)                   {}
func (n *NoopReporter) Wildcard(wc *domain.WildcardSet)     {}
func (n *NoopReporter) Tick(processed, total int64)         {}
func (n *NoopReporter) Found(sub domain.ConfirmedSubdomain) {}
func (n *NoopReporter) Finish(summary domain.ScanSummary)   {}
func (n *NoopReporter) Close() error                        { return nil }
