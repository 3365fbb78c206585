// internal/platform/ui/pterm_reporter.go
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"dnsrake/internal/core/domain"
)

// renderInterval mínimo entre repintados de la barra
const renderInterval = 100 * time.Millisecond

// PTermReporter pinta una barra de progreso con pterm y muestra encima
// los primeros MaxLiveDisplay hallazgos.
type PTermReporter struct {
	mu sync.Mutex

	out     io.Writer
	info    ScanInfo
	maxLive int

	bar        *pterm.ProgressbarPrinter
	pending    int
	lastRender time.Time
	startTime  time.Time

	shown  int
	hidden int
}

// NewPTermReporter crea el reporter pterm.
func NewPTermReporter(opts Options) *PTermReporter {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &PTermReporter{
		out:     out,
		info:    opts.Info,
		maxLive: opts.MaxLiveDisplay,
	}
}

// Wildcard anuncia el resultado de la detección.
func (p *PTermReporter) Wildcard(wc *domain.WildcardSet) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if wc == nil {
		pterm.Info.WithWriter(p.out).Println("No wildcard detected")
		return
	}
	pterm.Warning.WithWriter(p.out).Printfln("Wildcard detected at %s", wc.String())
}

// Start pinta la cabecera y arranca la barra.
func (p *PTermReporter) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.lastRender = p.startTime
	p.renderHeader(total)

	bar, err := pterm.DefaultProgressbar.
		WithTotal(int(total)).
		WithTitle("Resolving").
		WithWriter(p.out).
		Start()
	if err != nil {
		pterm.Error.WithWriter(p.out).Println("progress bar unavailable: " + err.Error())
		return
	}
	p.bar = bar
}

// Tick acumula el avance y repinta como mucho cada renderInterval.
func (p *PTermReporter) Tick(processed, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending++
	if processed >= total || time.Since(p.lastRender) >= renderInterval {
		p.flushLocked()
	}
}

// Found imprime el hallazgo si aún no se alcanzó el límite de la vista en vivo.
func (p *PTermReporter) Found(sub domain.ConfirmedSubdomain) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shown >= p.maxLive {
		p.hidden++
		return
	}
	p.shown++
	pterm.Success.WithWriter(p.out).Printfln("%s %s", sub.Name, StyleSecondary.Sprint(sub.Addresses.String()))

	if p.shown == p.maxLive {
		pterm.Info.WithWriter(p.out).Printfln("Live display limit reached (%d), further hits go to the output file only", p.maxLive)
	}
}

// Finish para la barra y pinta el resumen.
func (p *PTermReporter) Finish(summary domain.ScanSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", IconStats, summary.String())
	fmt.Fprintf(&b, "%s Processed: %d/%d (%.0f/s)\n", IconTime,
		summary.Processed, summary.Total, rate(summary.Processed, summary.Elapsed))
	if !summary.Wildcard.IsEmpty() {
		fmt.Fprintf(&b, "%s Wildcard: %s\n", IconWildcard, summary.Wildcard.String())
	}
	if summary.Undecodable > 0 {
		fmt.Fprintf(&b, "   Undecodable lines skipped: %d\n", summary.Undecodable)
	}
	if p.hidden > 0 {
		fmt.Fprintf(&b, "   Not shown live: %d\n", p.hidden)
	}
	if p.info.Output != "" {
		fmt.Fprintf(&b, "%s Results: %s", IconOutput, p.info.Output)
	}

	pterm.DefaultBox.
		WithTitle("Scan Summary").
		WithTitleTopCenter().
		WithWriter(p.out).
		Println(strings.TrimRight(b.String(), "\n"))
}

// Close para la barra si sigue activa.
func (p *PTermReporter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	return nil
}

// Stats retorna cuántos hallazgos se mostraron y cuántos no.
func (p *PTermReporter) Stats() (shown, hidden int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown, p.hidden
}

func (p *PTermReporter) flushLocked() {
	if p.bar != nil && p.pending > 0 {
		p.bar.Add(p.pending)
	}
	p.pending = 0
	p.lastRender = time.Now()
}

func (p *PTermReporter) stopLocked() {
	p.flushLocked()
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
}

func (p *PTermReporter) renderHeader(total int64) {
	fmt.Fprintln(p.out, StylePrimary.Sprint(GetBanner(pterm.GetTerminalWidth())))

	lines := []string{
		fmt.Sprintf("%s Target: %s", IconTarget, pterm.Cyan(p.info.Target)),
		fmt.Sprintf("%s Wordlist: %s (%d candidates)", IconWordlist, p.info.Wordlist, total),
		fmt.Sprintf("%s Workers: %d, chunk size %d", IconWorkers, p.info.Workers, p.info.ChunkSize),
		fmt.Sprintf("%s Resolvers: %s (%s)", IconResolvers, strings.Join(p.info.Resolvers, ", "), p.info.Transport),
	}

	pterm.DefaultBox.
		WithTitle("Scan Configuration").
		WithTitleTopCenter().
		WithLeftPadding(2).
		WithRightPadding(2).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		WithWriter(p.out).
		Println(strings.Join(lines, "\n"))

	fmt.Fprintln(p.out, StyleSecondary.Sprint(SeparatorHeavy))
}
