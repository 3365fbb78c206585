// internal/platform/ui/reporter.go
package ui

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/logx"
)

// Modos de visualización
const (
	ModeAuto  = "auto"  // pterm si stderr es una terminal, plain si no
	ModePTerm = "pterm" // barra de progreso y hallazgos en vivo
	ModePlain = "plain" // progreso periódico por el logger
	ModeQuiet = "quiet" // sin salida de progreso
)

// DefaultMaxLiveDisplay hallazgos mostrados en vivo por defecto.
const DefaultMaxLiveDisplay = 25

// Reporter es un ports.ProgressReporter que además libera la terminal al terminar.
// Close es seguro aunque Finish no se haya llamado (cancelación, error fatal).
type Reporter interface {
	ports.ProgressReporter
	Close() error
}

// ScanInfo describe el scan para la cabecera.
type ScanInfo struct {
	Target    string
	Wordlist  string
	Workers   int
	ChunkSize int
	Resolvers []string
	Transport string
	Output    string
}

// Options configura el reporter.
type Options struct {
	Mode           string
	MaxLiveDisplay int
	Info           ScanInfo
	Logger         logx.Logger

	// Out destino de la salida pterm; nil = os.Stderr.
	Out io.Writer
}

// ResolveMode traduce auto a pterm o plain según f sea una terminal.
// Modos desconocidos caen en plain.
func ResolveMode(mode string, f *os.File) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModePTerm:
		return ModePTerm
	case ModeQuiet:
		return ModeQuiet
	case ModePlain:
		return ModePlain
	case ModeAuto, "":
		if f != nil && IsTerminal(f) {
			return ModePTerm
		}
		return ModePlain
	default:
		return ModePlain
	}
}

// IsTerminal indica si f está conectado a una terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New crea el reporter para opts.Mode (auto se resuelve contra os.Stderr).
func New(opts Options) Reporter {
	if opts.MaxLiveDisplay < 0 {
		opts.MaxLiveDisplay = 0
	}
	if opts.Logger == nil {
		opts.Logger = logx.Discard()
	}
	if opts.Out == nil {
		opts.Out = os.Stderr
	}

	switch ResolveMode(opts.Mode, os.Stderr) {
	case ModePTerm:
		return NewPTermReporter(opts)
	case ModeQuiet:
		return NewNoopReporter()
	default:
		return NewLogReporter(opts.Logger, opts.MaxLiveDisplay)
	}
}
