// internal/adapters/output/file_sink.go
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/logx"
)

// FileSink escribe un FQCN por línea en found_<target>.txt, en modo append.
// No deduplica contra runs anteriores: relanzar un scan puede repetir líneas.
type FileSink struct {
	path   string
	logger logx.Logger

	mu      sync.Mutex
	f       *os.File
	written int
}

var _ ports.Sink = (*FileSink)(nil)

// NewFileSink crea el sink para target dentro de dir ("" = directorio actual).
func NewFileSink(dir string, target domain.Target, logger logx.Logger) *FileSink {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = logx.Discard()
	}
	return &FileSink{
		path:   filepath.Join(dir, target.OutputName()),
		logger: logger.With("component", "file-sink"),
	}
}

// Path retorna la ruta del archivo de resultados.
func (s *FileSink) Path() string { return s.path }

// Written retorna cuántas líneas se escribieron en este run.
func (s *FileSink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Open crea el directorio si hace falta y abre el archivo sin truncarlo.
func (s *FileSink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkOpen, s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkOpen, s.path, err)
	}
	s.f = f

	s.logger.Debug("output file opened", "path", s.path)
	return nil
}

// Record escribe "fqcn\n" y sincroniza a disco antes de retornar.
func (s *FileSink) Record(sub domain.ConfirmedSubdomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return fmt.Errorf("%w: %s: sink not open", domain.ErrSinkWrite, s.path)
	}

	if _, err := s.f.WriteString(sub.Name + "\n"); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkWrite, s.path, err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkWrite, s.path, err)
	}
	s.written++
	return nil
}

// Close cierra el archivo. Llamarlo dos veces no es un error.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkClose, s.path, err)
	}

	s.logger.Debug("output file closed", "path", s.path, "written", s.written)
	return nil
}
