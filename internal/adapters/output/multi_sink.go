// internal/adapters/output/multi_sink.go
package output

import (
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/logx"
)

// MultiSink replica cada operación en varios sinks.
// El primero es el primario: un hallazgo cuenta como registrado cuando él lo acepta.
// Los demás son espejos y sus fallos de escritura solo se avisan.
type MultiSink struct {
	sinks  []ports.Sink
	logger logx.Logger

	mirrorFailures atomic.Int64
}

var _ ports.SummarySink = (*MultiSink)(nil)

// NewMultiSink agrupa sinks; los nil se ignoran.
func NewMultiSink(logger logx.Logger, sinks ...ports.Sink) *MultiSink {
	if logger == nil {
		logger = logx.Discard()
	}
	m := &MultiSink{logger: logger.With("component", "multi-sink")}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Len retorna el número de sinks agrupados.
func (m *MultiSink) Len() int { return len(m.sinks) }

// Open abre todos los sinks. Si uno falla, cierra los ya abiertos.
func (m *MultiSink) Open() error {
	for i, s := range m.sinks {
		if err := s.Open(); err != nil {
			var result *multierror.Error
			result = multierror.Append(result, err)
			for _, opened := range m.sinks[:i] {
				if cerr := opened.Close(); cerr != nil {
					result = multierror.Append(result, cerr)
				}
			}
			return result.ErrorOrNil()
		}
	}
	return nil
}

// Record escribe en todos los sinks aunque alguno falle. Solo retorna error si
// falla el primario; en ese caso incluye también los fallos de los espejos.
func (m *MultiSink) Record(sub domain.ConfirmedSubdomain) error {
	var result *multierror.Error
	primaryFailed := false

	for i, s := range m.sinks {
		err := s.Record(sub)
		if err == nil {
			continue
		}
		result = multierror.Append(result, err)
		if i == 0 {
			primaryFailed = true
			continue
		}
		m.mirrorFailures.Add(1)
		m.logger.Warn("mirror write failed", "name", sub.Name, "error", err.Error())
	}

	if !primaryFailed {
		return nil
	}
	return result.ErrorOrNil()
}

// MirrorFailures retorna cuántas escrituras fallaron en los espejos.
func (m *MultiSink) MirrorFailures() int64 {
	return m.mirrorFailures.Load()
}

// RecordSummary reenvía el resumen a los sinks que lo soportan.
func (m *MultiSink) RecordSummary(summary domain.ScanSummary) error {
	var result *multierror.Error
	for _, s := range m.sinks {
		ss, ok := s.(ports.SummarySink)
		if !ok {
			continue
		}
		if err := ss.RecordSummary(summary); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Close cierra todos los sinks.
func (m *MultiSink) Close() error {
	var result *multierror.Error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
