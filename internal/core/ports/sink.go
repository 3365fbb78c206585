// internal/core/ports/sink.go
package ports

import "dnsrake/internal/core/domain"

// Sink es el port de almacenamiento de resultados confirmados.
// Append-only: Open nunca trunca resultados de runs anteriores y cada Record
// queda persistido antes de retornar.
type Sink interface {
	// Open abre el almacenamiento una vez por run
	Open() error

	// Record persiste un subdominio confirmado
	Record(sub domain.ConfirmedSubdomain) error

	// Close cierra el almacenamiento
	Close() error
}

// SummarySink es opcional: sinks que además guardan el resumen del run.
// El runner lo detecta mediante type assertion antes de Close.
type SummarySink interface {
	Sink

	RecordSummary(summary domain.ScanSummary) error
}
