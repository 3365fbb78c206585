// internal/core/ports/progress.go
package ports

import "dnsrake/internal/core/domain"

// ProgressReporter consume el progreso del scan. Las llamadas nunca son concurrentes:
// Tick y Found llegan desde el único consumidor del coordinador.
type ProgressReporter interface {
	// Start se llama una vez, con el total del pre-scan
	Start(total int64)

	// Wildcard anuncia el resultado de la detección (nil = sin wildcard)
	Wildcard(wc *domain.WildcardSet)

	// Tick se emite exactamente una vez por candidato
	Tick(processed, total int64)

	// Found se emite por cada subdominio confirmado, después de persistirlo
	Found(sub domain.ConfirmedSubdomain)

	// Finish se llama solo si el run terminó normalmente
	Finish(summary domain.ScanSummary)
}
