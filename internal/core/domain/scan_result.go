// internal/core/domain/scan_result.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ConfirmedSubdomain es un FQCN que resolvió a direcciones no explicadas por el wildcard.
type ConfirmedSubdomain struct {
	// Name es el FQCN tal como se consultó
	Name string

	// Addresses direcciones A devueltas
	Addresses AddressSet

	// FoundAt momento en que se confirmó
	FoundAt time.Time
}

// Key es la clave de deduplicación (insensible a mayúsculas).
func (c ConfirmedSubdomain) Key() string {
	return strings.ToLower(c.Name)
}

// ScanSummary resume un run. En cancelación contiene los valores parciales.
type ScanSummary struct {
	// Target zona escaneada
	Target string

	// Status estado final del run
	Status ScanStatus

	// Confirmed número de subdominios confirmados
	Confirmed int

	// Processed candidatos procesados (ticks emitidos)
	Processed int64

	// Total candidatos según el pre-scan
	Total int64

	// Undecodable líneas saltadas por encoding
	Undecodable int64

	// Wildcard direcciones del wildcard detectado (vacío si no hay)
	Wildcard AddressSet

	// StartTime momento de inicio del escaneo
	StartTime time.Time

	// Elapsed duración total
	Elapsed time.Duration
}

// Complete indica si se procesaron todos los candidatos.
func (s ScanSummary) Complete() bool {
	return s.Processed == s.Total
}

// FormatElapsed formatea Elapsed como "Xm Ys".
func FormatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// String retorna la línea de resumen final.
func (s ScanSummary) String() string {
	return fmt.Sprintf("Found %d subs in %s", s.Confirmed, FormatElapsed(s.Elapsed))
}
