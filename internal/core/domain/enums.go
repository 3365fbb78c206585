// internal/core/domain/enums.go
package domain

// ScanStatus define el estado final de un run.
type ScanStatus string

const (
	// ScanStatusRunning el run sigue en curso
	ScanStatusRunning ScanStatus = "running"

	// ScanStatusCompleted todos los candidatos fueron procesados
	ScanStatusCompleted ScanStatus = "completed"

	// ScanStatusCanceled el run se interrumpió (señal o timeout global)
	ScanStatusCanceled ScanStatus = "canceled"

	// ScanStatusFailed el run abortó por un error fatal
	ScanStatusFailed ScanStatus = "failed"
)

// IsValid verifica si el estado es válido.
func (s ScanStatus) IsValid() bool {
	switch s {
	case ScanStatusRunning, ScanStatusCompleted, ScanStatusCanceled, ScanStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal indica si el run ya terminó.
func (s ScanStatus) IsTerminal() bool {
	return s == ScanStatusCompleted || s == ScanStatusCanceled || s == ScanStatusFailed
}

// String retorna la representación string del estado.
func (s ScanStatus) String() string {
	return string(s)
}
