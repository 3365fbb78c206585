// internal/core/domain/target.go
package domain

import (
	"fmt"
	"strings"

	"dnsrake/internal/platform/validator"
)

// Target representa la zona objetivo del brute-force. Inmutable durante el run.
type Target struct {
	// Root es el dominio raíz objetivo, en forma ASCII (punycode) y minúsculas
	Root string
}

// NewTarget crea un nuevo target sin validar.
func NewTarget(root string) *Target {
	return &Target{Root: root}
}

// Validate normaliza Root (IDN -> punycode, minúsculas, sin punto final)
// y verifica que sea un dominio.
func (t *Target) Validate() error {
	if strings.TrimSpace(t.Root) == "" {
		return ErrEmptyTarget
	}

	// Normalizar usando validator centralizado
	root, err := validator.NormalizeDomain(t.Root)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDomain, t.Root)
	}

	// Validar formato de dominio usando validator centralizado
	if !validator.IsDomain(root) {
		return fmt.Errorf("%w: %s", ErrInvalidDomain, root)
	}

	t.Root = root
	return nil
}

// FQCN forma el nombre completo de un candidato: label + "." + Root.
func (t Target) FQCN(label string) string {
	return label + "." + t.Root
}

// IsPublicSuffix indica si el target es en sí mismo un sufijo público (com, co.uk...).
func (t Target) IsPublicSuffix() bool {
	return validator.IsPublicSuffix(t.Root)
}

// OutputName es el nombre base del archivo de resultados.
func (t Target) OutputName() string {
	return "found_" + t.Root + ".txt"
}

// String retorna una representación legible del target.
func (t Target) String() string {
	return t.Root
}
