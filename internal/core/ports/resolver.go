// internal/core/ports/resolver.go
package ports

import (
	"context"

	"dnsrake/internal/core/domain"
)

// Resolver es el port para resolver un nombre a direcciones A.
// Nunca devuelve errores distinguibles: cualquier fallo es domain.Unresolved().
type Resolver interface {
	Resolve(ctx context.Context, name string) domain.Outcome
}
