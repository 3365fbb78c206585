// internal/core/usecases/wildcard_detector.go
package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/logx"
)

// WildcardDetector averigua si la zona responde a cualquier nombre.
// Consulta una sola vez un label aleatorio que no debería existir.
type WildcardDetector struct {
	resolver ports.Resolver
	logger   logx.Logger
	label    func() string
}

// NewWildcardDetector crea el detector.
func NewWildcardDetector(resolver ports.Resolver, logger logx.Logger) *WildcardDetector {
	if logger == nil {
		logger = logx.Discard()
	}
	return &WildcardDetector{
		resolver: resolver,
		logger:   logger.With("component", "wildcard"),
		label:    ProbeLabel,
	}
}

// ProbeLabel genera un label de 32 caracteres hex (uuid v4 sin guiones).
func ProbeLabel() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Detect resuelve <probe>.<target>. Si resuelve, esas direcciones son el wildcard;
// si no, retorna nil. Una colisión con un registro real no se contempla.
func (d *WildcardDetector) Detect(ctx context.Context, target domain.Target) *domain.WildcardSet {
	probe := target.FQCN(d.label())

	outcome := d.resolver.Resolve(ctx, probe)
	addrs, ok := outcome.Addresses()
	if !ok {
		d.logger.Debug("no wildcard detected", "probe", probe)
		return nil
	}

	wc := domain.NewWildcardSet(addrs)
	d.logger.Info("wildcard detected", "target", target.Root, "addresses", wc.String())
	return wc
}
