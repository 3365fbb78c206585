// internal/platform/resilience/breaker_set.go
package resilience

import "time"

// BreakerSet agrupa un breaker por upstream. Con threshold <= 0 está deshabilitado
// y For devuelve nil (breaker siempre cerrado).
type BreakerSet struct {
	breakers map[string]*CircuitBreaker
}

// NewBreakerSet crea un breaker para cada clave.
func NewBreakerSet(keys []string, threshold int, cooldown time.Duration) *BreakerSet {
	s := &BreakerSet{}
	if threshold <= 0 {
		return s
	}
	s.breakers = make(map[string]*CircuitBreaker, len(keys))
	for _, k := range keys {
		s.breakers[k] = NewCircuitBreaker(threshold, cooldown)
	}
	return s
}

// For retorna el breaker de key, o nil.
func (s *BreakerSet) For(key string) *CircuitBreaker {
	if s == nil || s.breakers == nil {
		return nil
	}
	return s.breakers[key]
}

// Enabled indica si hay breakers activos.
func (s *BreakerSet) Enabled() bool {
	return s != nil && len(s.breakers) > 0
}

// Open retorna las claves cuyo breaker está abierto ahora mismo.
func (s *BreakerSet) Open() []string {
	if !s.Enabled() {
		return nil
	}
	var out []string
	for k, cb := range s.breakers {
		if cb.State() == StateOpen {
			out = append(out, k)
		}
	}
	return out
}
