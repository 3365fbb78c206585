// internal/platform/resilience/circuit_breaker.go
package resilience

import (
	"sync"
	"time"
)

// State representa el estado del circuit breaker.
type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Failing, skipped
	StateHalfOpen              // Probing if the upstream recovered
)

// CircuitBreaker aparta un upstream tras N fallos de transporte consecutivos
// durante un cooldown. Un *CircuitBreaker nil está siempre cerrado.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           State
	failureCount    int
	probing         bool
	lastFailureTime time.Time
	lastSuccessTime time.Time
	opens           int

	// Config
	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time
}

// NewCircuitBreaker crea un nuevo circuit breaker.
func NewCircuitBreaker(failureThreshold int, cooldown time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		now:              time.Now,
	}
}

// Allow verifica si una consulta puede ir a este upstream.
// Tras el cooldown se deja pasar una única consulta de prueba (half-open).
func (cb *CircuitBreaker) Allow() bool {
	if cb == nil {
		return true
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) >= cb.cooldown {
			cb.state = StateHalfOpen
			cb.probing = true
			return true
		}
		return false

	case StateHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true

	default:
		return false
	}
}

// RecordSuccess registra una respuesta válida del upstream (incluye NXDOMAIN).
func (cb *CircuitBreaker) RecordSuccess() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastSuccessTime = cb.now()
	cb.failureCount = 0
	cb.probing = false
	cb.state = StateClosed
}

// RecordFailure registra un fallo de transporte o un SERVFAIL/REFUSED.
func (cb *CircuitBreaker) RecordFailure() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = cb.now()
	cb.failureCount++

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.failureThreshold {
			cb.state = StateOpen
			cb.opens++
		}

	case StateHalfOpen:
		// La prueba falló: vuelve a abrirse un cooldown completo.
		cb.state = StateOpen
		cb.probing = false
		cb.opens++
	}
}

// State retorna el estado actual del circuit breaker.
func (cb *CircuitBreaker) State() State {
	if cb == nil {
		return StateClosed
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset resetea el circuit breaker al estado cerrado.
func (cb *CircuitBreaker) Reset() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failureCount = 0
	cb.probing = false
}

// Stats retorna estadísticas del circuit breaker.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	if cb == nil {
		return CircuitBreakerStats{}
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerStats{
		State:           cb.state,
		FailureCount:    cb.failureCount,
		Opens:           cb.opens,
		LastFailureTime: cb.lastFailureTime,
		LastSuccessTime: cb.lastSuccessTime,
	}
}

// CircuitBreakerStats contiene estadísticas del circuit breaker.
type CircuitBreakerStats struct {
	State           State
	FailureCount    int
	Opens           int
	LastFailureTime time.Time
	LastSuccessTime time.Time
}

// String retorna una representación legible del estado.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
