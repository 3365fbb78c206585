// internal/core/domain/wildcard.go
package domain

import (
	"github.com/samber/lo"
	"go4.org/netipx"
)

// WildcardSet es el conjunto de direcciones devuelto por un registro comodín.
// Se construye una vez antes del scan y después solo se lee, sin locks.
// Un *WildcardSet nil significa "sin wildcard".
type WildcardSet struct {
	addrs AddressSet
	set   *netipx.IPSet
}

// NewWildcardSet retorna nil cuando addrs está vacío: un wildcard vacío no filtra nada.
func NewWildcardSet(addrs AddressSet) *WildcardSet {
	if addrs.IsEmpty() {
		return nil
	}

	var b netipx.IPSetBuilder
	for _, a := range addrs.addrs {
		b.Add(a)
	}
	set, err := b.IPSet()
	if err != nil {
		// IPSetBuilder solo falla con prefijos inválidos; addrs ya está validado.
		return nil
	}

	return &WildcardSet{addrs: addrs, set: set}
}

// Explains indica si s está completamente contenido en el wildcard (s ⊆ W).
// Un solapamiento parcial no basta: el nombre tiene registros propios.
func (w *WildcardSet) Explains(s AddressSet) bool {
	if w == nil || s.IsEmpty() {
		return false
	}
	return lo.EveryBy(s.addrs, w.set.Contains)
}

// Addresses retorna las direcciones del wildcard (vacío si nil).
func (w *WildcardSet) Addresses() AddressSet {
	if w == nil {
		return AddressSet{}
	}
	return w.addrs
}

func (w *WildcardSet) String() string {
	if w == nil {
		return "none"
	}
	return w.addrs.String()
}
