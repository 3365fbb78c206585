// internal/core/domain/outcome.go
package domain

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// AddressSet es un conjunto ordenado y sin duplicados de direcciones.
// El valor cero es el conjunto vacío.
type AddressSet struct {
	addrs []netip.Addr
}

// NewAddressSet construye un conjunto; descarta direcciones inválidas y duplicados.
func NewAddressSet(addrs ...netip.Addr) AddressSet {
	valid := lo.Filter(addrs, func(a netip.Addr, _ int) bool { return a.IsValid() })
	valid = lo.Map(valid, func(a netip.Addr, _ int) netip.Addr { return a.Unmap() })
	uniq := lo.Uniq(valid)
	slices.SortFunc(uniq, func(a, b netip.Addr) int { return a.Compare(b) })
	return AddressSet{addrs: uniq}
}

// ParseAddressSet construye un conjunto a partir de strings ("1.2.3.4").
func ParseAddressSet(ips ...string) (AddressSet, error) {
	addrs := make([]netip.Addr, 0, len(ips))
	for _, s := range ips {
		a, err := netip.ParseAddr(strings.TrimSpace(s))
		if err != nil {
			return AddressSet{}, fmt.Errorf("parse address %q: %w", s, err)
		}
		addrs = append(addrs, a)
	}
	return NewAddressSet(addrs...), nil
}

// MustParseAddressSet es ParseAddressSet que hace panic ante un error. Para tests y constantes.
func MustParseAddressSet(ips ...string) AddressSet {
	s, err := ParseAddressSet(ips...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s AddressSet) Len() int { return len(s.addrs) }

func (s AddressSet) IsEmpty() bool { return len(s.addrs) == 0 }

// Addrs retorna una copia de las direcciones, ordenadas.
func (s AddressSet) Addrs() []netip.Addr {
	return slices.Clone(s.addrs)
}

// Strings retorna las direcciones como texto, ordenadas.
func (s AddressSet) Strings() []string {
	return lo.Map(s.addrs, func(a netip.Addr, _ int) string { return a.String() })
}

// Contains indica si a pertenece al conjunto.
func (s AddressSet) Contains(a netip.Addr) bool {
	_, found := slices.BinarySearchFunc(s.addrs, a.Unmap(), func(x, y netip.Addr) int { return x.Compare(y) })
	return found
}

// Equal compara dos conjuntos.
func (s AddressSet) Equal(o AddressSet) bool {
	return slices.Equal(s.addrs, o.addrs)
}

// String formatea el conjunto como {a, b}.
func (s AddressSet) String() string {
	return "{" + strings.Join(s.Strings(), ", ") + "}"
}

// Outcome es el resultado de resolver un nombre: Addresses(S) o Unresolved.
// Cualquier fallo (timeout, NXDOMAIN, SERVFAIL, respuesta inválida) es Unresolved.
type Outcome struct {
	addrs    AddressSet
	resolved bool
}

// Resolved construye Addresses(addrs). Un conjunto vacío equivale a Unresolved.
func Resolved(addrs AddressSet) Outcome {
	if addrs.IsEmpty() {
		return Unresolved()
	}
	return Outcome{addrs: addrs, resolved: true}
}

// Unresolved construye el caso sin respuesta.
func Unresolved() Outcome {
	return Outcome{}
}

// Addresses retorna el conjunto y true si el nombre resolvió.
func (o Outcome) Addresses() (AddressSet, bool) {
	return o.addrs, o.resolved
}

func (o Outcome) IsResolved() bool { return o.resolved }

func (o Outcome) String() string {
	if !o.resolved {
		return "Unresolved"
	}
	return "Addresses" + o.addrs.String()
}
