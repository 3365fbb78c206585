// internal/platform/validator/validator.go
package validator

import (
	"fmt"
	"net"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// DefaultDNSPort se añade a los nameservers sin puerto explícito.
const DefaultDNSPort = "53"

// Límites RFC 1035.
const (
	MaxNameLength  = 253
	MaxLabelLength = 63
)

var (
	domainRegex = regexp.MustCompile(`^([a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)
	labelRegex  = regexp.MustCompile(`^[a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9_])?$`)
)

// Domain validators

// IsDomain verifica si un string es un dominio válido en forma ASCII (punycode incluido).
// Los labels internos admiten '_' (p.ej. _dmarc.example.com).
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > MaxNameLength {
		return false
	}

	if !domainRegex.MatchString(domain) {
		return false
	}

	// Verificar que no sea una IP
	if _, err := netip.ParseAddr(domain); err == nil {
		return false
	}

	return true
}

// IsLabel verifica un único label DNS (sin puntos).
func IsLabel(label string) bool {
	return labelRegex.MatchString(label)
}

// ToASCIIName convierte a punycode los labels no ASCII de un nombre (café → xn--caf-dma).
// Los nombres ya ASCII se devuelven intactos: el perfil Lookup rechazaría '_'.
func ToASCIIName(name string) (string, error) {
	if isASCII(name) {
		return name, nil
	}

	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(name, "."))
	if err != nil {
		return "", fmt.Errorf("idna %q: %w", name, err)
	}
	return ascii, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// NormalizeDomain normaliza un dominio a su forma canónica ASCII.
// Los nombres internacionales se convierten a punycode con el perfil Lookup de IDNA.
// No elimina "www.": en un brute-force el target es literal.
func NormalizeDomain(domain string) (string, error) {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return "", fmt.Errorf("empty domain")
	}

	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("idna %q: %w", domain, err)
	}

	return strings.ToLower(ascii), nil
}

// IsPublicSuffix indica si domain es en sí mismo un sufijo público (com, co.uk, github.io...).
// Escanear un sufijo público casi nunca es lo que el usuario quiere.
func IsPublicSuffix(domain string) bool {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false
	}
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return suffix == domain
}

// Network validators

// IsIP verifica si un string es una dirección IP válida (v4 o v6).
func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsPort valida que un puerto esté en el rango válido [1-65535].
func IsPort(portStr string) bool {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}
	return port >= 1 && port <= 65535
}

// NormalizeNameserver convierte "host", "host:port", "ipv6" o "[ipv6]:port"
// a la forma host:port que espera el cliente DNS.
func NormalizeNameserver(server string) (string, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return "", fmt.Errorf("empty nameserver")
	}

	if ap, err := netip.ParseAddrPort(server); err == nil {
		if ap.Port() == 0 {
			return "", fmt.Errorf("nameserver %q: port 0", server)
		}
		return ap.String(), nil
	}

	if addr, err := netip.ParseAddr(server); err == nil {
		return net.JoinHostPort(addr.String(), DefaultDNSPort), nil
	}

	host, port, err := net.SplitHostPort(server)
	if err != nil {
		if IsDomain(server) {
			return net.JoinHostPort(strings.ToLower(server), DefaultDNSPort), nil
		}
		return "", fmt.Errorf("nameserver %q: not an address or hostname", server)
	}

	if !IsPort(port) {
		return "", fmt.Errorf("nameserver %q: invalid port %q", server, port)
	}
	if !IsDomain(host) {
		return "", fmt.Errorf("nameserver %q: invalid host %q", server, host)
	}
	return net.JoinHostPort(strings.ToLower(host), port), nil
}

// Generic validators

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
