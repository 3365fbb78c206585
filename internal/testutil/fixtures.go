// internal/testutil/fixtures.go
package testutil

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureDomains contiene dominios de prueba válidos.
var FixtureDomains = []string{
	"example.com",
	"test.example.com",
	"sub-domain.example.co.uk",
	"xn--bcher-kva.example",
}

// FixtureInvalidDomains contiene dominios inválidos.
var FixtureInvalidDomains = []string{
	"",
	"not a domain",
	"192.168.1.1",
	"2001:db8::1",
	"-invalid.com",
	"invalid-.com",
	".example.com",
	"example..com",
}

// FixtureLabels es una wordlist pequeña con el formato típico (incluye ruido de espacios).
var FixtureLabels = []string{
	"www",
	"  mail  ",
	"",
	"api",
	"\tdev",
	"staging\r",
}

// FixtureLabelsTrimmed es FixtureLabels tras el recorte y sin líneas vacías.
var FixtureLabelsTrimmed = []string{
	"www",
	"mail",
	"api",
	"dev",
	"staging",
}
