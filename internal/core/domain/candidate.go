// internal/core/domain/candidate.go
package domain

// Candidate es una línea no vacía de la wordlist, ya recortada.
type Candidate struct {
	// Label es el texto decodificado de la línea
	Label string

	// Line es el número de línea (1-based) en el archivo original
	Line int64

	// Undecodable marca líneas que no se pudieron decodificar con el encoding
	// configurado. Cuentan como procesadas pero nunca se resuelven.
	Undecodable bool
}
