// internal/core/ports/wordlist.go
package ports

import (
	"context"

	"dnsrake/internal/core/domain"
)

// Wordlist es la fuente de candidatos. Puede leerse varias veces desde disco.
type Wordlist interface {
	// Count recorre la wordlist una vez y cuenta las líneas no vacías sin retenerlas.
	// Falla con domain.ErrSourceNotFound si la ruta no existe o no es legible.
	Count(ctx context.Context) (int64, error)

	// Chunks abre un lector nuevo desde el principio.
	Chunks() (ChunkSource, error)
}

// ChunkSource es una secuencia perezosa, finita y forward-only de chunks.
type ChunkSource interface {
	// Next retorna hasta chunk_size candidatos en orden de archivo, o io.EOF al final.
	Next() ([]domain.Candidate, error)

	// Close libera el archivo subyacente
	Close() error
}
