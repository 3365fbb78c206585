// internal/adapters/wordlist/wordlist.go
package wordlist

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/logx"
)

const (
	// DefaultChunkSize candidatos por chunk si no se configura.
	DefaultChunkSize = 10000

	readerBufferSize = 64 * 1024

	// ctxCheckEvery cada cuántas líneas Count mira la cancelación.
	ctxCheckEvery = 4096
)

// Options configura la lectura de la wordlist.
type Options struct {
	ChunkSize int
	Encoding  string // utf-8 | latin-1 | auto
	Logger    logx.Logger
}

// Wordlist lee candidatos de un archivo por chunks, sin cargarlo entero en memoria.
// Cada Chunks() vuelve a abrir el archivo desde el principio.
type Wordlist struct {
	path      string
	chunkSize int
	encoding  string
	logger    logx.Logger
}

var _ ports.Wordlist = (*Wordlist)(nil)

// New crea la wordlist sin tocar el disco; los errores de acceso aparecen en Count o Chunks.
func New(path string, opts Options) *Wordlist {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Logger == nil {
		opts.Logger = logx.Discard()
	}
	enc := strings.ToLower(strings.TrimSpace(opts.Encoding))
	if enc == "" {
		enc = EncodingUTF8
	}

	return &Wordlist{
		path:      path,
		chunkSize: opts.ChunkSize,
		encoding:  enc,
		logger:    opts.Logger.With("component", "wordlist", "path", path),
	}
}

// Open es New más una comprobación inmediata de que path es un archivo legible.
func Open(path string, opts Options) (*Wordlist, error) {
	w := New(path, opts)
	f, err := w.open()
	if err != nil {
		return nil, err
	}
	f.Close()
	return w, nil
}

// Path retorna la ruta del archivo.
func (w *Wordlist) Path() string { return w.path }

// Encoding retorna el encoding efectivo (auto se resuelve en la primera apertura).
func (w *Wordlist) Encoding() string { return w.encoding }

// Count cuenta las líneas no vacías tras recortar, con el mismo criterio que Chunks.
// Solo mantiene una línea en memoria a la vez.
func (w *Wordlist) Count(ctx context.Context) (int64, error) {
	f, err := w.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	lr := newLineReader(f, newDecoder(w.encoding))
	var n int64
	for {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		_, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("%w: %s: %v", domain.ErrSourceRead, w.path, err)
		}
		n++
	}

	w.logger.Debug("wordlist counted", "candidates", n, "encoding", w.encoding)
	return n, nil
}

// Chunks abre un lector nuevo desde el principio del archivo.
func (w *Wordlist) Chunks() (ports.ChunkSource, error) {
	f, err := w.open()
	if err != nil {
		return nil, err
	}

	return &ChunkReader{
		file:      f,
		lines:     newLineReader(f, newDecoder(w.encoding)),
		chunkSize: w.chunkSize,
		path:      w.path,
	}, nil
}

// open abre el archivo y, en modo auto, fija el encoding con la primera lectura.
// Ausente, ilegible o directorio: domain.ErrSourceNotFound.
func (w *Wordlist) open() (*os.File, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceNotFound, w.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrSourceNotFound, w.path)
	}

	f, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceNotFound, w.path, err)
	}

	if w.encoding == EncodingAuto {
		enc, charset, err := detectEncoding(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceNotFound, w.path, err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceRead, w.path, err)
		}
		w.encoding = enc
		w.logger.Info("wordlist encoding detected", "encoding", enc, "charset", charset)
	}

	return f, nil
}

// ChunkReader entrega la wordlist en chunks de hasta chunkSize candidatos, en orden.
// Implementa ports.ChunkSource.
type ChunkReader struct {
	file      *os.File
	lines     *lineReader
	chunkSize int
	path      string
	done      bool
}

// Next retorna el siguiente chunk o io.EOF cuando no quedan candidatos.
func (c *ChunkReader) Next() ([]domain.Candidate, error) {
	if c.done {
		return nil, io.EOF
	}

	chunk := make([]domain.Candidate, 0, c.chunkSize)
	for len(chunk) < c.chunkSize {
		cand, err := c.lines.next()
		if errors.Is(err, io.EOF) {
			c.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceRead, c.path, err)
		}
		chunk = append(chunk, cand)
	}

	if len(chunk) == 0 {
		return nil, io.EOF
	}
	return chunk, nil
}

// Close cierra el archivo.
func (c *ChunkReader) Close() error {
	c.done = true
	return c.file.Close()
}

// lineReader lee líneas sin límite de longitud, las decodifica y las recorta.
// Las líneas vacías tras el recorte se saltan.
type lineReader struct {
	r      *bufio.Reader
	decode lineDecoder
	buf    []byte
	line   int64
}

func newLineReader(r io.Reader, decode lineDecoder) *lineReader {
	return &lineReader{
		r:      bufio.NewReaderSize(r, readerBufferSize),
		decode: decode,
	}
}

func (lr *lineReader) next() (domain.Candidate, error) {
	for {
		raw, err := lr.readLine()
		if err != nil {
			return domain.Candidate{}, err
		}
		lr.line++
		if lr.line == 1 {
			raw = bytes.TrimPrefix(raw, utf8BOM)
		}

		text, ok := lr.decode(raw)
		if !ok {
			trimmed := bytes.TrimSpace(raw)
			if len(trimmed) == 0 {
				continue
			}
			return domain.Candidate{
				Label:       strings.ToValidUTF8(string(trimmed), "�"),
				Line:        lr.line,
				Undecodable: true,
			}, nil
		}

		label := strings.TrimSpace(text)
		if label == "" {
			continue
		}
		return domain.Candidate{Label: label, Line: lr.line}, nil
	}
}

// readLine devuelve una línea sin '\n'. El slice es válido hasta la siguiente llamada.
func (lr *lineReader) readLine() ([]byte, error) {
	lr.buf = lr.buf[:0]
	for {
		frag, err := lr.r.ReadSlice('\n')
		lr.buf = append(lr.buf, frag...)
		switch {
		case err == nil:
			return bytes.TrimSuffix(lr.buf, []byte{'\n'}), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(lr.buf) == 0 {
				return nil, io.EOF
			}
			return lr.buf, nil
		default:
			return nil, err
		}
	}
}
