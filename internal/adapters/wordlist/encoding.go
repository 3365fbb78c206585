// internal/adapters/wordlist/encoding.go
package wordlist

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
)

// Encodings admitidos.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
	EncodingAuto   = "auto"
)

// sniffSize es cuánto se lee para detectar el encoding.
const sniffSize = 64 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// lineDecoder convierte una línea cruda a texto. ok=false marca la línea como no decodificable.
type lineDecoder func(raw []byte) (text string, ok bool)

func newDecoder(encoding string) lineDecoder {
	if encoding == EncodingLatin1 {
		// Un Decoder de x/text no es seguro entre goroutines: uno por lector.
		dec := charmap.ISO8859_1.NewDecoder()
		return func(raw []byte) (string, bool) {
			out, err := dec.Bytes(raw)
			if err != nil {
				return "", false
			}
			return string(out), true
		}
	}

	return func(raw []byte) (string, bool) {
		if !utf8.Valid(raw) {
			return "", false
		}
		return string(raw), true
	}
}

// detectEncoding decide entre utf-8 y latin-1 a partir de una muestra.
// Una muestra UTF-8 válida gana siempre; si no, chardet decide.
// Devuelve además el charset que reportó chardet (vacío si no se consultó).
func detectEncoding(r io.Reader) (encoding string, charset string, err error) {
	sample := make([]byte, sniffSize)
	n, err := io.ReadFull(r, sample)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", "", err
	}
	sample = sample[:n]

	if validUTF8Prefix(sample, n == sniffSize) {
		return EncodingUTF8, "", nil
	}

	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil {
		// Sin veredicto: latin-1 nunca falla al decodificar.
		return EncodingLatin1, "", nil
	}

	cs := strings.ToUpper(res.Charset)
	switch {
	case strings.HasPrefix(cs, "ISO-8859"), strings.HasPrefix(cs, "WINDOWS-125"):
		return EncodingLatin1, res.Charset, nil
	default:
		return EncodingUTF8, res.Charset, nil
	}
}

// validUTF8Prefix tolera una runa cortada al final si la muestra se truncó.
func validUTF8Prefix(b []byte, truncated bool) bool {
	b = bytes.TrimPrefix(b, utf8BOM)
	if truncated {
		for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
			if utf8.RuneStart(b[len(b)-i]) {
				if !utf8.FullRune(b[len(b)-i:]) {
					b = b[:len(b)-i]
				}
				break
			}
		}
	}
	return utf8.Valid(b)
}
