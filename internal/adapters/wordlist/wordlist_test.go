// internal/adapters/wordlist/wordlist_test.go
package wordlist

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/testutil"
)

func drain(t *testing.T, src ports.ChunkSource) [][]domain.Candidate {
	t.Helper()
	defer src.Close()

	var chunks [][]domain.Candidate
	for {
		chunk, err := src.Next()
		if errors.Is(err, io.EOF) {
			return chunks
		}
		testutil.RequireNoError(t, err, "Next")
		chunks = append(chunks, chunk)
	}
}

func labels(chunks [][]domain.Candidate) []string {
	var out []string
	for _, c := range chunks {
		for _, cand := range c {
			out = append(out, cand.Label)
		}
	}
	return out
}

func TestWordlist_CountTrimsAndSkipsEmpty(t *testing.T) {
	path := testutil.WriteWordlist(t, testutil.FixtureLabels...)
	wl := New(path, Options{})

	n, err := wl.Count(context.Background())
	testutil.RequireNoError(t, err, "Count")
	testutil.AssertEqual(t, n, int64(len(testutil.FixtureLabelsTrimmed)), "count")

	src, err := wl.Chunks()
	testutil.RequireNoError(t, err, "Chunks")
	got := labels(drain(t, src))
	testutil.AssertEqual(t, strings.Join(got, ","), strings.Join(testutil.FixtureLabelsTrimmed, ","), "labels in order")
}

func TestWordlist_ChunkSizes(t *testing.T) {
	tests := []struct {
		name      string
		lines     int
		chunkSize int
		want      []int
	}{
		{"exact multiple", 6, 3, []int{3, 3}},
		{"remainder", 7, 3, []int{3, 3, 1}},
		{"single chunk", 2, 10, []int{2}},
		{"one per chunk", 3, 1, []int{1, 1, 1}},
		{"empty file", 0, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []string
			for i := 0; i < tt.lines; i++ {
				lines = append(lines, "w"+strings.Repeat("x", i))
			}
			path := testutil.WriteFile(t, "words.txt", []byte(strings.Join(lines, "\n")))
			wl := New(path, Options{ChunkSize: tt.chunkSize})

			src, err := wl.Chunks()
			testutil.RequireNoError(t, err, "Chunks")
			chunks := drain(t, src)

			testutil.AssertLen(t, chunks, len(tt.want), "number of chunks")
			for i := range chunks {
				if i < len(tt.want) {
					testutil.AssertLen(t, chunks[i], tt.want[i], "chunk size")
				}
			}

			n, err := wl.Count(context.Background())
			testutil.RequireNoError(t, err, "Count")
			testutil.AssertEqual(t, n, int64(tt.lines), "count matches chunks")
		})
	}
}

func TestWordlist_LineNumbers(t *testing.T) {
	path := testutil.WriteWordlist(t, "a", "", "  ", "b")
	src, err := New(path, Options{}).Chunks()
	testutil.RequireNoError(t, err, "Chunks")

	chunks := drain(t, src)
	testutil.AssertLen(t, chunks, 1, "chunks")
	testutil.AssertEqual(t, chunks[0][0].Line, int64(1), "line of a")
	testutil.AssertEqual(t, chunks[0][1].Line, int64(4), "line of b")
}

func TestWordlist_CRLFAndBOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("www\r\nmail\r\n\r\napi")...)
	path := testutil.WriteFile(t, "crlf.txt", content)

	src, err := New(path, Options{}).Chunks()
	testutil.RequireNoError(t, err, "Chunks")
	got := labels(drain(t, src))
	testutil.AssertEqual(t, strings.Join(got, ","), "www,mail,api", "labels")
}

func TestWordlist_LongLines(t *testing.T) {
	long := strings.Repeat("a", 3*readerBufferSize+17)
	path := testutil.WriteWordlist(t, "short", long, "tail")
	wl := New(path, Options{})

	n, err := wl.Count(context.Background())
	testutil.RequireNoError(t, err, "Count")
	testutil.AssertEqual(t, n, int64(3), "count")

	src, err := wl.Chunks()
	testutil.RequireNoError(t, err, "Chunks")
	got := labels(drain(t, src))
	testutil.AssertLen(t, got, 3, "labels")
	testutil.AssertEqual(t, len(got[1]), len(long), "long line kept whole")
	testutil.AssertEqual(t, got[2], "tail", "line after long line")
}

func TestWordlist_UTF8Undecodable(t *testing.T) {
	content := []byte("www\ncaf\xe9\nmail\n")
	path := testutil.WriteFile(t, "mixed.txt", content)
	wl := New(path, Options{Encoding: EncodingUTF8})

	n, err := wl.Count(context.Background())
	testutil.RequireNoError(t, err, "Count")
	testutil.AssertEqual(t, n, int64(3), "undecodable lines still counted")

	src, err := wl.Chunks()
	testutil.RequireNoError(t, err, "Chunks")
	chunks := drain(t, src)
	testutil.AssertLen(t, chunks, 1, "chunks")

	c := chunks[0]
	testutil.AssertFalse(t, c[0].Undecodable, "www decodes")
	testutil.AssertTrue(t, c[1].Undecodable, "latin-1 byte is not utf-8")
	testutil.AssertEqual(t, c[1].Line, int64(2), "line number")
	testutil.AssertFalse(t, c[2].Undecodable, "mail decodes")
}

func TestWordlist_Latin1(t *testing.T) {
	content := []byte("caf\xe9\nni\xf1o\n")
	path := testutil.WriteFile(t, "latin1.txt", content)
	wl := New(path, Options{Encoding: EncodingLatin1})

	src, err := wl.Chunks()
	testutil.RequireNoError(t, err, "Chunks")
	chunks := drain(t, src)
	testutil.AssertLen(t, chunks, 1, "chunks")
	testutil.AssertEqual(t, chunks[0][0].Label, "café", "decoded é")
	testutil.AssertEqual(t, chunks[0][1].Label, "niño", "decoded ñ")
	testutil.AssertFalse(t, chunks[0][0].Undecodable, "latin-1 never fails")
}

func TestWordlist_AutoDetectUTF8(t *testing.T) {
	path := testutil.WriteWordlist(t, "www", "café", "mail")
	wl := New(path, Options{Encoding: EncodingAuto})

	n, err := wl.Count(context.Background())
	testutil.RequireNoError(t, err, "Count")
	testutil.AssertEqual(t, n, int64(3), "count")
	testutil.AssertEqual(t, wl.Encoding(), EncodingUTF8, "valid utf-8 sample")

	src, err := wl.Chunks()
	testutil.RequireNoError(t, err, "Chunks")
	got := labels(drain(t, src))
	testutil.AssertEqual(t, got[1], "café", "utf-8 label")
}

func TestWordlist_AutoDetectNonUTF8(t *testing.T) {
	content := []byte("www\ncaf\xe9\nma\xf1ana\n")
	path := testutil.WriteFile(t, "auto.txt", content)
	wl := New(path, Options{Encoding: EncodingAuto})

	n, err := wl.Count(context.Background())
	testutil.RequireNoError(t, err, "Count")
	testutil.AssertEqual(t, n, int64(3), "count")
	testutil.AssertNotEqual(t, wl.Encoding(), EncodingAuto, "auto resolved")

	src, err := wl.Chunks()
	testutil.RequireNoError(t, err, "Chunks")
	chunks := drain(t, src)
	testutil.AssertLen(t, labels(chunks), 3, "every line yields a candidate")
}

func TestWordlist_SourceNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")
	dir := t.TempDir()

	for name, path := range map[string]string{"missing": missing, "directory": dir} {
		t.Run(name, func(t *testing.T) {
			wl := New(path, Options{})

			_, err := wl.Count(context.Background())
			testutil.AssertTrue(t, errors.Is(err, domain.ErrSourceNotFound), "Count error kind")

			_, err = wl.Chunks()
			testutil.AssertTrue(t, errors.Is(err, domain.ErrSourceNotFound), "Chunks error kind")
			testutil.AssertContains(t, err.Error(), path, "error names the path")

			opened, err := Open(path, Options{})
			testutil.AssertTrue(t, errors.Is(err, domain.ErrSourceNotFound), "Open error kind")
			testutil.AssertNil(t, opened, "no wordlist on error")
		})
	}
}

func TestWordlist_ChunksRestart(t *testing.T) {
	path := testutil.WriteWordlist(t, "a", "b", "c")
	wl := New(path, Options{ChunkSize: 2})

	first, err := wl.Chunks()
	testutil.RequireNoError(t, err, "first Chunks")
	second, err := wl.Chunks()
	testutil.RequireNoError(t, err, "second Chunks")

	testutil.AssertEqual(t, strings.Join(labels(drain(t, first)), ""), "abc", "first pass")
	testutil.AssertEqual(t, strings.Join(labels(drain(t, second)), ""), "abc", "second pass")
}

func TestWordlist_NextAfterEOF(t *testing.T) {
	path := testutil.WriteWordlist(t, "a")
	src, err := New(path, Options{}).Chunks()
	testutil.RequireNoError(t, err, "Chunks")
	defer src.Close()

	_, err = src.Next()
	testutil.AssertNoError(t, err, "first Next")
	_, err = src.Next()
	testutil.AssertTrue(t, errors.Is(err, io.EOF), "EOF")
	_, err = src.Next()
	testutil.AssertTrue(t, errors.Is(err, io.EOF), "EOF stays")
}

func TestWordlist_CountCanceled(t *testing.T) {
	path := testutil.WriteWordlist(t, "a", "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(path, Options{}).Count(ctx)
	testutil.AssertTrue(t, errors.Is(err, context.Canceled), "canceled context")
}

func TestValidUTF8Prefix(t *testing.T) {
	euro := []byte("€") // 3 bytes
	tests := []struct {
		name      string
		in        []byte
		truncated bool
		want      bool
	}{
		{"ascii", []byte("abc"), false, true},
		{"cut rune, truncated sample", append([]byte("ab"), euro[:2]...), true, true},
		{"cut rune, full file", append([]byte("ab"), euro[:2]...), false, false},
		{"latin-1 byte", []byte("caf\xe9 ok"), true, false},
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, 'a'), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, validUTF8Prefix(tt.in, tt.truncated), tt.want, "validUTF8Prefix")
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	wl := New("x.txt", Options{Encoding: " UTF-8 "})
	testutil.AssertEqual(t, wl.chunkSize, DefaultChunkSize, "default chunk size")
	testutil.AssertEqual(t, wl.Encoding(), EncodingUTF8, "normalized encoding")
	testutil.AssertEqual(t, wl.Path(), "x.txt", "path")

	_, err := os.Stat("x.txt")
	testutil.AssertTrue(t, os.IsNotExist(err), "New does not touch the disk")
}

func TestOpen_ExistingFile(t *testing.T) {
	path := testutil.WriteWordlist(t, "www")
	wl, err := Open(path, Options{Encoding: EncodingAuto})
	testutil.RequireNoError(t, err, "Open")
	testutil.AssertEqual(t, wl.Encoding(), EncodingUTF8, "auto resolved on open")
}
