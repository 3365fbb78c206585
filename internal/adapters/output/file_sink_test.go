// internal/adapters/output/file_sink_test.go
package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/testutil"
)

func sub(name string, ips ...string) domain.ConfirmedSubdomain {
	return domain.ConfirmedSubdomain{
		Name:      name,
		Addresses: domain.MustParseAddressSet(ips...),
		FoundAt:   time.Now(),
	}
}

func TestFileSink_WritesOneNamePerLine(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir, domain.Target{Root: "example.com"}, nil)

	testutil.RequireNoError(t, s.Open(), "Open")
	testutil.AssertNoError(t, s.Record(sub("www.example.com", "1.2.3.4")), "Record www")
	testutil.AssertNoError(t, s.Record(sub("mail.example.com", "5.6.7.8")), "Record mail")

	// Visible en disco antes de Close
	lines := testutil.ReadLines(t, s.Path())
	testutil.AssertEqual(t, len(lines), 2, "lines before close")

	testutil.AssertNoError(t, s.Close(), "Close")
	testutil.AssertEqual(t, s.Path(), filepath.Join(dir, "found_example.com.txt"), "path")
	testutil.AssertEqual(t, s.Written(), 2, "written")

	raw, err := os.ReadFile(s.Path())
	testutil.RequireNoError(t, err, "read")
	testutil.AssertEqual(t, string(raw), "www.example.com\nmail.example.com\n", "content")
}

func TestFileSink_AppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	target := domain.Target{Root: "example.com"}

	for i := 0; i < 2; i++ {
		s := NewFileSink(dir, target, nil)
		testutil.RequireNoError(t, s.Open(), "Open")
		testutil.AssertNoError(t, s.Record(sub("www.example.com", "1.2.3.4")), "Record")
		testutil.AssertNoError(t, s.Close(), "Close")
	}

	lines := testutil.ReadLines(t, filepath.Join(dir, target.OutputName()))
	testutil.AssertEqual(t, len(lines), 2, "no truncation, no cross-run dedup")
}

func TestFileSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	s := NewFileSink(dir, domain.Target{Root: "example.com"}, nil)

	testutil.RequireNoError(t, s.Open(), "Open")
	defer s.Close()

	_, err := os.Stat(dir)
	testutil.AssertNoError(t, err, "directory created")
}

func TestFileSink_Errors(t *testing.T) {
	t.Run("record before open", func(t *testing.T) {
		s := NewFileSink(t.TempDir(), domain.Target{Root: "example.com"}, nil)
		err := s.Record(sub("www.example.com", "1.2.3.4"))
		testutil.AssertTrue(t, errors.Is(err, domain.ErrSinkWrite), "ErrSinkWrite")
	})

	t.Run("open on a file path", func(t *testing.T) {
		blocker := testutil.WriteFile(t, "blocker", []byte("x"))
		s := NewFileSink(blocker, domain.Target{Root: "example.com"}, nil)
		err := s.Open()
		testutil.AssertTrue(t, errors.Is(err, domain.ErrSinkOpen), "ErrSinkOpen")
	})

	t.Run("double close", func(t *testing.T) {
		s := NewFileSink(t.TempDir(), domain.Target{Root: "example.com"}, nil)
		testutil.RequireNoError(t, s.Open(), "Open")
		testutil.AssertNoError(t, s.Close(), "first Close")
		testutil.AssertNoError(t, s.Close(), "second Close")
	})
}

func TestFileSink_DefaultDir(t *testing.T) {
	s := NewFileSink("", domain.Target{Root: "example.com"}, nil)
	testutil.AssertEqual(t, s.Path(), "found_example.com.txt", "current directory")
}
