// internal/platform/logx/logx_test.go
package logx

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	logger := New()
	if logger == nil {
		t.Fatal("New() should return a logger, got nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"dbg", LevelDebug},
		{"  debug  ", LevelDebug},

		{"info", LevelInfo},
		{"inf", LevelInfo},
		{"", LevelInfo}, // empty defaults to Info

		{"warn", LevelWarn},
		{"Warning", LevelWarn},

		{"err", LevelError},
		{"ERROR", LevelError},

		{"invalid", LevelInfo},
		{"random", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	f := fields("a", 1, "b", "two", "dangling")

	if f["a"] != 1 {
		t.Errorf("expected a=1, got %v", f["a"])
	}
	if f["b"] != "two" {
		t.Errorf("expected b=two, got %v", f["b"])
	}
	if f["dangling"] != "(missing)" {
		t.Errorf("expected dangling=(missing), got %v", f["dangling"])
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelDebug)

	scoped := logger.With("component", "resolver")
	scoped.Info("query sent", "server", "1.1.1.1:53")

	out := buf.String()
	for _, want := range []string{"component=resolver", "server=\"1.1.1.1:53\"", "query sent"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}

func TestLogger_With_Immutable(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelInfo)

	_ = logger.With("scope", "child")
	logger.Info("parent message")

	if strings.Contains(buf.String(), "scope=child") {
		t.Errorf("parent logger should not inherit child fields: %q", buf.String())
	}
}

func TestLogger_Err(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelInfo)

	logger.Err(errors.New("boom"), "phase", "run")

	out := buf.String()
	if !strings.Contains(out, "boom") {
		t.Errorf("expected error text in output, got %q", out)
	}
	if !strings.Contains(out, "phase=run") {
		t.Errorf("expected phase field in output, got %q", out)
	}
}

func TestLogger_Err_Nil(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelDebug)

	logger.Err(nil, "phase", "run")

	if buf.Len() != 0 {
		t.Errorf("nil error should not be logged, got %q", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug shows all", LevelDebug, true, true, true},
		{"info hides debug", LevelInfo, false, true, true},
		{"warn hides info", LevelWarn, false, false, true},
		{"error hides warn", LevelError, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, tt.level)

			logger.Debug("debug-line")
			logger.Info("info-line")
			logger.Warn("warn-line")

			out := buf.String()
			if got := strings.Contains(out, "debug-line"); got != tt.wantDebug {
				t.Errorf("debug visible = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info-line"); got != tt.wantInfo {
				t.Errorf("info visible = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "warn-line"); got != tt.wantWarn {
				t.Errorf("warn visible = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestLogger_SetLevel_SharedWithClones(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelInfo)
	child := logger.With("component", "sink")

	logger.SetLevel(LevelDebug)
	child.Debug("now visible")

	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("clone should follow parent level, got %q", buf.String())
	}
}

func TestLogger_ThreadSafety(t *testing.T) {
	var buf syncBuffer
	logger := NewWithWriter(&buf, LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("concurrent", "n", n)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "concurrent"); got != 50 {
		t.Errorf("expected 50 lines, got %d", got)
	}
}

func TestNew_WithEnv(t *testing.T) {
	old, had := os.LookupEnv(EnvLevel)
	defer func() {
		if had {
			os.Setenv(EnvLevel, old)
		} else {
			os.Unsetenv(EnvLevel)
		}
	}()

	os.Setenv(EnvLevel, "error")
	impl := New().(*logrusLogger)

	if impl.entry.Logger.GetLevel().String() != "error" {
		t.Errorf("expected error level from env, got %s", impl.entry.Logger.GetLevel())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
