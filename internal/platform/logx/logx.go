// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// EnvLevel es la variable de entorno que fija el nivel por defecto.
const EnvLevel = "DNSRAKE_LOG_LEVEL"

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

// logrusLogger adapta un *logrus.Entry a la interfaz Logger.
// Los clones creados con With comparten el mismo *logrus.Logger (y por tanto el nivel).
type logrusLogger struct {
	entry *logrus.Entry
}

func New() Logger {
	return NewWithLevel(ParseLevel(os.Getenv(EnvLevel)))
}

// NewWithLevel creates a logger with a specific log level
func NewWithLevel(lvl Level) Logger {
	return NewWithWriter(os.Stderr, lvl)
}

// NewWithWriter crea un logger que escribe en w. Usado por tests y por la UI.
func NewWithWriter(w io.Writer, lvl Level) Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05",
		DisableSorting:   true,
		DisableColors:    !isTerminal(w),
		QuoteEmptyFields: true,
	})
	base.SetLevel(toLogrus(lvl))
	return &logrusLogger{entry: logrus.NewEntry(base)}
}

// NewSilent creates a logger that only outputs errors (silent mode for UI)
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() Logger {
	return NewWithWriter(io.Discard, LevelError)
}

func (l *logrusLogger) With(kv ...any) Logger {
	return &logrusLogger{entry: l.entry.WithFields(fields(kv...))}
}

func (l *logrusLogger) SetLevel(lvl Level) {
	l.entry.Logger.SetLevel(toLogrus(lvl))
}

func (l *logrusLogger) Debug(msg string, kv ...any) { l.entry.WithFields(fields(kv...)).Debug(msg) }
func (l *logrusLogger) Info(msg string, kv ...any)  { l.entry.WithFields(fields(kv...)).Info(msg) }
func (l *logrusLogger) Warn(msg string, kv ...any)  { l.entry.WithFields(fields(kv...)).Warn(msg) }
func (l *logrusLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	l.entry.WithFields(fields(kv...)).WithError(err).Error("")
}

// fields convierte pares key/value en logrus.Fields.
// Una clave sin valor queda como "(missing)".
func fields(kv ...any) logrus.Fields {
	out := make(logrus.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		k := fmt.Sprintf("%v", kv[i])
		if i+1 < len(kv) {
			out[k] = kv[i+1]
		} else {
			out[k] = "(missing)"
		}
	}
	return out
}

func toLogrus(l Level) logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel convierte un nombre de nivel; valores desconocidos devuelven LevelInfo.
func ParseLevel(s string) Level {
	lvl, _ := LookupLevel(s)
	return lvl
}

// LookupLevel es ParseLevel indicando si el nombre era conocido.
func LookupLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug, true
	case "info", "inf", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "err", "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}
