// Package logger provides a zerolog wrapper with console defaults for the
// report run and the API server
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Level     string
	Format    string // "console" or "json"
	Component string
	Writer    io.Writer
}

// FromEnv builds Options from LOG_LEVEL and LOG_FORMAT
func FromEnv() Options {
	return Options{
		Level:  envOr("LOG_LEVEL", "info"),
		Format: envOr("LOG_FORMAT", "console"),
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Get returns the process-wide root logger
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init builds the root logger, only the first call has an effect
func Init(opt Options) {
	once.Do(func() {
		l := New(opt)
		root.Store(&l)
		inited.Store(true)
	})
}

// New builds a standalone logger, used by Init and by tests that capture output
func New(opt Options) Logger {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.Writer != nil}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	return ctx.Logger()
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
