package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Config mirrors the observability.logging section.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// New builds a logger writing to w. Text output is colorized by tint.
func New(cfg Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Level)

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    w != os.Stdout && w != os.Stderr,
		})
	}

	return slog.New(handler)
}

// Init installs the process-wide logger and makes it slog's default.
func Init(cfg Config) *slog.Logger {
	l := New(cfg, os.Stdout)

	mu.Lock()
	defaultLogger = l
	mu.Unlock()

	slog.SetDefault(l)
	return l
}

func LoggerWrapper() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()

	if l == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		return Init(Config{Level: "debug", Format: "text"})
	}
	return l
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
