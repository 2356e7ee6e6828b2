package logging

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const historySize = 1000

// Logger is a duck-typed interface satisfied by *slog.Logger. Packages that
// only emit logs can depend on this instead of the concrete type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

var (
	mu            sync.RWMutex
	globalConfig  Config
	initialized   bool
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevels  = make(map[string]*slog.LevelVar)
	history       *RingBuffer
)

// Initialize sets up the logging system. Loggers created before Initialize
// are rebuilt so they pick up the configured format and levels.
func Initialize(config Config) {
	mu.Lock()
	defer mu.Unlock()

	globalConfig = config
	initialized = true
	history = NewRingBuffer(historySize)

	for module, levelVar := range moduleLevels {
		levelVar.Set(levelFor(config, module))
		moduleLoggers[module] = slog.New(newHandler(config.Format, levelVar)).With("module", module)
	}

	rootLevel := &slog.LevelVar{}
	rootLevel.Set(parseLevel(config.Level))
	slog.SetDefault(slog.New(newHandler(config.Format, rootLevel)))
}

// UpdateLevels applies new global and per-module levels to existing loggers
// without recreating them. Used by the config watcher for runtime changes.
func UpdateLevels(config Config) {
	mu.Lock()
	defer mu.Unlock()

	globalConfig.Level = config.Level
	globalConfig.Modules = config.Modules
	for module, levelVar := range moduleLevels {
		levelVar.Set(levelFor(globalConfig, module))
	}
}

// GetLogger returns the logger for a module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	mu.RLock()
	if logger, ok := moduleLoggers[module]; ok {
		mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if logger, ok := moduleLoggers[module]; ok {
		return logger
	}

	levelVar := &slog.LevelVar{}
	format := "text"
	if initialized {
		levelVar.Set(levelFor(globalConfig, module))
		format = globalConfig.Format
	} else {
		levelVar.Set(slog.LevelInfo)
	}

	logger := slog.New(newHandler(format, levelVar)).With("module", module)
	moduleLoggers[module] = logger
	moduleLevels[module] = levelVar
	return logger
}

// History returns the ring buffer of recent log entries, or nil before
// Initialize.
func History() *RingBuffer {
	mu.RLock()
	defer mu.RUnlock()
	return history
}

// levelFor resolves the effective level for a module: the module override
// when present, otherwise the global level.
func levelFor(config Config, module string) slog.Level {
	if override, ok := config.Modules[module]; ok {
		return parseLevel(override)
	}
	return parseLevel(config.Level)
}

// newHandler builds the handler chain: stdout (unless detached), journald
// (when available), and the history buffer.
func newHandler(format string, level slog.Leveler) slog.Handler {
	var handlers []slog.Handler

	if stdoutAvailable() {
		opts := &slog.HandlerOptions{Level: level}
		if format == "json" {
			handlers = append(handlers, slog.NewJSONHandler(os.Stdout, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(os.Stdout, opts))
		}
	}

	if journalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}

	handlers = append(handlers, NewBufferHandler(level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return fanout(handlers)
}

// fanout delivers each record to the whole handler chain: stdout, the
// journal when available, and the history buffer. The sinks filter by level
// themselves, so a record is offered to every one that wants it.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		// Handlers may retain the record, so each gets its own clone.
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}

// stdoutAvailable reports whether stdout goes somewhere useful: a terminal,
// pipe, socket, or regular file.
func stdoutAvailable() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&os.ModeCharDevice != 0 || mode&os.ModeNamedPipe != 0 || mode&os.ModeSocket != 0 || mode.IsRegular()
}

// parseLevel converts a string level to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
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
