// Package logging builds the slog loggers used by the CLI and the HTTP server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/mattn/go-isatty"

	"github.com/jtejido/fingerknuckle/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string // "auto", "text" or "json"
	// Dir enables a rotating log file next to the console output when set.
	Dir           string
	MaxAge        time.Duration
	RotationTime  time.Duration
	Output        io.Writer
	isTerminalOut func() bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" || format == "auto" {
		format = "json"
		if opts.terminal(out) {
			format = "text"
		}
	}

	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		rl, err := newRotatingFile(dir, opts.MaxAge, opts.RotationTime)
		if err != nil {
			return nil, err
		}
		out = io.MultiWriter(out, rl)
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	handlerOpts.AddSource = handlerOpts.Level.Level() <= slog.LevelDebug

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(out, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates a logger from the [logging] section.
func NewFromConfig(cfg *config.Configuration) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info"})
	}
	return New(Options{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Dir:          cfg.Logging.Dir,
		MaxAge:       time.Duration(cfg.Logging.MaxAgeDays) * 24 * time.Hour,
		RotationTime: time.Duration(cfg.Logging.RotationHours) * time.Hour,
	})
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func (o Options) terminal(w io.Writer) bool {
	if o.isTerminalOut != nil {
		return o.isTerminalOut()
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newRotatingFile(dir string, maxAge, rotation time.Duration) (*rotatelogs.RotateLogs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	if rotation <= 0 {
		rotation = 24 * time.Hour
	}
	rl, err := rotatelogs.New(
		filepath.Join(dir, "fingerknuckle.%Y%m%d%H%M.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, "fingerknuckle.log")),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotation),
	)
	if err != nil {
		return nil, fmt.Errorf("open rotating log: %w", err)
	}
	return rl, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
