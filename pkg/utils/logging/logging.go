package logging

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

// Format selects the log output encoding
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

func (f Format) IsValid() bool {
	return f == FormatConsole || f == FormatJSON
}

type ctxKey struct{}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.Default())
}

// Default returns the process-wide logger configured via Configure
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// Configure builds a logger with the given format and level, installs it as
// the default, and returns it. Fields tagged `masq:"secret"` are redacted.
func Configure(format Format, level slog.Level, w io.Writer) (*slog.Logger, error) {
	if !format.IsValid() {
		return nil, goerr.New("unsupported log format", goerr.V("format", format))
	}

	redact := masq.New(masq.WithTag("secret"))

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	default:
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redact),
		)
	}

	logger := slog.New(handler)
	defaultLogger.Store(logger)
	slog.SetDefault(logger)
	return logger, nil
}

// With returns a context carrying the given logger
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the logger carried by ctx, falling back to Default
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
