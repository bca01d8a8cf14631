package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
	"github.com/secmon-lab/briareus/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// Logger holds CLI flags for logging and error reporting
type Logger struct {
	level     string
	format    string
	output    string
	sentryDSN string
	sentryEnv string
}

// Flags returns CLI flags for logger configuration
func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("BRIAREUS_LOG_LEVEL"),
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console or json)",
			Category:    "Logging",
			Value:       "console",
			Sources:     cli.EnvVars("BRIAREUS_LOG_FORMAT"),
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output destination (stdout, stderr, or a file path)",
			Category:    "Logging",
			Value:       "stdout",
			Sources:     cli.EnvVars("BRIAREUS_LOG_OUTPUT"),
			Destination: &x.output,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (disabled when empty)",
			Category:    "Logging",
			Sources:     cli.EnvVars("BRIAREUS_SENTRY_DSN"),
			Destination: &x.sentryDSN,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Category:    "Logging",
			Value:       "production",
			Sources:     cli.EnvVars("BRIAREUS_SENTRY_ENV"),
			Destination: &x.sentryEnv,
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
		slog.Bool("sentry", x.sentryDSN != ""),
	)
}

// Configure installs the default logger and error reporting from the flags.
// The returned closer flushes pending error reports and closes any log file.
func (x *Logger) Configure() (func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(x.level)); err != nil {
		return nil, goerr.Wrap(err, "invalid log level", goerr.V("level", x.level))
	}

	var w io.Writer
	var file *os.File
	switch x.output {
	case "stdout", "-":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(x.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", x.output))
		}
		file = f
		w = f
	}

	if _, err := logging.Configure(logging.Format(x.format), level, w); err != nil {
		if file != nil {
			safe.Close(context.Background(), file)
		}
		return nil, err
	}

	if x.sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         x.sentryDSN,
			Environment: x.sentryEnv,
		}); err != nil {
			if file != nil {
				safe.Close(context.Background(), file)
			}
			return nil, goerr.Wrap(err, "failed to initialize sentry")
		}
	}

	closer := func() {
		if x.sentryDSN != "" {
			sentry.Flush(2 * time.Second)
		}
		if file != nil {
			safe.Close(context.Background(), file)
		}
	}
	return closer, nil
}
