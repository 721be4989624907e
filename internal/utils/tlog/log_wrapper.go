package tlog

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/CakeInTech/faydapass/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	StreamApp   = "app"
	StreamHTTP  = "http"
	StreamAudit = "audit"
)

type Logger struct {
	Audit zerolog.Logger
	HTTP  zerolog.Logger
	App   zerolog.Logger
}

// Stream loggers, silent until a Logger is initialized
var (
	Audit = zerolog.Nop()
	HTTP  = zerolog.Nop()
	App   = zerolog.Nop()
)

func NewLogger(cfg config.LogConfig) *Logger {
	return NewLoggerWithWriter(cfg, os.Stderr)
}

// NewLoggerWithWriter builds the stream loggers on top of out. The base logger
// also becomes the global zerolog logger.
func NewLoggerWithWriter(cfg config.LogConfig, out io.Writer) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.Json {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	base := zerolog.New(out).
		Level(parseLogLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Str("service", "faydapass").
		Logger()

	log.Logger = base

	return &Logger{
		Audit: streamLogger(base, StreamAudit, cfg.Streams.Audit),
		HTTP:  streamLogger(base, StreamHTTP, cfg.Streams.HTTP),
		App:   streamLogger(base, StreamApp, cfg.Streams.App),
	}
}

// NewSimpleLogger is used by the one-shot subcommands and tests.
func NewSimpleLogger() *Logger {
	return NewLogger(config.LogConfig{
		Level: "info",
		Streams: config.LogStreams{
			HTTP: config.LogStreamConfig{Enabled: true},
			App:  config.LogStreamConfig{Enabled: true},
		},
	})
}

func (l *Logger) Init() {
	Audit = l.Audit
	HTTP = l.HTTP
	App = l.App
}

func streamLogger(base zerolog.Logger, stream string, cfg config.LogStreamConfig) zerolog.Logger {
	if !cfg.Enabled {
		return zerolog.Nop()
	}

	logger := base.With().Str("log_stream", stream).Logger()

	if cfg.Level == "" {
		return logger
	}

	return logger.Level(parseLogLevel(cfg.Level))
}

func parseLogLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("Invalid log level, defaulting to info")
		return zerolog.InfoLevel
	}

	return parsed
}
