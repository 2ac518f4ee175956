package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

// InitLogging writes to stdout and, when filePath is set, also to that file as JSON.
func InitLogging(filePath string) {
	var writers []io.Writer
	writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", filePath, err)
		} else {
			writers = append(writers, f)
		}
	}

	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

// SetOutput replaces the log writer.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel parses level ("debug", "info", ...); unknown values keep the current level.
func SetLevel(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil && level != "" {
		zerolog.SetGlobalLevel(lvl)
	}
}

// WithRequestID stores a request ID that is attached to every log line.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func write(ctx context.Context, ev *zerolog.Event, format string, args ...interface{}) {
	if id := RequestID(ctx); id != "" {
		ev = ev.Str("request_id", id)
	}
	ev.Msgf(format, args...)
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, log.Debug(), format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, log.Info(), format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, log.Warn(), format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, log.Error(), format, args...)
}
