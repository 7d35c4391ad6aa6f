package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shamsoul-ali/THE-VAULT/pkg/env"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	// Instance tags every entry so logs from replicas can be told apart.
	Instance    string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
	// Format is "json" or "console"; empty reads VAULT_LOG_FORMAT.
	Format      string
}

// Logger carries a base zerolog logger and hands out per-request children
// stored on the context.
type Logger struct {
	base      zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	fields := zerolog.New(outputFor(opts)).With().
		Timestamp().
		Str("service", opts.ServiceName)
	if opts.Instance != "" {
		fields = fields.Str("instance", opts.Instance)
	}

	return &Logger{
		base:      fields.Logger().Level(opts.Level),
		warnStack: opts.WarnStack,
	}
}

func outputFor(opts Options) io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := opts.Format
	if format == "" {
		format = env.Get("VAULT_LOG_FORMAT", "json")
	}
	if strings.EqualFold(format, "console") {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return out
}

// Nop discards everything. Used by tests and tools that have no sink.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// ParseLevel maps VAULT_LOG_LEVEL onto a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) entry(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if child, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return child
		}
	}
	return &l.base
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	child := l.entry(ctx).With().Interface(key, value).Logger()
	return context.WithValue(ctx, ctxKey{}, &child)
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	child := l.entry(ctx).With().Fields(fields).Logger()
	return context.WithValue(ctx, ctxKey{}, &child)
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithCarID(ctx context.Context, carID string) context.Context {
	return l.WithField(ctx, "car_id", carID)
}

func (l *Logger) WithImageID(ctx context.Context, imageID string) context.Context {
	return l.WithField(ctx, "image_id", imageID)
}

func (l *Logger) WithTourID(ctx context.Context, tourID string) context.Context {
	return l.WithField(ctx, "tour_id", tourID)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.entry(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.entry(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.entry(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error logs err with a stack trace. Typed errors that map to a 4xx are the
// caller's fault, so they are logged without one.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.entry(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	if needsStack(err) {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

func needsStack(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil {
		return true
	}
	return pkgerrors.MetadataFor(typed.Code()).HTTPStatus >= 500
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
