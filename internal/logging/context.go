package logging

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

// WithLogger returns ctx carrying logger. Everything below a command reads
// its logger from the context it was given.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger carried by ctx, or the process default
// for code running outside a command.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := carried(ctx); ok {
		return logger
	}
	return Default()
}

// Attach returns ctx when it already carries a logger. Otherwise it attaches
// a logger writing to w at level.
func Attach(ctx context.Context, w io.Writer, level string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := carried(ctx); ok {
		return ctx
	}
	return WithLogger(ctx, NewWithWriter(w, level))
}

func carried(ctx context.Context) (*log.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(loggerKey{}).(*log.Logger)
	return logger, ok && logger != nil
}
