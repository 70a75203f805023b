// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger once at startup. Every line
// carries the service name; the level comes from LOG_LEVEL.
func Init(serviceName, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()
	zerolog.DefaultContextLogger = &zlog.Logger
}

// Ctx returns the request-scoped logger stored in ctx, or the global one.
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithFields derives a logger carrying the given fields and stores it in ctx.
func WithFields(ctx context.Context, fields map[string]string) context.Context {
	lc := Ctx(ctx).With()
	for k, v := range fields {
		if v != "" {
			lc = lc.Str(k, v)
		}
	}
	l := lc.Logger()
	return l.WithContext(ctx)
}
