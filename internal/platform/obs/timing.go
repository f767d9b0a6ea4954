package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RunIDKey ctxKey = "run_id"

// WithRunID tags ctx with the identifier of the current resolution run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// RunID returns the run identifier stored in ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(RunIDKey).(string)
	return id
}

// Time logs the duration of an operation when the returned func is deferred.
//
//	defer obs.Time(ctx, log, "geocode.ResolveLocations")(&err)
func Time(ctx context.Context, log *zap.Logger, name string) func(errp *error) {
	start := time.Now()
	runID := RunID(ctx)

	return func(errp *error) {
		fields := []zap.Field{
			zap.String("run_id", runID),
			zap.String("op", name),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
		}

		if errp != nil && *errp != nil {
			log.Warn("operation failed", append(fields, zap.Error(*errp))...)
			return
		}
		log.Debug("operation completed", fields...)
	}
}
