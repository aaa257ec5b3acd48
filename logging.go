package api

import (
	"context"
	"log/slog"
	"time"
)

// Logger returns middleware that logs each dispatch using the provided
// slog.Logger. Failed dispatches are logged at error level.
func Logger(logger *slog.Logger) Middleware {
	return func(next Dispatch) Dispatch {
		return func(ctx context.Context, c APICollection) (APICollection, error) {
			start := time.Now()
			out, err := next(ctx, c)

			attrs := []slog.Attr{
				slog.String("tag", c.Tag()),
				slog.String("state", c.State().String()),
				slog.String("result", out.State().String()),
				slog.Duration("latency", time.Since(start)),
			}
			if id := GetCallID(ctx); id != "" {
				attrs = append(attrs, slog.String("call_id", id))
			}

			level := slog.LevelInfo
			if err != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", err.Error()))
			}

			logger.LogAttrs(ctx, level, "dispatch", attrs...)
			return out, err
		}
	}
}
