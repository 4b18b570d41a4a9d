package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

// SafeQuery runs a read and returns fallback when it fails. sql.ErrNoRows
// is treated as an expected miss and is not logged. Never use it for writes.
func SafeQuery[T any](ctx context.Context, name string, fallback T, fn func(context.Context) (T, error)) T {
	v, err := fn(ctx)
	if err == nil {
		return v
	}
	if !errors.Is(err, sql.ErrNoRows) {
		slog.Warn("query failed, using fallback", "query", name, "error", err)
	}
	return fallback
}
