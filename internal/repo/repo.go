package repo

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/crucial707/userposts/internal/metrics"
)

const (
	entityUser = "user"
	entityPost = "post"
)

// Connector hands out one dedicated connection per call. *sql.DB and
// *db.Provider both satisfy it.
type Connector interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// withConn runs fn on a fresh connection and always releases it.
func withConn(ctx context.Context, c Connector, fn func(conn *sql.Conn) error) error {
	conn, err := c.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

// finish records the outcome of one repository call and wraps a failure
// into a *StoreError.
func finish(entity, operation string, err error) error {
	metrics.RecordStoreOperation(entity, operation, outcome(err))
	if err == nil {
		return nil
	}
	slog.Debug("store operation failed",
		"entity", entity,
		"operation", operation,
		"error", err)
	return newStoreError(entity, operation, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidEntity):
		return "invalid"
	default:
		return "error"
	}
}
