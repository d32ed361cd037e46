// Package store persists applications, accounts and messages in Postgres and keeps the
// Redis stats cache and the Elasticsearch search index beside it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// dbError keeps taxonomy errors as they are and wraps driver failures.
func dbError(op string, err error) error {
	if err == nil {
		return nil
	}
	var std *errors.StandardError
	if stderrors.As(err, &std) {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(op, err)
	}
	return errors.NewDatabaseError(op, err)
}

// writeAudit appends an audit_log row. Failures are logged, never returned.
func writeAudit(ctx context.Context, db execer, log logger.Logger, event, resourceType, resourceID, actorID string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		log.Warn("failed to marshal audit log details", map[string]interface{}{"error": err})
		payload = []byte("{}")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event, resourceType, resourceID, actorID, payload, time.Now().UTC(),
	)
	if err != nil {
		log.Warn("audit log insert failed", map[string]interface{}{
			"error":      err,
			"event":      event,
			"resourceId": resourceID,
		})
	}
}
