package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"nagarik-sewa/internal/common/database"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/models"
)

const applicationColumns = `id, user_id, full_name, email, phone, citizenship_number,
	province, district, city, ward, address, service_type,
	target_office_level, target_office_name, description, status, approved,
	rejection_message, progress, current_stage, estimated_days,
	submitted_date, completed_date, updated_at`

type ApplicationRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationRepository(db *sql.DB, log logger.Logger) *ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: logger.ForComponent(log, "application-store"),
	}
}

// Create inserts a newly submitted application and its audit entry in one transaction.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO applications (`+applicationColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
				$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
			app.ID, app.UserID, app.FullName, app.Email, app.Phone, app.CitizenshipNumber,
			app.Province, app.District, app.City, app.Ward, app.Address, app.ServiceType,
			app.TargetOfficeLevel, app.TargetOfficeName, app.Description, app.Status, nullBool(app.Approved),
			nullString(app.RejectionMessage), app.Progress, app.CurrentStage, app.EstimatedDays,
			app.SubmittedDate, app.CompletedDate, app.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert application: %w", err)
		}

		writeAudit(ctx, tx, r.logger, "application_created", "application", app.ID, app.UserID, map[string]interface{}{
			"serviceType":  app.ServiceType,
			"targetOffice": app.TargetOffice().ID(),
		})
		return nil
	})
	return dbError("create application", err)
}

func (r *ApplicationRepository) Get(ctx context.Context, id string) (*models.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("application", id)
	}
	if err != nil {
		return nil, dbError("get application", err)
	}
	return app, nil
}

// ListByOffice returns the records routed to office in submission order.
func (r *ApplicationRepository) ListByOffice(ctx context.Context, office models.Office) ([]models.Application, error) {
	return r.list(ctx, "list office applications", `
		SELECT `+applicationColumns+` FROM applications
		WHERE target_office_level = $1 AND target_office_name = $2
		ORDER BY submitted_date, id`, office.Level, office.Name)
}

// ListByOffices returns the records routed to any of offices in submission order.
func (r *ApplicationRepository) ListByOffices(ctx context.Context, offices []models.Office) ([]models.Application, error) {
	if len(offices) == 0 {
		return []models.Application{}, nil
	}
	ids := make([]string, len(offices))
	for i, o := range offices {
		ids[i] = o.ID()
	}
	return r.list(ctx, "list hierarchy applications", `
		SELECT `+applicationColumns+` FROM applications
		WHERE target_office_level || ':' || target_office_name = ANY($1)
		ORDER BY submitted_date, id`, pq.Array(ids))
}

// ListByUser returns a citizen's own applications, newest first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	return r.list(ctx, "list user applications", `
		SELECT `+applicationColumns+` FROM applications
		WHERE user_id = $1
		ORDER BY submitted_date DESC, id`, userID)
}

// UpdateTransition persists a lifecycle result only if the stored status still equals expected.
// A lost race yields CONFLICT.
func (r *ApplicationRepository) UpdateTransition(ctx context.Context, next *models.Application, expected models.ApplicationStatus, actorID, action string) error {
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE applications
			SET status = $3, approved = $4, rejection_message = $5, progress = $6,
				current_stage = $7, completed_date = $8, updated_at = $9
			WHERE id = $1 AND status = $2`,
			next.ID, expected, next.Status, nullBool(next.Approved), nullString(next.RejectionMessage),
			next.Progress, next.CurrentStage, next.CompletedDate, next.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return errors.NewConflictError(fmt.Sprintf("application %s is no longer %q", next.ID, expected))
		}

		writeAudit(ctx, tx, r.logger, "application_"+action, "application", next.ID, actorID, map[string]interface{}{
			"from":     expected,
			"to":       next.Status,
			"progress": next.Progress,
		})
		return nil
	})
	return dbError("update application", err)
}

// Delete removes the record permanently.
func (r *ApplicationRepository) Delete(ctx context.Context, id, actorID string) error {
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete application: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return errors.NewNotFoundError("application", id)
		}
		writeAudit(ctx, tx, r.logger, "application_deleted", "application", id, actorID, nil)
		return nil
	})
	return dbError("delete application", err)
}

func (r *ApplicationRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	out := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, dbError(op, err)
		}
		out = append(out, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(s scanner) (*models.Application, error) {
	var (
		app       models.Application
		level     string
		status    string
		approved  sql.NullBool
		rejection sql.NullString
		completed sql.NullTime
	)
	err := s.Scan(
		&app.ID, &app.UserID, &app.FullName, &app.Email, &app.Phone, &app.CitizenshipNumber,
		&app.Province, &app.District, &app.City, &app.Ward, &app.Address, &app.ServiceType,
		&level, &app.TargetOfficeName, &app.Description, &status, &approved,
		&rejection, &app.Progress, &app.CurrentStage, &app.EstimatedDays,
		&app.SubmittedDate, &completed, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.TargetOfficeLevel = models.OfficeLevel(level)
	app.Status = models.ApplicationStatus(status)
	if approved.Valid {
		v := approved.Bool
		app.Approved = &v
	}
	app.RejectionMessage = strings.TrimSpace(rejection.String)
	if completed.Valid {
		t := completed.Time.UTC()
		app.CompletedDate = &t
	}
	app.SubmittedDate = app.SubmittedDate.UTC()
	app.UpdatedAt = app.UpdatedAt.UTC()
	return &app, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
