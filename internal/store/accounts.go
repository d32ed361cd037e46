package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/models"
)

const accountColumns = `id, email, full_name, phone, user_type,
	COALESCE(office_level, ''), COALESCE(office_name, ''), is_monitor, monitors, created_at`

type AccountRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAccountRepository(db *sql.DB, log logger.Logger) *AccountRepository {
	return &AccountRepository{db: db, logger: logger.ForComponent(log, "account-store")}
}

func (r *AccountRepository) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)

	acct, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("account", id)
	}
	if err != nil {
		return nil, dbError("get account", err)
	}
	return acct, nil
}

// ListStaff returns every official and monitor account, ordered by office.
func (r *AccountRepository) ListStaff(ctx context.Context) ([]models.Account, error) {
	return r.list(ctx, "list staff", `
		SELECT `+accountColumns+` FROM accounts
		WHERE user_type = 'official'
		ORDER BY office_level, office_name, full_name`)
}

// ListOfficials returns non-monitor official accounts at any of levels.
func (r *AccountRepository) ListOfficials(ctx context.Context, levels []models.OfficeLevel) ([]models.Account, error) {
	if len(levels) == 0 {
		return []models.Account{}, nil
	}
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = string(l)
	}
	return r.list(ctx, "list subordinate officials", `
		SELECT `+accountColumns+` FROM accounts
		WHERE user_type = 'official' AND is_monitor = FALSE AND office_level = ANY($1)
		ORDER BY office_level, office_name, full_name`, pq.Array(names))
}

func (r *AccountRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	out := []models.Account{}
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, dbError(op, err)
		}
		out = append(out, *acct)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}

func scanAccount(s scanner) (*models.Account, error) {
	var (
		acct     models.Account
		level    string
		monitors []string
	)
	err := s.Scan(
		&acct.ID, &acct.Email, &acct.FullName, &acct.Phone, &acct.UserType,
		&level, &acct.OfficeName, &acct.IsMonitor, pq.Array(&monitors), &acct.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	acct.OfficeLevel = models.OfficeLevel(level)
	for _, m := range monitors {
		acct.Monitors = append(acct.Monitors, models.OfficeLevel(m))
	}
	return &acct, nil
}

// SubordinateOffices collects the distinct offices of accounts, keeping first-seen order.
func SubordinateOffices(accounts []models.Account) []models.Office {
	seen := make(map[models.Office]bool, len(accounts))
	out := make([]models.Office, 0, len(accounts))
	for _, a := range accounts {
		o := a.Office()
		if o.IsZero() || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
