package store

import (
	"context"
	"testing"
	"time"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumnNames = []string{"id", "email", "full_name", "phone", "user_type", "office_level", "office_name", "is_monitor", "monitors", "created_at"}

func TestAccountRepository_GetAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db, logger.NewTestLogger(t))
	created := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM accounts WHERE id = \$1`).
		WithArgs("mon-1").
		WillReturnRows(sqlmock.NewRows(accountColumnNames).
			AddRow("mon-1", "dao@kaski.gov.np", "Hari KC", "", "official", "province", "Gandaki Province Office", true, "{district,local}", created))

	acct, err := repo.GetAccount(context.Background(), "mon-1")
	require.NoError(t, err)

	assert.True(t, acct.IsMonitor)
	assert.Equal(t, []models.OfficeLevel{models.LevelDistrict, models.LevelLocal}, acct.Monitors)
	m, ok := acct.Role().(models.Monitor)
	require.True(t, ok)
	assert.Equal(t, []models.OfficeLevel{models.LevelDistrict, models.LevelLocal}, m.ObservedLevels())
}

func TestAccountRepository_GetAccountNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db, logger.NewTestLogger(t))

	mock.ExpectQuery(`FROM accounts WHERE id = \$1`).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(accountColumnNames))

	_, err := repo.GetAccount(context.Background(), "ghost")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestAccountRepository_ListOfficials(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db, logger.NewTestLogger(t))

	none, err := repo.ListOfficials(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	mock.ExpectQuery(`is_monitor = FALSE AND office_level = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(accountColumnNames).
			AddRow("off-1", "w10@pokhara.gov.np", "Gita Rai", "", "official", "local", ward10.Name, false, "{}", time.Now()).
			AddRow("off-2", "w10b@pokhara.gov.np", "Mina Gurung", "", "official", "local", ward10.Name, false, "{}", time.Now()).
			AddRow("off-3", "lr@kaski.gov.np", "Bikash Thapa", "", "official", "district", "Kaski District Land Revenue Office", false, "{}", time.Now()))

	accts, err := repo.ListOfficials(context.Background(), []models.OfficeLevel{models.LevelDistrict, models.LevelLocal})
	require.NoError(t, err)
	require.Len(t, accts, 3)
	assert.Empty(t, accts[0].Monitors)

	offices := SubordinateOffices(accts)
	assert.Equal(t, []models.Office{
		ward10,
		{Level: models.LevelDistrict, Name: "Kaski District Land Revenue Office"},
	}, offices)
}
