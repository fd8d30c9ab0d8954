package database

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-social-service/internal/models"
)

func TestRunMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range migrations {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, runMigrations(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsStopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS mpa")).
		WillReturnError(assert.AnError)

	err = runMigrations(db)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "CREATE TABLE IF NOT EXISTS mpa")
}

func TestSeedReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for i, name := range models.DefaultMpaRatings {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mpa (id, name)")).
			WithArgs(i+1, name).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for i, name := range models.DefaultGenres {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO genres (id, name)")).
			WithArgs(i+1, name).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, seedReference(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
