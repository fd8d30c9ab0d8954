package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-social-service/internal/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var filmColumns = []string{"id", "name", "description", "release_date", "duration", "rate", "mpa_id", "genres"}

func matrix() *models.Film {
	return &models.Film{
		Name:        "The Matrix",
		Description: "A hacker learns the truth",
		ReleaseDate: models.NewDate(1999, time.March, 31),
		Duration:    136,
		Rate:        99,
		Mpa:         &models.Mpa{ID: 4},
		Genres:      []models.Genre{{ID: 6}, {ID: 4}, {ID: 6}},
	}
}

func TestFilmRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)
	film := matrix()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO films (name, description, release_date, duration, mpa_id)")).
		WithArgs(film.Name, film.Description, film.ReleaseDate.Time, film.Duration, int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rate"}).AddRow(1, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_genres")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO film_genres (film_id, genre_id, position)")).
		WithArgs(int64(1), pq.Array([]int64{6, 4})).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), film)
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, 0, created.Rate)
	assert.Equal(t, []models.Genre{{ID: 6}, {ID: 4}}, created.Genres)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRepository_CreateWithoutGenresSkipsLink(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)
	film := matrix()
	film.Genres = nil

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO films")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rate"}).AddRow(2, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_genres")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), film)
	require.NoError(t, err)
	assert.Empty(t, created.Genres)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRepository_UpdateMissingFilm(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)
	film := matrix()
	film.ID = 42

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE films SET name = $1")).
		WithArgs(film.Name, film.Description, film.ReleaseDate.Time, film.Duration, int64(4), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"rate"}))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), film)

	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, models.EntityFilm, nf.Entity)
	assert.Equal(t, int64(42), nf.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRepository_UpdateKeepsStoredRate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)
	film := matrix()
	film.ID = 1

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE films SET")).
		WillReturnRows(sqlmock.NewRows([]string{"rate"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_genres")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO film_genres")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	updated, err := repo.Update(context.Background(), film)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.id = $1 GROUP BY f.id")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(filmColumns).
			AddRow(1, "The Matrix", "", time.Date(1999, time.March, 31, 0, 0, 0, 0, time.UTC), 136, 5, 4, "{6,4}"))

	film, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "1999-03-31", film.ReleaseDate.String())
	assert.Equal(t, 5, film.Rate)
	assert.Equal(t, &models.Mpa{ID: 4}, film.Mpa)
	assert.Equal(t, []models.Genre{{ID: 6}, {ID: 4}}, film.Genres)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRepository_GetMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(filmColumns))

	_, err := repo.Get(context.Background(), 7)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestFilmRepository_ListOrderedByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)
	released := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY f.id ORDER BY f.id")).
		WillReturnRows(sqlmock.NewRows(filmColumns).
			AddRow(1, "a", "", released, 90, 0, 1, "{}").
			AddRow(2, "b", "", released, 95, 2, 2, "{3}"))

	films, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, films, 2)
	assert.Equal(t, int64(1), films[0].ID)
	assert.Empty(t, films[0].Genres)
	assert.Equal(t, []models.Genre{{ID: 3}}, films[1].Genres)
}

func TestFilmRepository_ListFailsOnBadRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)
	released := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY f.id ORDER BY f.id")).
		WillReturnRows(sqlmock.NewRows(filmColumns).
			AddRow(1, "a", "", released, 90, 0, 1, "{}").
			AddRow(2, "b", "", "not a date", 95, 2, 2, "{3}"))

	films, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan film")
	assert.Nil(t, films)
}

func TestFilmRepository_AdjustRate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE films SET rate = GREATEST(rate + $1, 0) WHERE id = $2")).
		WithArgs(-1, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE films SET rate")).
		WithArgs(1, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AdjustRate(context.Background(), 1, -1))
	assert.True(t, errors.Is(repo.AdjustRate(context.Background(), 9, 1), models.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilmRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM films WHERE id = $1)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
}
