package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"movie-discovery-social-service/internal/models"
)

const selectFilms = `
	SELECT f.id, f.name, f.description, f.release_date, f.duration, f.rate, f.mpa_id,
		COALESCE(array_agg(fg.genre_id ORDER BY fg.position) FILTER (WHERE fg.genre_id IS NOT NULL), '{}')
	FROM films f
	LEFT JOIN film_genres fg ON fg.film_id = f.id`

// FilmRepository handles database operations for films.
type FilmRepository struct {
	db *sql.DB
}

// NewFilmRepository creates a new FilmRepository.
func NewFilmRepository(db *sql.DB) *FilmRepository {
	return &FilmRepository{db: db}
}

// Create inserts the film with rate 0 and its genre set in one transaction.
func (r *FilmRepository) Create(ctx context.Context, film *models.Film) (*models.Film, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stored := film.Clone()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO films (name, description, release_date, duration, mpa_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, rate
	`, film.Name, film.Description, film.ReleaseDate.Time, film.Duration, mpaID(film)).Scan(&stored.ID, &stored.Rate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert film: %w", err)
	}

	if stored.Genres, err = replaceGenres(ctx, tx, stored.ID, film.GenreIDs()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit film: %w", err)
	}
	return stored, nil
}

// Update rewrites every column except rate and replaces the genre set.
func (r *FilmRepository) Update(ctx context.Context, film *models.Film) (*models.Film, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stored := film.Clone()
	err = tx.QueryRowContext(ctx, `
		UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
		WHERE id = $6
		RETURNING rate
	`, film.Name, film.Description, film.ReleaseDate.Time, film.Duration, mpaID(film), film.ID).Scan(&stored.Rate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(models.EntityFilm, film.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update film: %w", err)
	}

	if stored.Genres, err = replaceGenres(ctx, tx, film.ID, film.GenreIDs()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit film: %w", err)
	}
	return stored, nil
}

// Get returns a film by ID.
func (r *FilmRepository) Get(ctx context.Context, id int64) (*models.Film, error) {
	row := r.db.QueryRowContext(ctx, selectFilms+` WHERE f.id = $1 GROUP BY f.id`, id)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(models.EntityFilm, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get film: %w", err)
	}
	return film, nil
}

// List returns all films ordered by id.
func (r *FilmRepository) List(ctx context.Context) ([]models.Film, error) {
	rows, err := r.db.QueryContext(ctx, selectFilms+` GROUP BY f.id ORDER BY f.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	defer rows.Close()

	films := make([]models.Film, 0)
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan film: %w", err)
		}
		films = append(films, *film)
	}
	return films, rows.Err()
}

func (r *FilmRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM films WHERE id = $1)`, id))
}

// AdjustRate changes rate in a single statement so concurrent writers
// never lose an update.
func (r *FilmRepository) AdjustRate(ctx context.Context, id int64, delta int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE films SET rate = GREATEST(rate + $1, 0) WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust rate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to adjust rate: %w", err)
	}
	if n == 0 {
		return models.NewNotFound(models.EntityFilm, id)
	}
	return nil
}

func replaceGenres(ctx context.Context, tx *sql.Tx, filmID int64, genreIDs []int64) ([]models.Genre, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = $1`, filmID); err != nil {
		return nil, fmt.Errorf("failed to clear film genres: %w", err)
	}
	if len(genreIDs) > 0 {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO film_genres (film_id, genre_id, position)
			SELECT $1, g.id, g.ord FROM unnest($2::bigint[]) WITH ORDINALITY AS g(id, ord)
		`, filmID, pq.Array(genreIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to link film genres: %w", err)
		}
	}
	return genresFromIDs(genreIDs), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(row rowScanner) (*models.Film, error) {
	var (
		film     models.Film
		released time.Time
		mpa      int64
		genreIDs pq.Int64Array
	)
	err := row.Scan(
		&film.ID, &film.Name, &film.Description, &released,
		&film.Duration, &film.Rate, &mpa, &genreIDs,
	)
	if err != nil {
		return nil, err
	}
	film.ReleaseDate = models.DateOf(released)
	film.Mpa = &models.Mpa{ID: mpa}
	film.Genres = genresFromIDs(genreIDs)
	return &film, nil
}

func genresFromIDs(ids []int64) []models.Genre {
	genres := make([]models.Genre, len(ids))
	for i, id := range ids {
		genres[i] = models.Genre{ID: id}
	}
	return genres
}

func mpaID(film *models.Film) int64 {
	if film.Mpa == nil {
		return 0
	}
	return film.Mpa.ID
}
