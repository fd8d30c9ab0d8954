package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"movie-discovery-social-service/internal/models"
)

type GenreRepository struct {
	db *sql.DB
}

func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) List(ctx context.Context) ([]models.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	genres := make([]models.Genre, 0)
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (r *GenreRepository) Get(ctx context.Context, id int64) (*models.Genre, error) {
	var g models.Genre
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM genres WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(models.EntityGenre, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	return &g, nil
}

func (r *GenreRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM genres WHERE id = $1)`, id))
}

type MpaRepository struct {
	db *sql.DB
}

func NewMpaRepository(db *sql.DB) *MpaRepository {
	return &MpaRepository{db: db}
}

func (r *MpaRepository) List(ctx context.Context) ([]models.Mpa, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM mpa ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mpa ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Mpa, 0)
	for rows.Next() {
		var m models.Mpa
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan mpa rating: %w", err)
		}
		ratings = append(ratings, m)
	}
	return ratings, rows.Err()
}

func (r *MpaRepository) Get(ctx context.Context, id int64) (*models.Mpa, error) {
	var m models.Mpa
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM mpa WHERE id = $1`, id).Scan(&m.ID, &m.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(models.EntityMpa, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mpa rating: %w", err)
	}
	return &m, nil
}

func (r *MpaRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM mpa WHERE id = $1)`, id))
}
