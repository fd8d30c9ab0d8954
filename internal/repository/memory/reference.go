package memory

import (
	"context"

	"movie-discovery-social-service/internal/models"
)

// GenreRepository serves a fixed genre table.
type GenreRepository struct {
	genres []models.Genre
}

// NewGenreRepository assigns ids 1..n to names in order.
func NewGenreRepository(names []string) *GenreRepository {
	genres := make([]models.Genre, len(names))
	for i, name := range names {
		genres[i] = models.Genre{ID: int64(i + 1), Name: name}
	}
	return &GenreRepository{genres: genres}
}

func (r *GenreRepository) List(_ context.Context) ([]models.Genre, error) {
	return append([]models.Genre{}, r.genres...), nil
}

func (r *GenreRepository) Get(_ context.Context, id int64) (*models.Genre, error) {
	for _, g := range r.genres {
		if g.ID == id {
			genre := g
			return &genre, nil
		}
	}
	return nil, models.NewNotFound(models.EntityGenre, id)
}

func (r *GenreRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := r.Get(ctx, id)
	return err == nil, nil
}

// MpaRepository serves a fixed MPA rating table.
type MpaRepository struct {
	ratings []models.Mpa
}

// NewMpaRepository assigns ids 1..n to names in order.
func NewMpaRepository(names []string) *MpaRepository {
	ratings := make([]models.Mpa, len(names))
	for i, name := range names {
		ratings[i] = models.Mpa{ID: int64(i + 1), Name: name}
	}
	return &MpaRepository{ratings: ratings}
}

func (r *MpaRepository) List(_ context.Context) ([]models.Mpa, error) {
	return append([]models.Mpa{}, r.ratings...), nil
}

func (r *MpaRepository) Get(_ context.Context, id int64) (*models.Mpa, error) {
	for _, m := range r.ratings {
		if m.ID == id {
			mpa := m
			return &mpa, nil
		}
	}
	return nil, models.NewNotFound(models.EntityMpa, id)
}

func (r *MpaRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := r.Get(ctx, id)
	return err == nil, nil
}
