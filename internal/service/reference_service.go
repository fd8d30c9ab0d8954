package service

import (
	"context"
	"fmt"
	"time"

	"movie-discovery-social-service/internal/cache"
	"movie-discovery-social-service/internal/models"
	"movie-discovery-social-service/internal/repository"
)

const (
	referenceCacheTTL = time.Hour
	genresCacheKey    = "reference:genres"
	mpaCacheKey       = "reference:mpa"
)

// ReferenceService serves the genre and MPA rating lookup tables.
type ReferenceService struct {
	genres repository.GenreRepository
	mpa    repository.MpaRepository
	cache  *cache.Cache
}

func NewReferenceService(genres repository.GenreRepository, mpa repository.MpaRepository, c *cache.Cache) *ReferenceService {
	return &ReferenceService{genres: genres, mpa: mpa, cache: c}
}

// Genres returns every genre ordered by id.
func (s *ReferenceService) Genres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if found, _ := s.cache.GetJSON(ctx, "reference", genresCacheKey, &genres); found {
		return genres, nil
	}

	genres, err := s.genres.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	s.cache.SetJSON(ctx, genresCacheKey, genres, referenceCacheTTL)
	return genres, nil
}

func (s *ReferenceService) Genre(ctx context.Context, id int64) (*models.Genre, error) {
	return s.genres.Get(ctx, id)
}

func (s *ReferenceService) GenreExists(ctx context.Context, id int64) (bool, error) {
	return s.genres.Exists(ctx, id)
}

// MpaRatings returns every MPA rating ordered by id.
func (s *ReferenceService) MpaRatings(ctx context.Context) ([]models.Mpa, error) {
	var ratings []models.Mpa
	if found, _ := s.cache.GetJSON(ctx, "reference", mpaCacheKey, &ratings); found {
		return ratings, nil
	}

	ratings, err := s.mpa.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mpa ratings: %w", err)
	}
	s.cache.SetJSON(ctx, mpaCacheKey, ratings, referenceCacheTTL)
	return ratings, nil
}

func (s *ReferenceService) Mpa(ctx context.Context, id int64) (*models.Mpa, error) {
	return s.mpa.Get(ctx, id)
}

func (s *ReferenceService) MpaExists(ctx context.Context, id int64) (bool, error) {
	return s.mpa.Exists(ctx, id)
}

// checkFilm fails with NotFound when the film's rating or any genre is unknown.
func (s *ReferenceService) checkFilm(ctx context.Context, film *models.Film) error {
	ok, err := s.MpaExists(ctx, film.Mpa.ID)
	if err != nil {
		return fmt.Errorf("failed to check mpa rating: %w", err)
	}
	if !ok {
		return models.NewNotFound(models.EntityMpa, film.Mpa.ID)
	}

	for _, id := range film.GenreIDs() {
		ok, err := s.GenreExists(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check genre: %w", err)
		}
		if !ok {
			return models.NewNotFound(models.EntityGenre, id)
		}
	}
	return nil
}

// hydrate fills in rating and genre names on films read from storage.
func (s *ReferenceService) hydrate(ctx context.Context, films ...*models.Film) error {
	genres, err := s.Genres(ctx)
	if err != nil {
		return err
	}
	ratings, err := s.MpaRatings(ctx)
	if err != nil {
		return err
	}

	genreNames := make(map[int64]string, len(genres))
	for _, g := range genres {
		genreNames[g.ID] = g.Name
	}
	mpaNames := make(map[int64]string, len(ratings))
	for _, m := range ratings {
		mpaNames[m.ID] = m.Name
	}

	for _, f := range films {
		if f.Mpa != nil {
			f.Mpa.Name = mpaNames[f.Mpa.ID]
		}
		for i := range f.Genres {
			f.Genres[i].Name = genreNames[f.Genres[i].ID]
		}
		if f.Genres == nil {
			f.Genres = []models.Genre{}
		}
	}
	return nil
}
