package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"movie-discovery-social-service/internal/cache"
	"movie-discovery-social-service/internal/metrics"
	"movie-discovery-social-service/internal/models"
	"movie-discovery-social-service/internal/repository"
	"movie-discovery-social-service/internal/validation"
)

const (
	// DefaultPopularCount is used when the caller does not ask for a size.
	DefaultPopularCount = 10

	popularGenerationKey = "films:gen"
	popularCachePattern  = "films:popular:*"
)

// FilmService handles the film catalog, the like ledger and the popularity
// ranking.
type FilmService struct {
	films      repository.FilmRepository
	users      repository.UserRepository
	likes      repository.LikeRepository
	refs       *ReferenceService
	cache      *cache.Cache
	popularTTL time.Duration
	locks      *keyLocker
}

// NewFilmService creates a new FilmService.
func NewFilmService(store repository.Store, refs *ReferenceService, c *cache.Cache, popularTTL time.Duration) *FilmService {
	return &FilmService{
		films:      store.Films,
		users:      store.Users,
		likes:      store.Likes,
		refs:       refs,
		cache:      c,
		popularTTL: popularTTL,
		locks:      newKeyLocker(),
	}
}

// Create validates the film and stores it with rate 0.
func (s *FilmService) Create(ctx context.Context, film *models.Film) (*models.Film, error) {
	if err := validation.Film(film); err != nil {
		slog.Warn("film rejected", "name", film.Name, "error", err)
		return nil, err
	}
	if err := s.refs.checkFilm(ctx, film); err != nil {
		return nil, err
	}

	created, err := s.films.Create(ctx, film)
	if err != nil {
		return nil, fmt.Errorf("failed to create film: %w", err)
	}
	s.filmsChanged(ctx)

	slog.Info("film created", "id", created.ID)
	return created, s.refs.hydrate(ctx, created)
}

// Update replaces an existing film. The stored rate is kept.
func (s *FilmService) Update(ctx context.Context, film *models.Film) (*models.Film, error) {
	if err := s.requireFilm(ctx, film.ID); err != nil {
		return nil, err
	}
	if err := validation.Film(film); err != nil {
		slog.Warn("film update rejected", "id", film.ID, "error", err)
		return nil, err
	}
	if err := s.refs.checkFilm(ctx, film); err != nil {
		return nil, err
	}

	updated, err := s.films.Update(ctx, film)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update film: %w", err)
	}
	s.filmsChanged(ctx)

	return updated, s.refs.hydrate(ctx, updated)
}

func (s *FilmService) Get(ctx context.Context, id int64) (*models.Film, error) {
	film, err := s.films.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return film, s.refs.hydrate(ctx, film)
}

// List returns every film ordered by id.
func (s *FilmService) List(ctx context.Context) ([]models.Film, error) {
	films, err := s.films.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	return films, s.refs.hydrate(ctx, filmPointers(films)...)
}

// Like records that userID likes filmID. Repeating it changes nothing.
func (s *FilmService) Like(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}

	unlock := s.locks.Lock(likeKey(filmID, userID))
	defer unlock()

	added, err := s.likes.Add(ctx, userID, filmID)
	if err != nil {
		return err
	}
	metrics.RecordLike("like", added)
	if !added {
		return nil
	}

	if err := s.films.AdjustRate(ctx, filmID, 1); err != nil {
		if _, rbErr := s.likes.Remove(ctx, userID, filmID); rbErr != nil {
			slog.Error("failed to roll back like", "film_id", filmID, "user_id", userID, "error", rbErr)
		}
		return fmt.Errorf("failed to increment rate: %w", err)
	}
	s.filmsChanged(ctx)
	return nil
}

// Unlike removes the like if present. Removing a missing like changes
// nothing.
func (s *FilmService) Unlike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}

	unlock := s.locks.Lock(likeKey(filmID, userID))
	defer unlock()

	removed, err := s.likes.Remove(ctx, userID, filmID)
	if err != nil {
		return err
	}
	metrics.RecordLike("unlike", removed)
	if !removed {
		return nil
	}

	if err := s.films.AdjustRate(ctx, filmID, -1); err != nil {
		if _, rbErr := s.likes.Add(ctx, userID, filmID); rbErr != nil {
			slog.Error("failed to roll back unlike", "film_id", filmID, "user_id", userID, "error", rbErr)
		}
		return fmt.Errorf("failed to decrement rate: %w", err)
	}
	s.filmsChanged(ctx)
	return nil
}

// MostPopular returns up to count films by rate descending. Films with equal
// rate keep ascending id order.
func (s *FilmService) MostPopular(ctx context.Context, count int) ([]models.Film, error) {
	if err := validation.Positive("count", count); err != nil {
		return nil, err
	}

	// The generation is read before the list so a write landing in between
	// bumps past the key this result is stored under.
	gen, err := s.cache.Generation(ctx, popularGenerationKey)
	useCache := err == nil && s.popularTTL > 0
	if err != nil {
		slog.Warn("popular cache bypassed", "error", err)
	}
	cacheKey := fmt.Sprintf("films:popular:%d:%d", gen, count)
	if useCache {
		var cached []models.Film
		if found, _ := s.cache.GetJSON(ctx, "popular", cacheKey, &cached); found {
			return cached, nil
		}
	}

	films, err := s.films.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	sort.SliceStable(films, func(i, j int) bool {
		return films[i].Rate > films[j].Rate
	})
	if len(films) > count {
		films = films[:count]
	}
	if err := s.refs.hydrate(ctx, filmPointers(films)...); err != nil {
		return nil, err
	}

	if useCache {
		s.cache.SetJSON(ctx, cacheKey, films, s.popularTTL)
	}
	return films, nil
}

// filmsChanged retires every cached ranking after a film or like write.
func (s *FilmService) filmsChanged(ctx context.Context) {
	s.cache.Bump(ctx, popularGenerationKey)
	s.cache.Invalidate(ctx, popularCachePattern)
}

func (s *FilmService) requireFilm(ctx context.Context, id int64) error {
	ok, err := s.films.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check film: %w", err)
	}
	if !ok {
		slog.Warn("film not found", "id", id)
		return models.NewNotFound(models.EntityFilm, id)
	}
	return nil
}

func (s *FilmService) requireFilmAndUser(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilm(ctx, filmID); err != nil {
		return err
	}
	return requireUser(ctx, s.users, userID)
}

func requireUser(ctx context.Context, users repository.UserRepository, id int64) error {
	ok, err := users.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		slog.Warn("user not found", "id", id)
		return models.NewNotFound(models.EntityUser, id)
	}
	return nil
}

func filmPointers(films []models.Film) []*models.Film {
	ptrs := make([]*models.Film, len(films))
	for i := range films {
		ptrs[i] = &films[i]
	}
	return ptrs
}
