package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"movie-discovery-social-service/internal/models"
)

// FilmRepository keeps films in a map guarded by a RWMutex.
type FilmRepository struct {
	mu     sync.RWMutex
	films  map[int64]*models.Film
	nextID atomic.Int64
}

func NewFilmRepository() *FilmRepository {
	return &FilmRepository{films: make(map[int64]*models.Film)}
}

func (r *FilmRepository) Create(_ context.Context, film *models.Film) (*models.Film, error) {
	stored := film.Clone()
	stored.ID = r.nextID.Add(1)
	stored.Rate = 0
	stored.Genres = genresOf(film)

	r.mu.Lock()
	r.films[stored.ID] = stored
	r.mu.Unlock()

	return stored.Clone(), nil
}

func (r *FilmRepository) Update(_ context.Context, film *models.Film) (*models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.films[film.ID]
	if !ok {
		return nil, models.NewNotFound(models.EntityFilm, film.ID)
	}
	stored := film.Clone()
	stored.Rate = existing.Rate
	stored.Genres = genresOf(film)
	r.films[film.ID] = stored

	return stored.Clone(), nil
}

func (r *FilmRepository) Get(_ context.Context, id int64) (*models.Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	film, ok := r.films[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityFilm, id)
	}
	return film.Clone(), nil
}

func (r *FilmRepository) List(_ context.Context) ([]models.Film, error) {
	r.mu.RLock()
	films := make([]models.Film, 0, len(r.films))
	for _, f := range r.films {
		films = append(films, *f.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (r *FilmRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.films[id]
	return ok, nil
}

func (r *FilmRepository) AdjustRate(_ context.Context, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	film, ok := r.films[id]
	if !ok {
		return models.NewNotFound(models.EntityFilm, id)
	}
	film.Rate = max(film.Rate+delta, 0)
	return nil
}

// genresOf keeps only ids; names are resolved from the genre table on read.
func genresOf(film *models.Film) []models.Genre {
	ids := film.GenreIDs()
	genres := make([]models.Genre, len(ids))
	for i, id := range ids {
		genres[i] = models.Genre{ID: id}
	}
	return genres
}
