// Package repository declares the storage capabilities the services depend
// on. The memory and postgres subpackages implement them; services never see
// a concrete backend.
package repository

import (
	"context"

	"movie-discovery-social-service/internal/models"
)

// FilmRepository stores films. Returned films carry only the ids of their
// MPA rating and genres.
type FilmRepository interface {
	Create(ctx context.Context, film *models.Film) (*models.Film, error)
	// Update fails with models.ErrNotFound when the id is absent. It never
	// writes rate.
	Update(ctx context.Context, film *models.Film) (*models.Film, error)
	Get(ctx context.Context, id int64) (*models.Film, error)
	// List returns all films ordered by id.
	List(ctx context.Context) ([]models.Film, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// AdjustRate adds delta to the film's rate, never going below zero.
	AdjustRate(ctx context.Context, id int64, delta int) error
}

// UserRepository stores users without their derived relationship sets.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// LikeRepository is the like ledger. Add and Remove report whether they
// changed anything so callers adjust rate at most once per like.
type LikeRepository interface {
	Add(ctx context.Context, userID, filmID int64) (bool, error)
	Remove(ctx context.Context, userID, filmID int64) (bool, error)
	FilmIDs(ctx context.Context, userID int64) ([]int64, error)
}

// FriendshipRepository stores directional friendship records.
type FriendshipRepository interface {
	// Save creates or overwrites the userID -> friendID record.
	Save(ctx context.Context, userID, friendID int64, status models.FriendshipStatus) error
	Exists(ctx context.Context, userID, friendID int64) (bool, error)
	// Confirm marks both a -> b and b -> a CONFIRMED in one step.
	Confirm(ctx context.Context, a, b int64) error
	Delete(ctx context.Context, userID, friendID int64) (bool, error)
	// List returns the outgoing records of userID in creation order.
	List(ctx context.Context, userID int64) ([]models.Friendship, error)
}

// GenreRepository is read-only reference data.
type GenreRepository interface {
	List(ctx context.Context) ([]models.Genre, error)
	Get(ctx context.Context, id int64) (*models.Genre, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// MpaRepository is read-only reference data.
type MpaRepository interface {
	List(ctx context.Context) ([]models.Mpa, error)
	Get(ctx context.Context, id int64) (*models.Mpa, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Store bundles one backend's repositories.
type Store struct {
	Films       FilmRepository
	Users       UserRepository
	Likes       LikeRepository
	Friendships FriendshipRepository
	Genres      GenreRepository
	Mpa         MpaRepository
}
