// Package memory is the in-process storage backend. Each entity type has its
// own atomic id counter starting at 1; ids are never reused.
package memory

import (
	"movie-discovery-social-service/internal/models"
	"movie-discovery-social-service/internal/repository"
)

// NewStore returns an empty store with the default genres and MPA ratings.
func NewStore() repository.Store {
	return repository.Store{
		Films:       NewFilmRepository(),
		Users:       NewUserRepository(),
		Likes:       NewLikeRepository(),
		Friendships: NewFriendshipRepository(),
		Genres:      NewGenreRepository(models.DefaultGenres),
		Mpa:         NewMpaRepository(models.DefaultMpaRatings),
	}
}
