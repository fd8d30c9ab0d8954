package memory

import (
	"context"
	"sort"
	"sync"

	"movie-discovery-social-service/internal/models"
)

// LikeRepository is the like ledger keyed by (user, film).
type LikeRepository struct {
	mu    sync.RWMutex
	likes map[models.Like]struct{}
}

func NewLikeRepository() *LikeRepository {
	return &LikeRepository{likes: make(map[models.Like]struct{})}
}

func (r *LikeRepository) Add(_ context.Context, userID, filmID int64) (bool, error) {
	key := models.Like{UserID: userID, FilmID: filmID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.likes[key]; ok {
		return false, nil
	}
	r.likes[key] = struct{}{}
	return true, nil
}

func (r *LikeRepository) Remove(_ context.Context, userID, filmID int64) (bool, error) {
	key := models.Like{UserID: userID, FilmID: filmID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.likes[key]; !ok {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *LikeRepository) FilmIDs(_ context.Context, userID int64) ([]int64, error) {
	r.mu.RLock()
	ids := make([]int64, 0)
	for like := range r.likes {
		if like.UserID == userID {
			ids = append(ids, like.FilmID)
		}
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
