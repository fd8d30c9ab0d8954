package memory

import (
	"context"
	"sync"
	"time"

	"movie-discovery-social-service/internal/models"
)

// FriendshipRepository keeps each user's outgoing records in creation order.
type FriendshipRepository struct {
	mu       sync.RWMutex
	outgoing map[int64][]models.Friendship
}

func NewFriendshipRepository() *FriendshipRepository {
	return &FriendshipRepository{outgoing: make(map[int64][]models.Friendship)}
}

func (r *FriendshipRepository) Save(_ context.Context, userID, friendID int64, status models.FriendshipStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(userID, friendID); i >= 0 {
		r.outgoing[userID][i].Status = status
		return nil
	}
	r.outgoing[userID] = append(r.outgoing[userID], models.Friendship{
		UserID:    userID,
		FriendID:  friendID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *FriendshipRepository) Exists(_ context.Context, userID, friendID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(userID, friendID) >= 0, nil
}

func (r *FriendshipRepository) Confirm(_ context.Context, a, b int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pair := range [][2]int64{{a, b}, {b, a}} {
		if i := r.indexOf(pair[0], pair[1]); i >= 0 {
			r.outgoing[pair[0]][i].Status = models.FriendshipConfirmed
		}
	}
	return nil
}

func (r *FriendshipRepository) Delete(_ context.Context, userID, friendID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(userID, friendID)
	if i < 0 {
		return false, nil
	}
	records := r.outgoing[userID]
	r.outgoing[userID] = append(records[:i:i], records[i+1:]...)
	return true, nil
}

func (r *FriendshipRepository) List(_ context.Context, userID int64) ([]models.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Friendship{}, r.outgoing[userID]...), nil
}

// indexOf must be called with r.mu held.
func (r *FriendshipRepository) indexOf(userID, friendID int64) int {
	for i, f := range r.outgoing[userID] {
		if f.FriendID == friendID {
			return i
		}
	}
	return -1
}
