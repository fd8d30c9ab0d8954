package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"movie-discovery-social-service/internal/models"
)

type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	nextID atomic.Int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*models.User)}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	stored := user.Clone()
	stored.ID = r.nextID.Add(1)

	r.mu.Lock()
	r.users[stored.ID] = stored
	r.mu.Unlock()

	return stored.Clone(), nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return nil, models.NewNotFound(models.EntityUser, user.ID)
	}
	stored := user.Clone()
	r.users[user.ID] = stored
	return stored.Clone(), nil
}

func (r *UserRepository) Get(_ context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityUser, id)
	}
	return user.Clone(), nil
}

func (r *UserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}
