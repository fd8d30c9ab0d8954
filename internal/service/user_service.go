package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"movie-discovery-social-service/internal/metrics"
	"movie-discovery-social-service/internal/models"
	"movie-discovery-social-service/internal/repository"
	"movie-discovery-social-service/internal/validation"
)

// UserService handles users and the friendship engine.
type UserService struct {
	users       repository.UserRepository
	likes       repository.LikeRepository
	friendships repository.FriendshipRepository
	locks       *keyLocker
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{
		users:       store.Users,
		likes:       store.Likes,
		friendships: store.Friendships,
		locks:       newKeyLocker(),
	}
}

// Create validates the user and stores it. A blank name becomes the login.
func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := validation.User(user); err != nil {
		slog.Warn("user rejected", "login", user.Login, "error", err)
		return nil, err
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("user created", "id", created.ID)
	return created, s.derive(ctx, created)
}

// Update replaces an existing user.
func (s *UserService) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if err := requireUser(ctx, s.users, user.ID); err != nil {
		return nil, err
	}
	if err := validation.User(user); err != nil {
		slog.Warn("user update rejected", "id", user.ID, "error", err)
		return nil, err
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, s.derive(ctx, updated)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, s.derive(ctx, user)
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		if err := s.derive(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// LikedFilms returns the ids of films the user likes.
func (s *UserService) LikedFilms(ctx context.Context, userID int64) ([]int64, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.likes.FilmIDs(ctx, userID)
}

// AddFriend records a request from a to b. When b already has a record
// pointing at a, both records become CONFIRMED.
func (s *UserService) AddFriend(ctx context.Context, a, b int64) error {
	if a == b {
		return &validation.Error{Field: "friend_id", Tag: "nefield", Message: "user cannot add themselves as a friend"}
	}
	if err := requireUser(ctx, s.users, a); err != nil {
		return err
	}
	if err := requireUser(ctx, s.users, b); err != nil {
		return err
	}

	unlock := s.locks.Lock(pairKey(a, b))
	defer unlock()

	if err := s.friendships.Save(ctx, a, b, models.FriendshipPending); err != nil {
		return err
	}
	reciprocal, err := s.friendships.Exists(ctx, b, a)
	if err != nil {
		return fmt.Errorf("failed to check reciprocal friendship: %w", err)
	}
	if !reciprocal {
		metrics.RecordFriendshipTransition("requested")
		slog.Info("friend request sent", "user_id", a, "friend_id", b)
		return nil
	}

	if err := s.friendships.Confirm(ctx, a, b); err != nil {
		return err
	}
	metrics.RecordFriendshipTransition("confirmed")
	slog.Info("friendship confirmed", "user_id", a, "friend_id", b)
	return nil
}

// RemoveFriend deletes only the a -> b record. A record b -> a is left as is.
func (s *UserService) RemoveFriend(ctx context.Context, a, b int64) error {
	unlock := s.locks.Lock(pairKey(a, b))
	defer unlock()

	removed, err := s.friendships.Delete(ctx, a, b)
	if err != nil {
		return err
	}
	if removed {
		metrics.RecordFriendshipTransition("removed")
		slog.Info("friend removed", "user_id", a, "friend_id", b)
	}
	return nil
}

// Friends returns every user a has an outgoing record to, PENDING or
// CONFIRMED, oldest record first.
func (s *UserService) Friends(ctx context.Context, a int64) ([]models.User, error) {
	ids, err := s.friendIDs(ctx, a)
	if err != nil {
		return nil, err
	}

	friends := make([]models.User, 0, len(ids))
	for _, id := range ids {
		friend, err := s.users.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.derive(ctx, friend); err != nil {
			return nil, err
		}
		friends = append(friends, *friend)
	}
	return friends, nil
}

// CommonFriends returns the friends of a that are also friends of b, in a's
// order.
func (s *UserService) CommonFriends(ctx context.Context, a, b int64) ([]models.User, error) {
	mine, err := s.Friends(ctx, a)
	if err != nil {
		return nil, err
	}
	theirs, err := s.friendIDs(ctx, b)
	if err != nil {
		return nil, err
	}

	other := make(map[int64]bool, len(theirs))
	for _, id := range theirs {
		other[id] = true
	}
	common := make([]models.User, 0)
	for _, u := range mine {
		if other[u.ID] {
			common = append(common, u)
		}
	}
	return common, nil
}

// Friendships returns a's outgoing records with their status.
func (s *UserService) Friendships(ctx context.Context, a int64) ([]models.Friendship, error) {
	if err := requireUser(ctx, s.users, a); err != nil {
		return nil, err
	}
	return s.friendships.List(ctx, a)
}

func (s *UserService) friendIDs(ctx context.Context, a int64) ([]int64, error) {
	records, err := s.Friendships(ctx, a)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(records))
	for i, f := range records {
		ids[i] = f.FriendID
	}
	return ids, nil
}

// derive fills the read-only relationship sets of user.
func (s *UserService) derive(ctx context.Context, user *models.User) error {
	records, err := s.friendships.List(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list friendships: %w", err)
	}
	user.Friends = make([]int64, len(records))
	for i, f := range records {
		user.Friends[i] = f.FriendID
	}

	liked, err := s.likes.FilmIDs(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list liked films: %w", err)
	}
	user.LikedFilms = liked
	return nil
}
