package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"movie-discovery-social-service/internal/models"
)

type FriendshipRepository struct {
	db *sql.DB
}

func NewFriendshipRepository(db *sql.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Save upserts the directional record; created_at is kept on overwrite.
func (r *FriendshipRepository) Save(ctx context.Context, userID, friendID int64, status models.FriendshipStatus) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO friendships (user_id, friend_id, status) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, friend_id) DO UPDATE SET status = EXCLUDED.status
	`, userID, friendID, string(status))
	if constraint, ok := violatedForeignKey(err); ok {
		if constraint == "friendships_friend_id_fkey" {
			return models.NewNotFound(models.EntityUser, friendID)
		}
		return models.NewNotFound(models.EntityUser, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to save friendship: %w", err)
	}
	return nil
}

func (r *FriendshipRepository) Exists(ctx context.Context, userID, friendID int64) (bool, error) {
	return exists(r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)
	`, userID, friendID))
}

// Confirm promotes both directions in one statement.
func (r *FriendshipRepository) Confirm(ctx context.Context, a, b int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE friendships SET status = $3
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`, a, b, string(models.FriendshipConfirmed))
	if err != nil {
		return fmt.Errorf("failed to confirm friendship: %w", err)
	}
	return nil
}

func (r *FriendshipRepository) Delete(ctx context.Context, userID, friendID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2
	`, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("failed to delete friendship: %w", err)
	}
	return changed(res)
}

// List returns the user's outgoing records, oldest first.
func (r *FriendshipRepository) List(ctx context.Context, userID int64) ([]models.Friendship, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, friend_id, status, created_at FROM friendships
		WHERE user_id = $1
		ORDER BY created_at, friend_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	defer rows.Close()

	friendships := make([]models.Friendship, 0)
	for rows.Next() {
		var (
			f      models.Friendship
			status string
		)
		if err := rows.Scan(&f.UserID, &f.FriendID, &status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		f.Status = models.FriendshipStatus(status)
		friendships = append(friendships, f)
	}
	return friendships, rows.Err()
}
