package models

import "time"

// FriendshipStatus is the lifecycle state of a directional friend request.
type FriendshipStatus string

const (
	FriendshipPending   FriendshipStatus = "PENDING"
	FriendshipConfirmed FriendshipStatus = "CONFIRMED"
)

// Friendship is a directional record UserID -> FriendID.
type Friendship struct {
	UserID    int64            `json:"user_id"`
	FriendID  int64            `json:"friend_id"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
