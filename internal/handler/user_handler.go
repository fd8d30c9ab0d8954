package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-social-service/internal/models"
	"movie-discovery-social-service/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUser registers a new user.
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.User true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c fiber.Ctx) error {
	var user models.User
	if err := c.Bind().JSON(&user); err != nil {
		return badRequest(c, "invalid request body")
	}

	created, err := h.svc.Create(c.Context(), &user)
	if err != nil {
		return respondError(c, err, "failed to create user")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateUser replaces the user identified by the id in the body.
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.User true "User"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users [put]
func (h *UserHandler) UpdateUser(c fiber.Ctx) error {
	var user models.User
	if err := c.Bind().JSON(&user); err != nil {
		return badRequest(c, "invalid request body")
	}

	updated, err := h.svc.Update(c.Context(), &user)
	if err != nil {
		return respondError(c, err, "failed to update user")
	}
	return c.JSON(updated)
}

// ListUsers returns every user ordered by id.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c fiber.Ctx) error {
	users, err := h.svc.List(c.Context())
	if err != nil {
		return respondError(c, err, "failed to retrieve users")
	}
	return c.JSON(users)
}

// GetUser returns a user with their friends and liked films.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	user, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err, "failed to retrieve user")
	}
	return c.JSON(user)
}

// LikedFilms returns the ids of films the user likes.
// @Summary Liked films
// @Tags likes
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} int
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/liked-films [get]
func (h *UserHandler) LikedFilms(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	ids, err := h.svc.LikedFilms(c.Context(), id)
	if err != nil {
		return respondError(c, err, "failed to retrieve liked films")
	}
	return c.JSON(ids)
}

// AddFriend sends or accepts a friend request.
// @Summary Add friend
// @Tags friends
// @Param id path int true "User ID"
// @Param friendId path int true "Friend ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/friends/{friendId} [put]
func (h *UserHandler) AddFriend(c fiber.Ctx) error {
	id, friendID, ok := friendParams(c, "friendId")
	if !ok {
		return badRequest(c, "invalid user or friend ID")
	}
	if err := h.svc.AddFriend(c.Context(), id, friendID); err != nil {
		return respondError(c, err, "failed to add friend")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveFriend deletes the user's record pointing at the friend.
// @Summary Remove friend
// @Tags friends
// @Param id path int true "User ID"
// @Param friendId path int true "Friend ID"
// @Success 204
// @Router /users/{id}/friends/{friendId} [delete]
func (h *UserHandler) RemoveFriend(c fiber.Ctx) error {
	id, friendID, ok := friendParams(c, "friendId")
	if !ok {
		return badRequest(c, "invalid user or friend ID")
	}
	if err := h.svc.RemoveFriend(c.Context(), id, friendID); err != nil {
		return respondError(c, err, "failed to remove friend")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Friends lists the users this user has sent or confirmed requests to.
// @Summary List friends
// @Tags friends
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/friends [get]
func (h *UserHandler) Friends(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	friends, err := h.svc.Friends(c.Context(), id)
	if err != nil {
		return respondError(c, err, "failed to retrieve friends")
	}
	return c.JSON(friends)
}

// CommonFriends lists friends shared by two users.
// @Summary Common friends
// @Tags friends
// @Produce json
// @Param id path int true "User ID"
// @Param otherId path int true "Other user ID"
// @Success 200 {array} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/friends/common/{otherId} [get]
func (h *UserHandler) CommonFriends(c fiber.Ctx) error {
	id, otherID, ok := friendParams(c, "otherId")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	common, err := h.svc.CommonFriends(c.Context(), id, otherID)
	if err != nil {
		return respondError(c, err, "failed to retrieve common friends")
	}
	return c.JSON(common)
}

// Friendships lists the user's outgoing records with their status.
// @Summary Friendship records
// @Tags friends
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Friendship
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/friendships [get]
func (h *UserHandler) Friendships(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	records, err := h.svc.Friendships(c.Context(), id)
	if err != nil {
		return respondError(c, err, "failed to retrieve friendships")
	}
	return c.JSON(records)
}

func friendParams(c fiber.Ctx, other string) (id, otherID int64, ok bool) {
	if id, ok = paramID(c, "id"); !ok {
		return 0, 0, false
	}
	otherID, ok = paramID(c, other)
	return id, otherID, ok
}
