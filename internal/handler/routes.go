package handler

import (
	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Films     *FilmHandler
	Users     *UserHandler
	Reference *ReferenceHandler
}

// RegisterRoutes mounts the API on router behind the given middleware.
func RegisterRoutes(router fiber.Router, h Handlers, mw ...fiber.Handler) {
	api := router.Group("/api/v1")
	for _, m := range mw {
		api.Use(m)
	}

	api.Get("/health", h.Reference.Health)

	api.Post("/films", h.Films.CreateFilm)
	api.Put("/films", h.Films.UpdateFilm)
	api.Get("/films", h.Films.ListFilms)
	api.Get("/films/popular", h.Films.PopularFilms)
	api.Get("/films/:id", h.Films.GetFilm)
	api.Put("/films/:id/like/:userId", h.Films.LikeFilm)
	api.Delete("/films/:id/like/:userId", h.Films.UnlikeFilm)

	api.Post("/users", h.Users.CreateUser)
	api.Put("/users", h.Users.UpdateUser)
	api.Get("/users", h.Users.ListUsers)
	api.Get("/users/:id", h.Users.GetUser)
	api.Get("/users/:id/liked-films", h.Users.LikedFilms)
	api.Get("/users/:id/friends", h.Users.Friends)
	api.Get("/users/:id/friends/common/:otherId", h.Users.CommonFriends)
	api.Put("/users/:id/friends/:friendId", h.Users.AddFriend)
	api.Delete("/users/:id/friends/:friendId", h.Users.RemoveFriend)
	api.Get("/users/:id/friendships", h.Users.Friendships)

	api.Get("/genres", h.Reference.ListGenres)
	api.Get("/genres/:id", h.Reference.GetGenre)
	api.Get("/mpa", h.Reference.ListMpa)
	api.Get("/mpa/:id", h.Reference.GetMpa)
}
