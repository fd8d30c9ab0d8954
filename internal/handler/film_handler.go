package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-social-service/internal/models"
	"movie-discovery-social-service/internal/service"
)

// FilmHandler handles HTTP requests for films and likes.
type FilmHandler struct {
	svc *service.FilmService
}

// NewFilmHandler creates a new FilmHandler.
func NewFilmHandler(svc *service.FilmService) *FilmHandler {
	return &FilmHandler{svc: svc}
}

// CreateFilm adds a film to the catalog.
// @Summary Create film
// @Tags films
// @Accept json
// @Produce json
// @Param film body models.Film true "Film"
// @Success 201 {object} models.Film
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /films [post]
func (h *FilmHandler) CreateFilm(c fiber.Ctx) error {
	var film models.Film
	if err := c.Bind().JSON(&film); err != nil {
		return badRequest(c, "invalid request body")
	}

	created, err := h.svc.Create(c.Context(), &film)
	if err != nil {
		return respondError(c, err, "failed to create film")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateFilm replaces the film identified by the id in the body.
// @Summary Update film
// @Tags films
// @Accept json
// @Produce json
// @Param film body models.Film true "Film"
// @Success 200 {object} models.Film
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /films [put]
func (h *FilmHandler) UpdateFilm(c fiber.Ctx) error {
	var film models.Film
	if err := c.Bind().JSON(&film); err != nil {
		return badRequest(c, "invalid request body")
	}

	updated, err := h.svc.Update(c.Context(), &film)
	if err != nil {
		return respondError(c, err, "failed to update film")
	}
	return c.JSON(updated)
}

// ListFilms returns every film ordered by id.
// @Summary List films
// @Tags films
// @Produce json
// @Success 200 {array} models.Film
// @Router /films [get]
func (h *FilmHandler) ListFilms(c fiber.Ctx) error {
	films, err := h.svc.List(c.Context())
	if err != nil {
		return respondError(c, err, "failed to retrieve films")
	}
	return c.JSON(films)
}

// GetFilm returns a single film.
// @Summary Get film
// @Tags films
// @Produce json
// @Param id path int true "Film ID"
// @Success 200 {object} models.Film
// @Failure 404 {object} ErrorResponse
// @Router /films/{id} [get]
func (h *FilmHandler) GetFilm(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid film ID")
	}

	film, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err, "failed to retrieve film")
	}
	return c.JSON(film)
}

// PopularFilms returns the most liked films.
// @Summary Most popular films
// @Tags films
// @Produce json
// @Param count query int false "Number of films" default(10)
// @Success 200 {array} models.Film
// @Failure 400 {object} ErrorResponse
// @Router /films/popular [get]
func (h *FilmHandler) PopularFilms(c fiber.Ctx) error {
	count := service.DefaultPopularCount
	if raw := c.Query("count"); raw != "" {
		n, ok := parseInt(raw)
		if !ok {
			return badRequest(c, "invalid count")
		}
		count = n
	}

	films, err := h.svc.MostPopular(c.Context(), count)
	if err != nil {
		return respondError(c, err, "failed to retrieve popular films")
	}
	return c.JSON(films)
}

// LikeFilm records a like from a user.
// @Summary Like film
// @Tags likes
// @Param id path int true "Film ID"
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /films/{id}/like/{userId} [put]
func (h *FilmHandler) LikeFilm(c fiber.Ctx) error {
	filmID, userID, ok := likeParams(c)
	if !ok {
		return badRequest(c, "invalid film or user ID")
	}
	if err := h.svc.Like(c.Context(), filmID, userID); err != nil {
		return respondError(c, err, "failed to like film")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnlikeFilm removes a user's like.
// @Summary Unlike film
// @Tags likes
// @Param id path int true "Film ID"
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /films/{id}/like/{userId} [delete]
func (h *FilmHandler) UnlikeFilm(c fiber.Ctx) error {
	filmID, userID, ok := likeParams(c)
	if !ok {
		return badRequest(c, "invalid film or user ID")
	}
	if err := h.svc.Unlike(c.Context(), filmID, userID); err != nil {
		return respondError(c, err, "failed to unlike film")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func likeParams(c fiber.Ctx) (filmID, userID int64, ok bool) {
	if filmID, ok = paramID(c, "id"); !ok {
		return 0, 0, false
	}
	userID, ok = paramID(c, "userId")
	return filmID, userID, ok
}
