package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-social-service/internal/service"
)

// ReferenceHandler serves the genre and MPA rating tables.
type ReferenceHandler struct {
	svc *service.ReferenceService
}

func NewReferenceHandler(svc *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{svc: svc}
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *ReferenceHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "social-service",
	})
}

// ListGenres returns every genre.
// @Summary List genres
// @Tags reference
// @Produce json
// @Success 200 {array} models.Genre
// @Router /genres [get]
func (h *ReferenceHandler) ListGenres(c fiber.Ctx) error {
	genres, err := h.svc.Genres(c.Context())
	if err != nil {
		return respondError(c, err, "failed to retrieve genres")
	}
	return c.JSON(genres)
}

// GetGenre returns a single genre.
// @Summary Get genre
// @Tags reference
// @Produce json
// @Param id path int true "Genre ID"
// @Success 200 {object} models.Genre
// @Failure 404 {object} ErrorResponse
// @Router /genres/{id} [get]
func (h *ReferenceHandler) GetGenre(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid genre ID")
	}
	genre, err := h.svc.Genre(c.Context(), id)
	if err != nil {
		return respondError(c, err, "failed to retrieve genre")
	}
	return c.JSON(genre)
}

// ListMpa returns every MPA rating.
// @Summary List MPA ratings
// @Tags reference
// @Produce json
// @Success 200 {array} models.Mpa
// @Router /mpa [get]
func (h *ReferenceHandler) ListMpa(c fiber.Ctx) error {
	ratings, err := h.svc.MpaRatings(c.Context())
	if err != nil {
		return respondError(c, err, "failed to retrieve mpa ratings")
	}
	return c.JSON(ratings)
}

// GetMpa returns a single MPA rating.
// @Summary Get MPA rating
// @Tags reference
// @Produce json
// @Param id path int true "MPA rating ID"
// @Success 200 {object} models.Mpa
// @Failure 404 {object} ErrorResponse
// @Router /mpa/{id} [get]
func (h *ReferenceHandler) GetMpa(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid mpa rating ID")
	}
	mpa, err := h.svc.Mpa(c.Context(), id)
	if err != nil {
		return respondError(c, err, "failed to retrieve mpa rating")
	}
	return c.JSON(mpa)
}
