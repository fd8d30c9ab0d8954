package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-social-service/internal/metrics"
)

// Metrics records request count and latency labelled by the matched route
// pattern, so ids in paths do not create new series.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.RecordAPIRequest(c.Method(), c.Route().Path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
