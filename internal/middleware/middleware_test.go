package middleware

import (
	"net/http"
	"strings"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-social-service/internal/metrics"
)

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(NewRateLimiter(nil, 1, 60).Handler())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	app := fiber.New()
	app.Use(NewRateLimiter(rdb, 1, 60).Handler())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/films/:id", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/films/:id", "204")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/films/1", "/films/2"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func newLimitedApp(t *testing.T, maxReqs int) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := fiber.New()
	app.Use(NewRateLimiter(rdb, maxReqs, 60).Handler())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })
	return app, mr
}

func limiterKey(t *testing.T, mr *miniredis.Miniredis) string {
	t.Helper()
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, "ratelimit:") {
			return k
		}
	}
	t.Fatal("no rate limit counter stored")
	return ""
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	app, mr := newLimitedApp(t, 2)
	rejected := testutil.ToFloat64(metrics.RateLimitRejections)

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "request %d", i+1)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	assert.Equal(t, rejected+1, testutil.ToFloat64(metrics.RateLimitRejections))
	assert.Equal(t, time.Minute, mr.TTL(limiterKey(t, mr)))

	mr.FastForward(61 * time.Second)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestRateLimiterRestoresMissingExpiry(t *testing.T) {
	app, mr := newLimitedApp(t, 5)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Recreate the counter without an expiry.
	key := limiterKey(t, mr)
	mr.Del(key)
	require.NoError(t, mr.Set(key, "1"))
	require.Zero(t, mr.TTL(key))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, time.Minute, mr.TTL(key))

	// An existing expiry is not pushed back by later requests.
	mr.FastForward(30 * time.Second)
	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mr.TTL(key))
}
