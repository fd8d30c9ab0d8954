package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-social-service/internal/cache"
	"movie-discovery-social-service/internal/models"
	"movie-discovery-social-service/internal/repository/memory"
	"movie-discovery-social-service/internal/service"
)

func newTestApp(mw ...fiber.Handler) *fiber.App {
	store := memory.NewStore()
	c := cache.New(nil)
	refs := service.NewReferenceService(store.Genres, store.Mpa, c)

	app := fiber.New()
	RegisterRoutes(app, Handlers{
		Films:     NewFilmHandler(service.NewFilmService(store, refs, c, time.Minute)),
		Users:     NewUserHandler(service.NewUserService(store)),
		Reference: NewReferenceHandler(refs),
	}, mw...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

const filmJSON = `{"name":"The Matrix","description":"Wake up, Neo","release_date":"1999-03-31","duration":136,"rate":50,"mpa":{"id":4},"genres":[{"id":6},{"id":4},{"id":6}]}`

func userJSON(login string) string {
	return `{"email":"` + login + `@example.com","login":"` + login + `","name":"","birthday":"1990-01-02"}`
}

func TestCreateAndGetFilm(t *testing.T) {
	app := newTestApp()

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/films", filmJSON)
	require.Equal(t, http.StatusCreated, status, string(body))

	var created models.Film
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, 0, created.Rate)
	assert.Equal(t, "R", created.Mpa.Name)
	assert.Equal(t, []models.Genre{{ID: 6, Name: "Action"}, {ID: 4, Name: "Thriller"}}, created.Genres)
	assert.Equal(t, "1999-03-31", created.ReleaseDate.String())

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/films/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"release_date":"1999-03-31"`)
}

func TestFilmErrorsMapToStatusCodes(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown film", http.MethodGet, "/api/v1/films/42", "", http.StatusNotFound},
		{"malformed id", http.MethodGet, "/api/v1/films/abc", "", http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/films", `{"name":`, http.StatusBadRequest},
		{"release date too early", http.MethodPost, "/api/v1/films",
			`{"name":"x","release_date":"1895-12-27","duration":1,"mpa":{"id":1}}`, http.StatusBadRequest},
		{"unknown mpa", http.MethodPost, "/api/v1/films",
			`{"name":"x","release_date":"2000-01-01","duration":1,"mpa":{"id":9}}`, http.StatusNotFound},
		{"update unknown film", http.MethodPut, "/api/v1/films",
			`{"id":5,"name":"x","release_date":"2000-01-01","duration":1,"mpa":{"id":1}}`, http.StatusNotFound},
		{"popular count zero", http.MethodGet, "/api/v1/films/popular?count=0", "", http.StatusBadRequest},
		{"popular count not a number", http.MethodGet, "/api/v1/films/popular?count=ten", "", http.StatusBadRequest},
		{"like unknown film", http.MethodPut, "/api/v1/films/3/like/1", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status, string(body))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestLikesAndPopular(t *testing.T) {
	app := newTestApp()

	for i := 0; i < 3; i++ {
		status, _ := doRequest(t, app, http.MethodPost, "/api/v1/films", filmJSON)
		require.Equal(t, http.StatusCreated, status)
	}
	for _, login := range []string{"a", "b"} {
		status, _ := doRequest(t, app, http.MethodPost, "/api/v1/users", userJSON(login))
		require.Equal(t, http.StatusCreated, status)
	}

	for _, path := range []string{
		"/api/v1/films/3/like/1",
		"/api/v1/films/3/like/2",
		"/api/v1/films/2/like/1",
		"/api/v1/films/2/like/1",
	} {
		status, _ := doRequest(t, app, http.MethodPut, path, "")
		require.Equal(t, http.StatusNoContent, status)
	}

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/films/popular?count=2", "")
	require.Equal(t, http.StatusOK, status)
	var top []models.Film
	require.NoError(t, json.Unmarshal(body, &top))
	require.Len(t, top, 2)
	assert.Equal(t, int64(3), top[0].ID)
	assert.Equal(t, 2, top[0].Rate)
	assert.Equal(t, int64(2), top[1].ID)
	assert.Equal(t, 1, top[1].Rate)

	status, _ = doRequest(t, app, http.MethodDelete, "/api/v1/films/3/like/2", "")
	require.Equal(t, http.StatusNoContent, status)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/users/1/liked-films", "")
	require.Equal(t, http.StatusOK, status)
	var liked []int64
	require.NoError(t, json.Unmarshal(body, &liked))
	assert.ElementsMatch(t, []int64{2, 3}, liked)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/films/popular", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &top))
	assert.Len(t, top, 3)
}

func TestUsersAndFriends(t *testing.T) {
	app := newTestApp()

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/users", userJSON("neo"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var neo models.User
	require.NoError(t, json.Unmarshal(body, &neo))
	assert.Equal(t, "neo", neo.Name)

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/users", userJSON("trinity"))
	require.Equal(t, http.StatusCreated, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/users",
		`{"email":"x@example.com","login":"has space","birthday":"1990-01-02"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodPut, "/api/v1/users/1/friends/1", "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = doRequest(t, app, http.MethodPut, "/api/v1/users/1/friends/9", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodPut, "/api/v1/users/1/friends/2", "")
	require.Equal(t, http.StatusNoContent, status)
	status, _ = doRequest(t, app, http.MethodPut, "/api/v1/users/2/friends/1", "")
	require.Equal(t, http.StatusNoContent, status)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/users/1/friendships", "")
	require.Equal(t, http.StatusOK, status)
	var records []models.Friendship
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	assert.Equal(t, models.FriendshipConfirmed, records[0].Status)

	status, _ = doRequest(t, app, http.MethodDelete, "/api/v1/users/1/friends/2", "")
	require.Equal(t, http.StatusNoContent, status)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/users/2/friends", "")
	require.Equal(t, http.StatusOK, status)
	var friends []models.User
	require.NoError(t, json.Unmarshal(body, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, int64(1), friends[0].ID)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/users/1/friends/common/2", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/users/2", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"friends":[1]`)
}

func TestReferenceEndpoints(t *testing.T) {
	app := newTestApp()

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/genres", "")
	require.Equal(t, http.StatusOK, status)
	var genres []models.Genre
	require.NoError(t, json.Unmarshal(body, &genres))
	assert.Len(t, genres, 6)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/mpa/3", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":3,"name":"PG-13"}`, string(body))

	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/genres/99", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestMetricsAndSwaggerRoutes(t *testing.T) {
	app := fiber.New()
	RegisterMetrics(app)
	RegisterSwagger(app, "Social <Service>", []byte("openapi: 3.0.3\n"))

	status, body := doRequest(t, app, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "go_goroutines")

	status, body = doRequest(t, app, http.MethodGet, "/swagger/doc.yaml", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "openapi: 3.0.3\n", string(body))

	status, body = doRequest(t, app, http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "swagger-ui")
	assert.Contains(t, string(body), "<title>Social &lt;Service&gt; - API docs</title>")
	assert.Contains(t, string(body), `url: "/swagger/doc.yaml"`)
}

func TestRegisterRoutesAppliesMiddlewareToAPI(t *testing.T) {
	var calls int
	app := newTestApp(func(c fiber.Ctx) error {
		calls++
		c.Set("X-Api-Middleware", "on")
		return c.Next()
	})
	app.Get("/outside", func(c fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "on", resp.Header.Get("X-Api-Middleware"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/outside", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Api-Middleware"))
	assert.Equal(t, 1, calls)
}
