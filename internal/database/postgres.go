package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"movie-discovery-social-service/internal/config"
	"movie-discovery-social-service/internal/models"
)

// NewPostgres creates a new PostgreSQL connection, runs migrations and seeds
// the reference tables.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := seedReference(db); err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS mpa (
		id BIGINT PRIMARY KEY,
		name VARCHAR(20) UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id BIGINT PRIMARY KEY,
		name VARCHAR(100) UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS films (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description VARCHAR(200) NOT NULL DEFAULT '',
		release_date DATE NOT NULL,
		duration INTEGER NOT NULL CHECK (duration > 0),
		rate INTEGER NOT NULL DEFAULT 0 CHECK (rate >= 0),
		mpa_id BIGINT NOT NULL REFERENCES mpa(id)
	)`,
	`CREATE TABLE IF NOT EXISTS film_genres (
		film_id BIGINT REFERENCES films(id) ON DELETE CASCADE,
		genre_id BIGINT REFERENCES genres(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		PRIMARY KEY (film_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		login VARCHAR(100) NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		birthday DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS likes (
		user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
		film_id BIGINT REFERENCES films(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, film_id)
	)`,
	`CREATE TABLE IF NOT EXISTS friendships (
		user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
		friend_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(16) NOT NULL CHECK (status IN ('PENDING', 'CONFIRMED')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
		PRIMARY KEY (user_id, friend_id),
		CHECK (user_id <> friend_id)
	)`,
	// Indexes for common query patterns
	`CREATE INDEX IF NOT EXISTS idx_films_rate ON films(rate DESC, id)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_film_id ON likes(film_id)`,
	`CREATE INDEX IF NOT EXISTS idx_friendships_created_at ON friendships(user_id, created_at)`,
}

func runMigrations(db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}

// seedReference inserts the default genres and MPA ratings with ids 1..n.
// Existing rows are left alone.
func seedReference(db *sql.DB) error {
	tables := []struct {
		name  string
		query string
		rows  []string
	}{
		{"mpa", `INSERT INTO mpa (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, models.DefaultMpaRatings},
		{"genres", `INSERT INTO genres (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, models.DefaultGenres},
	}
	for _, t := range tables {
		for i, name := range t.rows {
			if _, err := db.Exec(t.query, i+1, name); err != nil {
				return fmt.Errorf("failed to seed %s %q: %w", t.name, name, err)
			}
		}
	}
	return nil
}
