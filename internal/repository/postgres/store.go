// Package postgres implements the repository interfaces over database/sql
// with the lib/pq driver. The schema is created by internal/database.
package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"movie-discovery-social-service/internal/repository"
)

// foreignKeyViolation is the SQLSTATE raised when a referenced row is missing.
const foreignKeyViolation pq.ErrorCode = "23503"

// NewStore returns every repository backed by db.
func NewStore(db *sql.DB) repository.Store {
	return repository.Store{
		Films:       NewFilmRepository(db),
		Users:       NewUserRepository(db),
		Likes:       NewLikeRepository(db),
		Friendships: NewFriendshipRepository(db),
		Genres:      NewGenreRepository(db),
		Mpa:         NewMpaRepository(db),
	}
}

// violatedForeignKey returns the constraint name when err is a foreign key
// violation.
func violatedForeignKey(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

func exists(row *sql.Row) (bool, error) {
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
