package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"movie-discovery-social-service/internal/models"
)

// LikeRepository stores likes in a table keyed by (user_id, film_id), so a
// second insert of the same pair is a no-op even across processes.
type LikeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Add(ctx context.Context, userID, filmID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO likes (user_id, film_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, filmID)
	if constraint, ok := violatedForeignKey(err); ok {
		if constraint == "likes_user_id_fkey" {
			return false, models.NewNotFound(models.EntityUser, userID)
		}
		return false, models.NewNotFound(models.EntityFilm, filmID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	return changed(res)
}

func (r *LikeRepository) Remove(ctx context.Context, userID, filmID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND film_id = $2
	`, userID, filmID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return changed(res)
}

// FilmIDs returns the ids of films liked by the user.
func (r *LikeRepository) FilmIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT film_id FROM likes WHERE user_id = $1 ORDER BY film_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func changed(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
