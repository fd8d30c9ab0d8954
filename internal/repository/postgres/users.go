package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"movie-discovery-social-service/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	stored := user.Clone()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Email, user.Login, user.Name, user.Birthday.Time).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return stored, nil
}

// Update overwrites the user's columns.
func (r *UserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE id = $5
	`, user.Email, user.Login, user.Name, user.Birthday.Time, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return nil, models.NewNotFound(models.EntityUser, user.ID)
	}
	return user.Clone(), nil
}

// Get returns a user by ID.
func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, login, name, birthday FROM users WHERE id = $1
	`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(models.EntityUser, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, login, name, birthday FROM users ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id))
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user     models.User
		birthday time.Time
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &birthday); err != nil {
		return nil, err
	}
	user.Birthday = models.DateOf(birthday)
	return &user, nil
}
