package models

// User is a registered user. Friends and LikedFilms are derived from the
// friendship and like ledgers on read and never stored with the user.
type User struct {
	ID         int64   `json:"id"`
	Email      string  `json:"email" validate:"required,email"`
	Login      string  `json:"login" validate:"notblank"`
	Name       string  `json:"name"`
	Birthday   Date    `json:"birthday"`
	Friends    []int64 `json:"friends"`
	LikedFilms []int64 `json:"liked_films"`
}

// Clone returns a copy without the derived relationship sets.
func (u *User) Clone() *User {
	c := *u
	c.Friends = nil
	c.LikedFilms = nil
	return &c
}

// Like records that a user liked a film.
type Like struct {
	UserID int64 `json:"user_id"`
	FilmID int64 `json:"film_id"`
}
