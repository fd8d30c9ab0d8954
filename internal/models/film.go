package models

import "time"

// CinemaBirthday is the earliest accepted release date.
var CinemaBirthday = NewDate(1895, time.December, 28)

// MaxDescriptionLength is the description limit in characters.
const MaxDescriptionLength = 200

// Film is a catalog entry. Rate is the like count and is written only by the
// like ledger.
type Film struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"notblank"`
	Description string  `json:"description"`
	ReleaseDate Date    `json:"release_date"`
	Duration    int     `json:"duration" validate:"gt=0"`
	Rate        int     `json:"rate"`
	Mpa         *Mpa    `json:"mpa" validate:"required"`
	Genres      []Genre `json:"genres"`
}

// GenreIDs returns the film's genre ids with duplicates removed, keeping the
// first occurrence order.
func (f *Film) GenreIDs() []int64 {
	seen := make(map[int64]bool, len(f.Genres))
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		ids = append(ids, g.ID)
	}
	return ids
}

// Clone returns a deep copy safe to hand out of a store.
func (f *Film) Clone() *Film {
	c := *f
	if f.Mpa != nil {
		mpa := *f.Mpa
		c.Mpa = &mpa
	}
	c.Genres = append([]Genre(nil), f.Genres...)
	return &c
}
