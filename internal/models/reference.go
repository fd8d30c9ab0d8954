package models

// Genre is static reference data.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Mpa is a film rating classification.
type Mpa struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// DefaultGenres is seeded into every backend, ids assigned in order from 1.
var DefaultGenres = []string{
	"Comedy",
	"Drama",
	"Animation",
	"Thriller",
	"Documentary",
	"Action",
}

// DefaultMpaRatings is seeded into every backend, ids assigned in order from 1.
var DefaultMpaRatings = []string{
	"G",
	"PG",
	"PG-13",
	"R",
	"NC-17",
}
