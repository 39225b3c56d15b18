package dataset

import (
	"fmt"

	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/domain"
)

// Dataset holds the movie catalog and the precomputed similarity matrix.
// It is built once at startup and never mutated afterwards, so it is safe
// to share across handler goroutines without locking.
type Dataset struct {
	movies     []domain.Movie
	titleIndex map[string]int
	similarity [][]float64
}

// New validates the artifacts and builds the title index.
// Validation enforces: matrix is square with dimension equal to the catalog
// size, titles are unique, and every row's diagonal is the row maximum.
func New(movies []domain.Movie, similarity [][]float64) (*Dataset, error) {
	if len(movies) == 0 {
		return nil, fmt.Errorf("empty movie catalog")
	}
	if len(similarity) != len(movies) {
		return nil, fmt.Errorf("similarity matrix has %d rows, catalog has %d movies", len(similarity), len(movies))
	}

	index := make(map[string]int, len(movies))
	for i, m := range movies {
		if m.Title == "" {
			return nil, fmt.Errorf("movie at position %d has empty title", i)
		}
		if prev, ok := index[m.Title]; ok {
			return nil, fmt.Errorf("duplicate title %q at positions %d and %d", m.Title, prev, i)
		}
		index[m.Title] = i
	}

	for i, row := range similarity {
		if len(row) != len(movies) {
			return nil, fmt.Errorf("similarity row %d has %d columns, expected %d", i, len(row), len(movies))
		}
		for j, v := range row {
			if v > row[i] {
				return nil, fmt.Errorf("similarity[%d][%d]=%f exceeds self-similarity %f", i, j, v, row[i])
			}
		}
	}

	return &Dataset{
		movies:     movies,
		titleIndex: index,
		similarity: similarity,
	}, nil
}

// Len returns the number of movies in the catalog.
func (d *Dataset) Len() int {
	return len(d.movies)
}

// Position returns the matrix position of a title.
func (d *Dataset) Position(title string) (int, bool) {
	i, ok := d.titleIndex[title]
	return i, ok
}

// Movie returns the movie at a matrix position.
func (d *Dataset) Movie(pos int) domain.Movie {
	return d.movies[pos]
}

// SimilarityRow returns the similarity scores of the movie at pos
// against every movie in the catalog, in catalog order.
func (d *Dataset) SimilarityRow(pos int) []float64 {
	return d.similarity[pos]
}

// Movies returns a page of the catalog in original order.
func (d *Dataset) Movies(page, limit int) []domain.Movie {
	offset := (page - 1) * limit
	if offset >= len(d.movies) {
		return nil
	}
	end := offset + limit
	if end > len(d.movies) {
		end = len(d.movies)
	}
	return d.movies[offset:end]
}
