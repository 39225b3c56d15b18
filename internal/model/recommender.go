package model

import (
	"fmt"
	"sort"

	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/dataset"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/domain"
)

// Recommender ranks catalog neighbors of a movie by precomputed similarity.
// It is a pure function of the immutable dataset and the query.
type Recommender struct {
	data *dataset.Dataset
}

func NewRecommender(data *dataset.Dataset) *Recommender {
	return &Recommender{data: data}
}

// Recommend returns the count most similar movies to title, descending by
// similarity score. The queried movie itself is excluded. Ties keep the
// original catalog order so repeated calls are deterministic.
func (r *Recommender) Recommend(title string, count int) ([]domain.ScoredMovie, error) {
	pos, ok := r.data.Position(title)
	if !ok {
		return nil, fmt.Errorf("%q: %w", title, domain.ErrMovieNotFound)
	}

	row := r.data.SimilarityRow(pos)

	candidates := make([]int, 0, len(row)-1)
	for i := range row {
		if i != pos {
			candidates = append(candidates, i)
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return row[candidates[a]] > row[candidates[b]]
	})

	if count > len(candidates) {
		count = len(candidates)
	}

	scored := make([]domain.ScoredMovie, 0, count)
	for _, idx := range candidates[:count] {
		m := r.data.Movie(idx)
		scored = append(scored, domain.ScoredMovie{
			MovieID: m.ID,
			Title:   m.Title,
			Score:   row[idx],
		})
	}

	return scored, nil
}
