package repository

import (
	"context"
	"fmt"

	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/domain"
)

// LoadMovies returns the full catalog in matrix position order.
func (r *Repository) LoadMovies(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT external_id, title FROM movies ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over movies: %w", err)
	}
	return movies, nil
}

// CountMovies returns the catalog size.
func (r *Repository) CountMovies(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM movies`,
	).Scan(&total)

	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return total, nil
}
