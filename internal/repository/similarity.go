package repository

import (
	"context"
	"fmt"
)

// LoadSimilarity reads every matrix cell and assembles the full square
// matrix in position order. dim must equal the catalog size.
func (r *Repository) LoadSimilarity(ctx context.Context, dim int) ([][]float64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT row_pos, col_pos, score FROM similarity ORDER BY row_pos, col_pos`,
	)
	if err != nil {
		return nil, fmt.Errorf("query similarity: %w", err)
	}
	defer rows.Close()

	matrix := make([][]float64, dim)
	for i := range matrix {
		matrix[i] = make([]float64, dim)
	}

	count := 0
	for rows.Next() {
		var rowPos, colPos int
		var score float64
		if err := rows.Scan(&rowPos, &colPos, &score); err != nil {
			return nil, fmt.Errorf("scan similarity cell: %w", err)
		}
		if rowPos < 0 || rowPos >= dim || colPos < 0 || colPos >= dim {
			return nil, fmt.Errorf("similarity cell (%d,%d) out of range for dimension %d", rowPos, colPos, dim)
		}
		matrix[rowPos][colPos] = score
		count++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over similarity cells: %w", err)
	}
	if count != dim*dim {
		return nil, fmt.Errorf("similarity has %d cells, expected %d", count, dim*dim)
	}
	return matrix, nil
}
