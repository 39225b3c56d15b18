package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/domain"
)

const (
	moviesFile     = "movies.json"
	similarityFile = "similarity.json"
)

// LoadDir reads the two dataset artifacts from dir: movies.json, an array
// of {id, title} records in catalog order, and similarity.json, a square
// matrix of scores aligned with that order.
func LoadDir(dir string) (*Dataset, error) {
	var movies []domain.Movie
	if err := readJSON(filepath.Join(dir, moviesFile), &movies); err != nil {
		return nil, fmt.Errorf("load movie catalog: %w", err)
	}

	var similarity [][]float64
	if err := readJSON(filepath.Join(dir, similarityFile), &similarity); err != nil {
		return nil, fmt.Errorf("load similarity matrix: %w", err)
	}

	return New(movies, similarity)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
