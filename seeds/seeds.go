package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Setup fills an empty database with a deterministic sample catalog and a
// pairwise similarity matrix, so the service is usable before real
// artifacts are imported.
func Setup(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	logger.Info().Msg("seed: truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE similarity, movies
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	movies := sampleMovies()

	logger.Info().Int("count", len(movies)).Msg("seed: inserting movies")
	if err := seedMovies(ctx, pool, rng, movies); err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	logger.Info().Msg("seed: inserting similarity matrix")
	if err := seedSimilarity(ctx, pool, rng, movies); err != nil {
		return fmt.Errorf("seed similarity: %w", err)
	}

	logger.Info().Msg("seed: complete")
	return nil
}

type sampleMovie struct {
	title string
	genre string
}

func sampleMovies() []sampleMovie {
	titles := map[string][]string{
		"action": {
			"Die Hard", "Mad Max: Fury Road", "John Wick", "The Dark Knight",
			"Gladiator", "Top Gun: Maverick", "The Raid", "Mission: Impossible",
			"Casino Royale", "The Avengers",
		},
		"drama": {
			"The Shawshank Redemption", "Forrest Gump", "The Godfather",
			"Schindler's List", "A Beautiful Mind", "12 Angry Men",
			"Parasite", "Moonlight", "Whiplash", "The Green Mile",
		},
		"comedy": {
			"Superbad", "The Hangover", "Bridesmaids", "Step Brothers",
			"Anchorman", "Mean Girls", "Borat", "Hot Fuzz",
			"Groundhog Day", "The Grand Budapest Hotel",
		},
		"thriller": {
			"Se7en", "Gone Girl", "Zodiac", "Prisoners",
			"Sicario", "No Country for Old Men", "Nightcrawler",
			"Shutter Island", "The Silence of the Lambs", "Oldboy",
		},
		"sci-fi": {
			"Blade Runner 2049", "Interstellar", "The Matrix", "Arrival",
			"Dune", "Ex Machina", "Alien", "Inception",
			"Edge of Tomorrow", "2001: A Space Odyssey",
		},
	}
	genres := []string{"action", "drama", "comedy", "thriller", "sci-fi"}

	var movies []sampleMovie
	for i := 0; i < 10; i++ {
		for _, genre := range genres {
			movies = append(movies, sampleMovie{title: titles[genre][i], genre: genre})
		}
	}
	return movies
}

func seedMovies(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, movies []sampleMovie) error {
	rows := []string{}
	args := []any{}

	for i, m := range movies {
		// Fake but stable external catalog keys
		externalID := fmt.Sprintf("%d", 10000+rng.Intn(90000))

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, i, externalID, m.title)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO movies (position, external_id, title) VALUES " + strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedSimilarity(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, movies []sampleMovie) error {
	n := len(movies)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}

	// Symmetric scores: shared genre raises the base closeness
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			base := 0.15
			if movies[i].genre == movies[j].genre {
				base = 0.55
			}
			score := base + rng.Float64()*0.3
			score = math.Round(score*10000) / 10000
			matrix[i][j] = score
			matrix[j][i] = score
		}
	}

	const chunkSize = 1000

	rows := []string{}
	args := []any{}
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		query := "INSERT INTO similarity (row_pos, col_pos, score) VALUES " + strings.Join(rows, ", ")
		if _, err := pool.Exec(ctx, query, args...); err != nil {
			return err
		}
		rows = rows[:0]
		args = args[:0]
		return nil
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			base := len(args)
			rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
			args = append(args, i, j, matrix[i][j])

			if len(rows) >= chunkSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}

	return flush()
}
