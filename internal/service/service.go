package service

import (
	"context"
	"sync"

	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/cache"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/dataset"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/domain"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/model"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/poster"
	"github.com/rs/zerolog"
)

const (
	defaultLimit = 5
	maxLimit     = 50
)

type Service struct {
	data        *dataset.Dataset
	recommender *model.Recommender
	fetcher     *poster.Fetcher
	respCache   *cache.Cache // nil when no Redis is configured
	workers     int
	logger      zerolog.Logger
}

func New(data *dataset.Dataset, recommender *model.Recommender, fetcher *poster.Fetcher, respCache *cache.Cache, workers int, logger zerolog.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		data:        data,
		recommender: recommender,
		fetcher:     fetcher,
		respCache:   respCache,
		workers:     workers,
		logger:      logger.With().Str("component", "service").Logger(),
	}
}

// GetRecommendations ranks neighbors of title and resolves a poster URL for
// each. Poster failures degrade to placeholders and never fail the response.
func (s *Service) GetRecommendations(ctx context.Context, title string, limit int) (*domain.RecommendationResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	// Check cache
	if s.respCache != nil {
		cached, found, err := s.respCache.Get(ctx, title, limit)
		if err != nil {
			s.logger.Warn().Err(err).Str("title", title).Msg("response cache get failed")
		}
		if found {
			return &domain.RecommendationResult{
				Recommendations: cached,
				CacheHit:        true,
			}, nil
		}
	}

	recs, err := s.recommender.Recommend(title, limit)
	if err != nil {
		return nil, err
	}

	degraded := s.attachPosters(ctx, recs)

	// Only fully resolved lists go to the response cache; caching a
	// placeholder would pin it until the TTL expires even though the
	// next poster fetch might succeed.
	if s.respCache != nil && degraded == 0 {
		if err := s.respCache.Set(ctx, title, limit, recs); err != nil {
			s.logger.Warn().Err(err).Str("title", title).Msg("response cache set failed")
		}
	}

	return &domain.RecommendationResult{
		Recommendations: recs,
		PostersDegraded: degraded,
	}, nil
}

// attachPosters resolves poster URLs concurrently with a bounded worker
// pool and returns how many fell back to the placeholder.
func (s *Service) attachPosters(ctx context.Context, recs []domain.ScoredMovie) int {
	degraded := make([]bool, len(recs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers) // semaphore

	for i := range recs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			url, ok := s.fetcher.GetPoster(ctx, recs[idx].MovieID)
			recs[idx].PosterURL = url
			degraded[idx] = !ok
		}(i)
	}
	wg.Wait()

	count := 0
	for _, d := range degraded {
		if d {
			count++
		}
	}
	return count
}

// ListMovies returns a page of the catalog for title pickers.
func (s *Service) ListMovies(page, limit int) *domain.MovieList {
	movies := s.data.Movies(page, limit)
	if movies == nil {
		movies = []domain.Movie{}
	}
	return &domain.MovieList{
		Movies:     movies,
		Page:       page,
		Limit:      limit,
		TotalCount: s.data.Len(),
	}
}
