package poster

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Transport performs a single remote poster lookup attempt.
type Transport interface {
	Lookup(ctx context.Context, movieID string) (string, error)
}

// Fetcher resolves poster URLs: cache first, then the remote API with a
// bounded number of attempts separated by a doubling backoff. It never
// returns an error; when every avenue fails the caller gets the
// placeholder URL, because a poster slot must always render something.
type Fetcher struct {
	cache       *Cache
	transport   Transport
	placeholder string
	attempts    int
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      zerolog.Logger
}

func NewFetcher(cache *Cache, transport Transport, placeholder string, attempts int, backoff time.Duration, logger zerolog.Logger) *Fetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &Fetcher{
		cache:       cache,
		transport:   transport,
		placeholder: placeholder,
		attempts:    attempts,
		backoff:     backoff,
		sleep:       contextSleep,
		logger:      logger.With().Str("component", "poster").Logger(),
	}
}

// GetPoster returns a poster URL for the movie id. The second return value
// reports whether a real poster was resolved (from cache or remote) as
// opposed to the placeholder.
func (f *Fetcher) GetPoster(ctx context.Context, movieID string) (string, bool) {
	if url, ok := f.cache.Get(movieID); ok {
		return url, true
	}

	url, err := f.fetchWithRetries(ctx, movieID)
	if err != nil {
		f.logger.Warn().Err(err).Str("movie_id", movieID).Msg("poster unavailable, serving placeholder")
		return f.placeholder, false
	}

	f.cache.Put(movieID, url)
	if err := f.cache.Flush(); err != nil {
		f.logger.Error().Err(err).Msg("flush poster cache failed")
	}
	return url, true
}

func (f *Fetcher) fetchWithRetries(ctx context.Context, movieID string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < f.attempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		url, err := f.transport.Lookup(ctx, movieID)
		if err == nil {
			return url, nil
		}
		lastErr = err

		// Permanent failures cannot recover on retry
		if !IsTransient(err) {
			return "", err
		}
		if attempt == f.attempts-1 {
			break
		}

		delay := f.backoff * time.Duration(1<<uint(attempt))
		if err := f.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func contextSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
