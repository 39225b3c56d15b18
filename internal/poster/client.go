package poster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoPoster means the remote catalog has no poster on record for the
// movie. It is permanent: retrying cannot produce a different answer.
var ErrNoPoster = errors.New("no poster available")

// transientError marks failures worth retrying (network errors, 5xx, 429).
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// IsTransient reports whether a lookup failure may succeed on retry.
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// Client looks up poster metadata on the TMDB API. Each Lookup is a single
// attempt; retry policy belongs to the Fetcher. Safe for concurrent use.
type Client struct {
	baseURL    string
	posterBase string
	apiKey     string
	client     *http.Client
}

func NewClient(baseURL, posterBase, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		posterBase: posterBase,
		apiKey:     apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// movieResponse is the slice of the TMDB movie details payload we care about.
type movieResponse struct {
	PosterPath string `json:"poster_path"`
}

// Lookup fetches movie details and composes the full poster URL.
func (c *Client) Lookup(ctx context.Context, movieID string) (string, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")
	reqURL := fmt.Sprintf("%s/movie/%s?%s", c.baseURL, url.PathEscape(movieID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &transientError{fmt.Errorf("poster request for %s: %w", movieID, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", &transientError{fmt.Errorf("poster request for %s: status %d", movieID, resp.StatusCode)}
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("movie %s: %w", movieID, ErrNoPoster)
	default:
		return "", fmt.Errorf("poster request for %s: status %d", movieID, resp.StatusCode)
	}

	var movie movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return "", fmt.Errorf("decode poster response for %s: %w", movieID, err)
	}

	if movie.PosterPath == "" {
		return "", fmt.Errorf("movie %s: %w", movieID, ErrNoPoster)
	}

	return c.posterBase + movie.PosterPath, nil
}
