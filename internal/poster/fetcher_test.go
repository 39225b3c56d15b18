package poster

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const placeholder = "https://example.com/placeholder.jpg"

// fakeTransport scripts lookup outcomes and counts calls.
type fakeTransport struct {
	calls    int
	failures int   // fail transiently this many times before succeeding
	err      error // when set, always fail with this error
	url      string
}

func (f *fakeTransport) Lookup(ctx context.Context, movieID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.calls <= f.failures {
		return "", &transientError{fmt.Errorf("attempt %d failed", f.calls)}
	}
	return f.url, nil
}

func newTestFetcher(t *testing.T, transport Transport, attempts int) (*Fetcher, *[]time.Duration) {
	t.Helper()
	cache := NewCache(filepath.Join(t.TempDir(), "poster_cache.json"), 0)
	f := NewFetcher(cache, transport, placeholder, attempts, time.Second, zerolog.Nop())

	slept := &[]time.Duration{}
	f.sleep = func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return f, slept
}

func TestGetPosterSecondCallHitsCache(t *testing.T) {
	transport := &fakeTransport{url: "https://example.com/p.jpg"}
	f, _ := newTestFetcher(t, transport, 3)

	url, ok := f.GetPoster(context.Background(), "155")
	if !ok || url != "https://example.com/p.jpg" {
		t.Fatalf("first call: got %q (ok=%v)", url, ok)
	}

	url, ok = f.GetPoster(context.Background(), "155")
	if !ok || url != "https://example.com/p.jpg" {
		t.Fatalf("second call: got %q (ok=%v)", url, ok)
	}

	if transport.calls != 1 {
		t.Errorf("expected exactly 1 remote fetch, got %d", transport.calls)
	}
}

func TestGetPosterTransientThenSuccess(t *testing.T) {
	transport := &fakeTransport{failures: 2, url: "https://example.com/p.jpg"}
	f, sleptPtr := newTestFetcher(t, transport, 3)

	url, ok := f.GetPoster(context.Background(), "155")
	if !ok || url != "https://example.com/p.jpg" {
		t.Fatalf("got %q (ok=%v)", url, ok)
	}
	if transport.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", transport.calls)
	}

	// Backoff doubles between attempts
	slept := *sleptPtr
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("expected %d waits, got %d", len(want), len(slept))
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("wait %d: expected %v, got %v", i, want[i], slept[i])
		}
	}

	// The recovered URL is cached
	if _, cached := f.cache.Get("155"); !cached {
		t.Error("successful fetch should be cached")
	}
}

func TestGetPosterExhaustedRetries(t *testing.T) {
	transport := &fakeTransport{failures: 100}
	f, _ := newTestFetcher(t, transport, 3)

	url, ok := f.GetPoster(context.Background(), "155")
	if ok || url != placeholder {
		t.Errorf("expected placeholder, got %q (ok=%v)", url, ok)
	}
	if transport.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", transport.calls)
	}

	// Failures are not cached
	if _, cached := f.cache.Get("155"); cached {
		t.Error("placeholder must not be cached")
	}
}

func TestGetPosterPermanentFailureNoRetry(t *testing.T) {
	transport := &fakeTransport{err: fmt.Errorf("movie 155: %w", ErrNoPoster)}
	f, slept := newTestFetcher(t, transport, 3)

	url, ok := f.GetPoster(context.Background(), "155")
	if ok || url != placeholder {
		t.Errorf("expected placeholder, got %q (ok=%v)", url, ok)
	}
	if transport.calls != 1 {
		t.Errorf("permanent failure should not retry, got %d attempts", transport.calls)
	}
	if len(*slept) != 0 {
		t.Errorf("permanent failure should not back off, waited %v", *slept)
	}
}

func TestGetPosterContextCanceled(t *testing.T) {
	transport := &fakeTransport{failures: 100}
	f, _ := newTestFetcher(t, transport, 3)
	f.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	url, ok := f.GetPoster(context.Background(), "155")
	if ok || url != placeholder {
		t.Errorf("expected placeholder on cancellation, got %q (ok=%v)", url, ok)
	}
	if transport.calls != 1 {
		t.Errorf("expected 1 attempt before canceled backoff, got %d", transport.calls)
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(&transientError{errors.New("boom")}) {
		t.Error("transientError should be transient")
	}
	if IsTransient(ErrNoPoster) {
		t.Error("ErrNoPoster is permanent")
	}
	if IsTransient(fmt.Errorf("wrap: %w", &transientError{errors.New("boom")})) != true {
		t.Error("wrapped transientError should still be transient")
	}
}
