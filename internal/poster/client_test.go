package poster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, "https://image.tmdb.org/t/p/w500", "test-key", 5*time.Second)
}

func TestClientLookupComposesPosterURL(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		w.Write([]byte(`{"poster_path": "/abc123.jpg", "title": "The Dark Knight"}`))
	}))
	defer srv.Close()

	url, err := newTestClient(srv.URL).Lookup(context.Background(), "155")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if url != "https://image.tmdb.org/t/p/w500/abc123.jpg" {
		t.Errorf("unexpected poster url %q", url)
	}
	if gotPath != "/movie/155" {
		t.Errorf("unexpected request path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key not sent, got %q", gotKey)
	}
}

func TestClientLookupMissingPosterPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Obscure Film"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "155")
	if !errors.Is(err, ErrNoPoster) {
		t.Errorf("expected ErrNoPoster, got %v", err)
	}
	if IsTransient(err) {
		t.Error("missing poster is permanent")
	}
}

func TestClientLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "155")
	if !errors.Is(err, ErrNoPoster) {
		t.Errorf("expected ErrNoPoster for 404, got %v", err)
	}
	if IsTransient(err) {
		t.Error("404 is permanent")
	}
}

func TestClientLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "155")
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if !IsTransient(err) {
		t.Error("5xx should be transient")
	}
}

func TestClientLookupRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "155")
	if err == nil {
		t.Fatal("expected error for 429")
	}
	if !IsTransient(err) {
		t.Error("429 should be transient")
	}
}

func TestClientLookupMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "155")
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
	if IsTransient(err) {
		t.Error("malformed response is permanent")
	}
}

func TestClientLookupConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "155")
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
	if !IsTransient(err) {
		t.Error("connection failure should be transient")
	}
}
