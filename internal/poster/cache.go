package poster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// documentVersion invalidates the whole cache file when the entry schema
// changes: a document with a different version is discarded at load.
const documentVersion = 1

type cacheEntry struct {
	URL       string    `json:"url"`
	FetchedAt time.Time `json:"fetched_at"`
}

type cacheDocument struct {
	Version int                   `json:"version"`
	Posters map[string]cacheEntry `json:"posters"`
}

// Cache is the persistent poster URL cache: a single JSON document mapping
// movie ids to poster URLs, loaded once at startup and rewritten atomically
// after new fetches. A zero ttl means entries never expire.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(path string, ttl time.Duration) *Cache {
	return &Cache{
		path:    path,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Load reads the cache document from disk. A missing file is a fresh start.
// A corrupt or incompatible document resets the cache to empty and returns
// the cause so the caller can log it; the cache stays usable either way.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read poster cache: %w", err)
	}

	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse poster cache: %w", err)
	}
	if doc.Version != documentVersion {
		return fmt.Errorf("poster cache version %d, expected %d", doc.Version, documentVersion)
	}

	if doc.Posters != nil {
		c.entries = doc.Posters
	}
	return nil
}

// Get returns the cached poster URL for a movie id. Expired entries count
// as misses.
func (c *Cache) Get(movieID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[movieID]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(entry.FetchedAt) > c.ttl {
		return "", false
	}
	return entry.URL, true
}

// Put records a freshly fetched poster URL. Existing entries for other
// movies are untouched.
func (c *Cache) Put(movieID, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[movieID] = cacheEntry{URL: url, FetchedAt: c.now()}
}

// Flush rewrites the cache document. The write goes to a temp file in the
// same directory followed by a rename, so a crash never leaves a truncated
// document behind.
func (c *Cache) Flush() error {
	c.mu.Lock()
	doc := cacheDocument{
		Version: documentVersion,
		Posters: make(map[string]cacheEntry, len(c.entries)),
	}
	for id, entry := range c.entries {
		doc.Posters[id] = entry
	}
	c.mu.Unlock()

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal poster cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write poster cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close poster cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace poster cache: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
