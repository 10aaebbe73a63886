package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is a cached payload with optional metadata. The registry HTTP client
// stores response validators (ETag, Last-Modified) in Meta; the pipeline
// stores serialized verdicts with no metadata at all.
type Entry struct {
	Body     []byte            `json:"body"`
	Meta     map[string]string `json:"meta,omitempty"`
	CachedAt time.Time         `json:"cached_at"`
}

// FileCache provides TTL-based file caching keyed by arbitrary strings.
type FileCache struct {
	dir string
	ttl time.Duration
}

// New creates a file cache rooted at dir.
func New(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

// Get retrieves a cached entry. The second return reports freshness: an
// expired entry is still returned so callers can revalidate it cheaply.
func (c *FileCache) Get(key string) (*Entry, bool) {
	path := c.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(path)
		return nil, false
	}

	if time.Since(entry.CachedAt) > c.ttl {
		return &entry, false
	}
	return &entry, true
}

// Set stores an entry, stamping it with the current time.
func (c *FileCache) Set(key string, entry *Entry) error {
	entry.CachedAt = time.Now()
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	return os.WriteFile(c.path(key), data, 0o644)
}

func (c *FileCache) path(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
