package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shrek82/tagcheck/schema"
)

// FileCacheMiddleware stores loaded schema lists as JSON files so repeated
// CI runs on one machine skip the fetch.
type FileCacheMiddleware struct {
	CacheDir   string
	DefaultTTL time.Duration
}

func NewFileCache(cacheDir string, ttl time.Duration) *FileCacheMiddleware {
	return &FileCacheMiddleware{
		CacheDir:   cacheDir,
		DefaultTTL: ttlOrDefault(ttl),
	}
}

func (m *FileCacheMiddleware) Name() string {
	return "FileCache"
}

func (m *FileCacheMiddleware) Init() error {
	if m.CacheDir == "" {
		return fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(m.CacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

func (m *FileCacheMiddleware) Shutdown() error {
	return nil
}

type fileCacheEntry struct {
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (m *FileCacheMiddleware) path(key string) string {
	name := strings.ReplaceAll(strings.TrimPrefix(key, KeyPrefix), ":", "-")
	return filepath.Join(m.CacheDir, name+".json")
}

func (m *FileCacheMiddleware) Process(ctx context.Context, src schema.Source, next schema.LoadFunc) (*schema.List, error) {
	filename := m.path(cacheKey(src))

	if data, err := os.ReadFile(filename); err == nil {
		var entry fileCacheEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			if time.Now().Before(entry.ExpiresAt) {
				if l, err := decodeList(entry.Data); err == nil {
					return l, nil
				}
			}
		}
		// expired or unreadable
		_ = os.Remove(filename)
	}

	l, err := next(ctx, src)
	if err != nil {
		return nil, err
	}

	if data, err := encodeList(l); err == nil {
		entry := fileCacheEntry{
			Source:    src.Name(),
			Data:      data,
			ExpiresAt: time.Now().Add(m.DefaultTTL),
		}
		if fileBytes, err := json.Marshal(entry); err == nil {
			_ = os.WriteFile(filename, fileBytes, 0o644)
		}
	}
	return l, nil
}
