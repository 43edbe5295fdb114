package middleware

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shrek82/tagcheck/schema"
	"github.com/zeebo/xxh3"
)

// KeyPrefix namespaces every cache key written by the schema caches.
const KeyPrefix = "tagcheck:schema:"

// DefaultTTL applies when a cache is created with a zero TTL.
const DefaultTTL = 5 * time.Minute

// cacheKey derives a stable key from the source identity. The raw key may
// carry credentials and never appears in the result.
func cacheKey(src schema.Source) string {
	return fmt.Sprintf("%s%s:%016x", KeyPrefix, src.Name(), xxh3.HashString(src.Key()))
}

func encodeList(l *schema.List) ([]byte, error) {
	var buf bytes.Buffer
	if err := schema.Encode(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeList(data []byte) (*schema.List, error) {
	return schema.Decode(bytes.NewReader(data))
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
