package cache

import (
	"strconv"
	"time"
)

const (
	// KeyPrefix namespaces every feed cache key in a shared backend.
	KeyPrefix = "feed:"
	// IndexFeedKey is the single key every page of the index feed is cached under.
	IndexFeedKey = "index_page"
)

// IndexFeedTTL is the default lifetime of a cached index feed.
const IndexFeedTTL = 20 * time.Second

// MaxVariantsPerKey bounds how many variants one key holds. Writes of new
// variants past the bound are dropped until the key expires.
const MaxVariantsPerKey = 256

// PageVariant names the variant of a key holding page number n.
func PageVariant(n int) string {
	return "page:" + strconv.Itoa(n)
}
