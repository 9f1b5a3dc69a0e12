package annotations

import (
	"github.com/toyz/accessorgen/internal/utils"
)

// Cache holds parsed occurrences keyed by property. Use one per generation batch.
type Cache = utils.Cache[string, []Occurrence]

// NewCache creates an empty occurrence cache
func NewCache() *Cache {
	return utils.NewCache[string, []Occurrence]()
}

// Option configures a provider
type Option func(*reader)

// WithCache makes the provider remember parsed documentation per property.
// A nil cache disables caching.
func WithCache(cache *Cache) Option {
	return func(r *reader) {
		r.cache = cache
	}
}

// reader parses a property's documentation, going through the cache when set
type reader struct {
	cache *Cache
}

func newReader(opts []Option) reader {
	var r reader
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r reader) occurrences(p Property) []Occurrence {
	if r.cache == nil {
		occurrences, _ := ParseText(p.DocComment())
		return occurrences
	}

	// Malformed occurrences are kept and reported by whoever asks for their tag
	occurrences, _ := r.cache.GetOrCompute(propertyKey(p), func() ([]Occurrence, error) {
		parsed, _ := ParseText(p.DocComment())
		return parsed, nil
	})
	return occurrences
}
