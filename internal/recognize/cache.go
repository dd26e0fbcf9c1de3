package recognize

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultLanguage is used when a request omits or blanks the language code.
const DefaultLanguage = "ch"

// Factory constructs a recognizer handle for a normalized language code.
type Factory func(language string) (Handle, error)

// Cache lazily constructs one Handle per distinct language and reuses it for
// the life of the process. Handles are never evicted; the set only grows.
//
// Cache is safe for concurrent use. Construction happens under the cache
// lock, so two concurrent first requests for the same language build exactly
// one handle. A construction failure is returned to the caller and nothing
// is cached; the next request for that language tries again from scratch.
type Cache struct {
	mu      sync.Mutex
	factory Factory
	handles map[string]Handle
}

// NewCache creates an empty cache around the given handle factory.
func NewCache(factory Factory) *Cache {
	return &Cache{
		factory: factory,
		handles: make(map[string]Handle),
	}
}

// NormalizeLanguage lowercases and trims a language code, substituting
// DefaultLanguage for empty input.
func NormalizeLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// Get returns the handle for a language, constructing it on first use.
// The language code is normalized, so "CH", " ch " and "ch" share a handle.
func (c *Cache) Get(language string) (Handle, error) {
	lang := NormalizeLanguage(language)

	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.handles[lang]; ok {
		return h, nil
	}

	h, err := c.factory(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to construct recognizer for language %q: %w", lang, err)
	}
	c.handles[lang] = h
	return h, nil
}

// Len reports how many handles have been constructed.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}
