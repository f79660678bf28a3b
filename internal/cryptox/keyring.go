package cryptox

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// DefaultKeyRingSize bounds how many session keys a long-lived client keeps.
const DefaultKeyRingSize = 16

// deriveFn is a test seam for DeriveSessionKey.
var deriveFn = DeriveSessionKey

// KeyRing caches derived session keys by session code. It is bounded (least
// recently used codes are dropped) and supports explicit eviction when a
// session is left. Concurrent lookups of the same code derive only once.
type KeyRing struct {
	cache *lru.Cache
	group singleflight.Group
}

// NewKeyRing creates a ring holding at most size keys.
func NewKeyRing(size int) (*KeyRing, error) {
	if size <= 0 {
		size = DefaultKeyRingSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("key ring: %w", err)
	}
	return &KeyRing{cache: c}, nil
}

// Get returns the key for code, deriving and caching it on a miss.
func (r *KeyRing) Get(code string) (SessionKey, error) {
	if v, ok := r.cache.Get(code); ok {
		return v.(SessionKey), nil
	}

	v, err, _ := r.group.Do(code, func() (interface{}, error) {
		if v, ok := r.cache.Peek(code); ok {
			return v, nil
		}
		key, err := deriveFn(code)
		if err != nil {
			return nil, err
		}
		r.cache.Add(code, key)
		return key, nil
	})
	if err != nil {
		return SessionKey{}, err
	}
	return v.(SessionKey), nil
}

// Contains reports whether a key for code is cached, without touching recency.
func (r *KeyRing) Contains(code string) bool {
	return r.cache.Contains(code)
}

// Evict drops the key for code. It reports whether a key was cached.
func (r *KeyRing) Evict(code string) bool {
	return r.cache.Remove(code)
}

// Len returns the number of cached keys.
func (r *KeyRing) Len() int {
	return r.cache.Len()
}

// Purge drops every cached key.
func (r *KeyRing) Purge() {
	r.cache.Purge()
}
