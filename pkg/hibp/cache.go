// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"github.com/dgraph-io/ristretto"
	"time"
)

// DefaultCacheSize is the amount of passwords kept by the in-memory cache.
const DefaultCacheSize = 10_000

// Cache stores breach lookups keyed by the plaintext password. Implementations must be safe
// for concurrent use and treat their own errors as misses.
type Cache interface {
	Get(ctx context.Context, password string) (Entry, bool)
	Set(ctx context.Context, password string, e Entry)
}

// MemoryCache is a bounded, process local cache. Ristretto only keeps a hash of the key, so
// the plaintext passwords are not retained.
type MemoryCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewMemoryCache(maxEntries int64, ttl time.Duration) (*MemoryCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		// 10x the max entries, as recommended by ristretto.
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &MemoryCache{cache: cache, ttl: ttl}, nil
}

func (m *MemoryCache) Get(_ context.Context, password string) (Entry, bool) {
	v, ok := m.cache.Get(password)
	if !ok {
		return Entry{}, false
	}

	e, ok := v.(Entry)
	return e, ok
}

func (m *MemoryCache) Set(_ context.Context, password string, e Entry) {
	m.cache.SetWithTTL(password, e, 1, m.ttl)
	// Sets are buffered, wait so the next request for the same password sees it.
	m.cache.Wait()
}

func (m *MemoryCache) Close() {
	m.cache.Close()
}
