package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teamsched/schedule-manager/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process cache with a default TTL, per-entry overrides,
// and singleflight loading. Absence markers are stored at a shorter TTL
// so a freshly created record does not stay invisible for long.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]entry
	ttl         time.Duration
	negativeTTL time.Duration
	flight      resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	negative := ttl / 5
	return &Store{
		entries:     make(map[string]entry),
		ttl:         ttl,
		negativeTTL: negative,
	}
}

// NegativeTTL is the lifetime used for cached "not found" markers.
func (s *Store) NegativeTTL() time.Duration {
	return s.negativeTTL
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, s.ttl)
}

// SetNegative records that a lookup came back empty.
func (s *Store) SetNegative(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, s.negativeTTL)
}

func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// Flush drops every entry. Used by maintenance after bulk rebuilds.
func (s *Store) Flush(_ context.Context) {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	return s.GetOrLoadTTL(ctx, key, func(ctx context.Context) (any, time.Duration, error) {
		value, err := loader(ctx)
		return value, s.ttl, err
	})
}

// GetOrLoadTTL is GetOrLoad for loaders that pick the entry lifetime,
// letting absence results expire on the shorter negative TTL.
func (s *Store) GetOrLoadTTL(ctx context.Context, key string, loader func(context.Context) (any, time.Duration, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		value, _, err := loader(ctx)
		return value, err
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, ttl, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.SetWithTTL(ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
