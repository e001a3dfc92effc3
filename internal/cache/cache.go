// Package cache is the key-value store the ephemeris adapter uses to
// avoid re-fetching samples a previous run already pulled. Adapted from
// the teacher's internal/database: same interface shape, re-keyed for
// (body, timestamp) pairs and switched to jsoniter for the
// marshal/unmarshal path the rest of this codebase standardizes on.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/skywatch/eventline/internal/astro/catalog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("cache: key not found")

// Store is the persistence surface the ephemeris adapter is built
// against; spec.md §6 calls this "opaque to the core" — only the
// adapter layer ever touches it.
type Store interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SampleKey builds the canonical cache key for one body's sample at one
// timestamp, matching spec.md §3's "canonical ISO-8601 UTC timestamp
// string" convention.
func SampleKey(body catalog.Body, canonicalTimestamp string) string {
	return fmt.Sprintf("sample:%d:%s", body.Index(), canonicalTimestamp)
}

// NewInMemoryStore creates an empty in-process Store, the shape runs
// against in tests and in the single-process CLI.
func NewInMemoryStore() Store {
	return &inMemoryStore{data: make(map[string][]byte)}
}

type inMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func (s *inMemoryStore) GetJSON(ctx context.Context, key string, v any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}

func (s *inMemoryStore) SetJSON(ctx context.Context, key string, v any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

func (s *inMemoryStore) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *inMemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}
