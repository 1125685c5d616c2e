// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package patterns persists remembered user decisions keyed by a derived
// pattern signature. The decision policy consults the store on every
// detection run; callers write to it when the user opts to remember a
// choice.
package patterns

import (
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/contact-engine/pkg/types"
)

// Store is the abstract key-value interface the engine uses for pattern
// persistence. Implementations must tolerate one background writer and many
// concurrent readers.
type Store interface {
	// Get returns the remembered decision for a signature. The boolean is
	// false when no pattern with that signature exists.
	Get(signature string) (types.UserDecision, bool, error)

	// Put stores a decision under a signature, replacing any existing one.
	Put(signature string, decision types.UserDecision) error

	// Delete removes one pattern. Deleting a missing pattern is not an error.
	Delete(signature string) error

	// List returns all stored patterns sorted by signature.
	List() ([]types.DuplicatePattern, error)

	// Clear removes all stored patterns.
	Clear() error
}

// MemoryStore is an in-process Store for tests and callers that do not
// persist decisions. Readers share an RLock; writers serialize.
type MemoryStore struct {
	mu       sync.RWMutex
	patterns map[string]types.DuplicatePattern
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{patterns: make(map[string]types.DuplicatePattern)}
}

func (m *MemoryStore) Get(signature string) (types.UserDecision, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patterns[signature]
	if !ok {
		return "", false, nil
	}
	return p.Decision, true, nil
}

func (m *MemoryStore) Put(signature string, decision types.UserDecision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[signature] = types.DuplicatePattern{
		Pattern:   signature,
		Decision:  decision,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (m *MemoryStore) Delete(signature string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.patterns, signature)
	return nil
}

func (m *MemoryStore) List() ([]types.DuplicatePattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.DuplicatePattern, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out, nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = make(map[string]types.DuplicatePattern)
	return nil
}
