// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package storage holds the chain.Storage backends for persisting
// scheduled proposal metadata.
package storage

import (
	"sync"

	"github.com/dblokhin/voteengine/consensus"
)

// MemoryStorage is a process-local chain.Storage backend with no
// durability, useful for tests and for nodes that rebuild their
// scheduler state from a full chain replay on every start.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[[32]byte]consensus.ProposalMetadata
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[[32]byte]consensus.ProposalMetadata),
	}
}

// Put persists meta, keyed by its hash.
func (s *MemoryStorage) Put(meta consensus.ProposalMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[meta.Hash] = meta
	return nil
}

// Delete removes the entry for hash, if present.
func (s *MemoryStorage) Delete(hash [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, hash)
	return nil
}

// LoadAll returns every persisted proposal metadata entry.
func (s *MemoryStorage) LoadAll() ([]consensus.ProposalMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]consensus.ProposalMetadata, 0, len(s.entries))
	for _, m := range s.entries {
		out = append(out, m)
	}
	return out, nil
}
