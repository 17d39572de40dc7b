// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "sync"

// ProposalMetadata is the scheduler's derived index entry for a proposal
// that has been admitted onto the voting surface.
type ProposalMetadata struct {
	Hash        [32]byte
	Location    VoteLocation
	HeightStart uint32
	HeightEnd   uint32
}

// HeightRange returns the inclusive height window this metadata covers.
func (m ProposalMetadata) HeightRange() HeightRange {
	return HeightRange{Start: m.HeightStart, End: m.HeightEnd}
}

// MetadataStore is the in-memory index keyed by proposal hash. It holds
// no consensus logic of its own — CheckProposal/Add in scheduler.go own
// the non-overlap invariant. MetadataStore only owns concurrency-safe
// storage, mirroring the teacher's Chain embedding sync.RWMutex around
// its own state rather than trusting callers to lock consistently.
type MetadataStore struct {
	mu     sync.RWMutex
	byHash map[[32]byte]ProposalMetadata
}

// NewMetadataStore returns an empty store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		byHash: make(map[[32]byte]ProposalMetadata),
	}
}

// Insert adds or overwrites the metadata entry for meta.Hash. The caller
// (Scheduler.Add) is responsible for enforcing the non-overlap invariant
// before calling this.
func (s *MetadataStore) Insert(meta ProposalMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[meta.Hash] = meta
}

// Remove deletes the entry for hash. Idempotent: silently returns if absent.
func (s *MetadataStore) Remove(hash [32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byHash, hash)
}

// Get returns the metadata for hash, if present.
func (s *MetadataStore) Get(hash [32]byte) (ProposalMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byHash[hash]
	return m, ok
}

// Iterate calls yield for every entry in the store, stopping early if
// yield returns false. Ordering is not observable, per spec.md §4.2.
func (s *MetadataStore) Iterate(yield func(ProposalMetadata) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.byHash {
		if !yield(m) {
			return
		}
	}
}

// Snapshot returns a defensive copy of the store's contents, for callers
// that must not hold a live reference while the store mutates concurrently.
func (s *MetadataStore) Snapshot() map[[32]byte]ProposalMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[[32]byte]ProposalMetadata, len(s.byHash))
	for k, v := range s.byHash {
		out[k] = v
	}
	return out
}

// Len returns the number of entries currently in the store.
func (s *MetadataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byHash)
}
