// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Scheduler allocates voting-field bit ranges over height intervals to
// proposals and enforces that no two admitted proposals ever share both
// a bit range and a height range. Its own mutating operations are
// serialized through mu; inserts made directly through Store() (as
// chain.New does when replaying storage) bypass mu and Add's checks.
type Scheduler struct {
	mu    sync.Mutex
	store *MetadataStore
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		store: NewMetadataStore(),
	}
}

// Store returns the scheduler's underlying metadata store, for
// collaborators that need to read scheduled proposals without going
// through the scheduler's lock. The store is returned as is, so writes
// through it are possible too; chain.New uses it to insert replayed entries.
func (s *Scheduler) Store() *MetadataStore {
	return s.store
}

// CheckProposal reports whether p may be admitted. It short-circuits true
// if p is already committed on-chain (its hash is already in the store).
func (s *Scheduler) CheckProposal(p *VoteProposal, bestHeight uint32) bool {
	hash := p.GetHash()
	var h32 [32]byte
	copy(h32[:], hash)

	if _, ok := s.store.Get(h32); ok {
		return true
	}

	if err := p.Validate(); err != nil {
		return false
	}

	if p.StartHeight <= bestHeight || p.StartHeight > bestHeight+MaxBlocksInFuture {
		return false
	}

	var loc VoteLocation
	return s.GetNextLocation(p.BitCount(), p.StartHeight, p.CheckSpan, &loc)
}

// GetNextLocation finds the MSB-aligned free bit run of width bitCount
// that is free throughout [startHeight, startHeight+checkSpan-1], and
// writes it to location. Returns false if no such run exists.
func (s *Scheduler) GetNextLocation(bitCount uint8, startHeight, checkSpan uint32, location *VoteLocation) bool {
	if bitCount == 0 || bitCount > MaxBitCount {
		return false
	}

	requested := NewHeightRange(startHeight, checkSpan)

	var conflicts []ProposalMetadata
	s.store.Iterate(func(m ProposalMetadata) bool {
		if m.HeightRange().Overlaps(requested) {
			conflicts = append(conflicts, m)
		}
		return true
	})

	if len(conflicts) == 0 {
		*location = VoteLocation{
			Msb: MaxBitCount - 1,
			Lsb: MaxBitCount - bitCount,
		}
		return true
	}

	// Track availability of each of the 28 bits; true means free.
	var available [MaxBitCount]bool
	for i := range available {
		available[i] = true
	}
	for _, c := range conflicts {
		for i := c.Location.Lsb; i <= c.Location.Msb; i++ {
			available[i] = false
		}
	}

	// Scan from the top, MSB-first, looking for the first run of bitCount
	// consecutive free bits.
	sequential := uint8(0)
	for i := int(MaxBitCount) - 1; i >= 0; i-- {
		if available[i] {
			sequential++
		} else {
			sequential = 0
		}

		if sequential == bitCount {
			*location = VoteLocation{
				Lsb: uint8(i),
				Msb: uint8(i) + bitCount - 1,
			}
			return true
		}
	}

	return false
}

// Add admits p into the scheduler. Precondition: p.SetLocation has been
// called, typically with the result of GetNextLocation. Add re-checks the
// location against the current store before mutating, so a caller that
// does not hold Add's lock across its own GetNextLocation call cannot
// corrupt the non-overlap invariant — the re-check, not trust, is what
// keeps the invariant. On conflict, state is left unchanged.
func (s *Scheduler) Add(p *VoteProposal) error {
	if !p.LocationSet() {
		return fmt.Errorf("%w: proposal has no scheduled location", ErrInvalidProposal)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := ProposalMetadata{
		Location:    p.Location,
		HeightStart: p.StartHeight,
		HeightEnd:   p.EndHeight(),
	}
	copy(candidate.Hash[:], p.GetHash())

	candidateRange := candidate.HeightRange()

	var conflict error
	s.store.Iterate(func(existing ProposalMetadata) bool {
		if existing.Location.Overlaps(candidate.Location) && existing.HeightRange().Overlaps(candidateRange) {
			conflict = fmt.Errorf("%w: proposal position is already occupied during the requested block span", ErrScheduleConflict)
			return false
		}
		return true
	})

	if conflict != nil {
		return conflict
	}

	s.store.Insert(candidate)
	logrus.Infof("scheduler: added proposal %x at %s for heights [%d,%d]",
		candidate.Hash, candidate.Location, candidate.HeightStart, candidate.HeightEnd)

	return nil
}

// Remove unconditionally drops hash from the scheduler. Idempotent.
func (s *Scheduler) Remove(hash [32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Remove(hash)
}

// GetActive returns every scheduled proposal whose height window contains
// height, inclusive on both ends.
func (s *Scheduler) GetActive(height uint32) map[[32]byte]VoteLocation {
	active := make(map[[32]byte]VoteLocation)
	s.store.Iterate(func(m ProposalMetadata) bool {
		if m.HeightRange().Contains(height) {
			active[m.Hash] = m.Location
		}
		return true
	})
	return active
}

// Schedule atomically allocates a location for p and admits it, so that
// two concurrent callers requesting overlapping (bitCount, height) spans
// cannot both observe a free location and then both succeed — the
// atomicity spec.md §5 requires of GetNextLocation composed with Add.
func (s *Scheduler) Schedule(p *VoteProposal, bestHeight uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.CheckProposal(p, bestHeight) {
		return fmt.Errorf("%w: proposal rejected by CheckProposal", ErrInvalidProposal)
	}

	var loc VoteLocation
	if !s.GetNextLocation(p.BitCount(), p.StartHeight, p.CheckSpan, &loc) {
		return fmt.Errorf("%w: no free location for requested span", ErrScheduleConflict)
	}
	p.SetLocation(loc)

	candidate := ProposalMetadata{
		Location:    p.Location,
		HeightStart: p.StartHeight,
		HeightEnd:   p.EndHeight(),
	}
	copy(candidate.Hash[:], p.GetHash())
	s.store.Insert(candidate)

	return nil
}
