// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"fmt"
	"sort"

	"github.com/btcsuite/btcutil"
)

// eventKind distinguishes the two sweep-line events a conflicting
// proposal contributes to the contention heuristic.
type eventKind int

const (
	eventStart eventKind = iota
	eventEnd
)

// feeEvent is one sweep-line event: a conflicting proposal's voting
// window starting or ending, carrying the bit width it contends for.
type feeEvent struct {
	kind eventKind
	pos  uint32
	w    uint8
}

// GetFee computes the dynamic burn fee p owes, given the set of proposals
// currently scheduled. p must already carry a tentative location (its
// BitCount is part of the heuristic). Implements the contention heuristic
// of spec.md §4.4 exactly, including its specified integer-division
// associativity.
func (s *Scheduler) GetFee(p *VoteProposal) (btcutil.Amount, error) {
	start := p.StartHeight
	end := p.StartHeight + p.CheckSpan // half-open per spec.md §4.4

	var conflicts []ProposalMetadata
	s.store.Iterate(func(m ProposalMetadata) bool {
		// overlapping [S, E) against the proposal's inclusive [heightStart, heightEnd]
		if m.HeightEnd < start || m.HeightStart >= end {
			return true
		}
		conflicts = append(conflicts, m)
		return true
	})

	h, err := computeContentionHeuristic(p.BitCount(), start, end, conflicts)
	if err != nil {
		return 0, err
	}

	fee := (h * int64(BaseFee)) / FeeScale
	if fee < 0 {
		return 0, fmt.Errorf("%w: computed fee %d is negative", ErrFeeOverflow, fee)
	}

	return btcutil.Amount(fee), nil
}

// computeContentionHeuristic sweeps [start, end) accumulating H per
// spec.md §4.4 step 2-5. bitCount is the requesting proposal's width.
func computeContentionHeuristic(bitCount uint8, start, end uint32, conflicts []ProposalMetadata) (int64, error) {
	events := make([]feeEvent, 0, len(conflicts)*2)
	for _, c := range conflicts {
		events = append(events, feeEvent{kind: eventStart, pos: c.HeightStart, w: c.Location.Width()})
		events = append(events, feeEvent{kind: eventEnd, pos: c.HeightEnd + 1, w: c.Location.Width()})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].pos < events[j].pos
	})

	var h int64
	var used int64

	for i := 0; i < len(events); i++ {
		ev := events[i]

		// An event left of start still opens a gap that may reach into the
		// requested window; lo is clamped to start below, and a gap that
		// ends at or before start is skipped by the hi <= lo check.
		if ev.pos >= end {
			break
		}

		applyEvent(&used, ev)

		if i+1 >= len(events) {
			break
		}

		lo := ev.pos
		if lo < start {
			lo = start
		}
		hi := events[i+1].pos
		if hi > end {
			hi = end
		}
		if hi <= lo {
			continue
		}
		gap := int64(hi - lo)

		headroom := int64(MaxBitCount) - used
		if headroom <= 0 {
			return 0, fmt.Errorf("%w: voting field fully contended (used=%d)", ErrFeeOverflow, used)
		}

		h += (FeeScale * int64(bitCount)) / headroom * gap
	}

	if h < 0 {
		return 0, fmt.Errorf("%w: contention heuristic went negative", ErrFeeOverflow)
	}

	return h, nil
}

func applyEvent(used *int64, ev feeEvent) {
	switch ev.kind {
	case eventStart:
		*used += int64(ev.w)
	case eventEnd:
		*used -= int64(ev.w)
	}
}
