// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "testing"

func TestGetFeeNoConflictsIsZero(t *testing.T) {
	s := NewScheduler()
	p := newTestProposal(t, "p1", 100, 50, 4)

	fee, err := s.GetFee(p)
	if err != nil {
		t.Fatalf("GetFee: %v", err)
	}
	if fee != 0 {
		t.Errorf("GetFee with no conflicts = %d, want 0", fee)
	}
}

func TestGetFeeIncreasesWithContention(t *testing.T) {
	s := NewScheduler()

	occupant := newTestProposal(t, "occupant", 100, 50, 20)
	if err := s.Schedule(occupant, 50); err != nil {
		t.Fatalf("Schedule(occupant): %v", err)
	}

	// A second proposal whose window fully overlaps the occupant and
	// whose bit width leaves little headroom should see a nonzero fee.
	p := newTestProposal(t, "p2", 110, 20, 4)

	fee, err := s.GetFee(p)
	if err != nil {
		t.Fatalf("GetFee: %v", err)
	}
	if fee <= 0 {
		t.Errorf("GetFee under contention = %d, want > 0", fee)
	}
}

func TestComputeContentionHeuristicFullyContended(t *testing.T) {
	conflicts := []ProposalMetadata{
		{Location: VoteLocation{Lsb: 0, Msb: 27}, HeightStart: 100, HeightEnd: 149},
	}

	if _, err := computeContentionHeuristic(4, 100, 150, conflicts); err == nil {
		t.Errorf("expected ErrFeeOverflow when the voting field is fully occupied")
	}
}

func TestComputeContentionHeuristicPartialGap(t *testing.T) {
	// One conflict covers only half the requested window; the heuristic
	// should accumulate contention only over the overlapping portion.
	conflicts := []ProposalMetadata{
		{Location: VoteLocation{Lsb: 20, Msb: 27}, HeightStart: 100, HeightEnd: 124},
	}

	h, err := computeContentionHeuristic(4, 100, 150, conflicts)
	if err != nil {
		t.Fatalf("computeContentionHeuristic: %v", err)
	}
	if h <= 0 {
		t.Errorf("expected positive contention heuristic, got %d", h)
	}
}
