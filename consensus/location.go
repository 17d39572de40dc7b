// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"fmt"
	"io"
)

// VoteLocation names a contiguous run of bits within the 28-bit voting
// field carried in a block header: [Lsb, Msb] inclusive.
type VoteLocation struct {
	Msb uint8
	Lsb uint8
}

// NewVoteLocation validates and constructs a VoteLocation.
func NewVoteLocation(lsb, msb uint8) (VoteLocation, error) {
	loc := VoteLocation{Lsb: lsb, Msb: msb}
	if err := loc.Validate(); err != nil {
		return VoteLocation{}, err
	}
	return loc, nil
}

// Validate returns nil if the location satisfies the voting field invariants.
func (l VoteLocation) Validate() error {
	if l.Lsb > l.Msb {
		return fmt.Errorf("%w: lsb %d > msb %d", ErrInvalidProposal, l.Lsb, l.Msb)
	}
	if l.Msb > MaxBitCount-1 {
		return fmt.Errorf("%w: msb %d exceeds voting field ceiling %d", ErrInvalidProposal, l.Msb, MaxBitCount-1)
	}
	return nil
}

// Width returns the number of bits this location reserves.
func (l VoteLocation) Width() uint8 {
	return l.Msb - l.Lsb + 1
}

// Overlaps returns true iff l and other's bit intervals intersect.
func (l VoteLocation) Overlaps(other VoteLocation) bool {
	// Clear of any conflicts: one interval starts entirely after the other ends.
	if l.Msb < other.Lsb || l.Lsb > other.Msb {
		return false
	}
	return true
}

// Extract reads the w-bit unsigned integer this location addresses out of
// a block header's voting field. The core never interprets the result;
// this is exposed for the tally subsystem named in spec.md's glossary.
func (l VoteLocation) Extract(votingField uint32) uint32 {
	width := uint32(l.Width())
	mask := uint32(1)<<width - 1
	return (votingField >> l.Lsb) & mask
}

// Bytes implements the wire encoding (msb:u8, lsb:u8) named in spec.md §6.
func (l VoteLocation) Bytes() []byte {
	return []byte{l.Msb, l.Lsb}
}

// Read decodes a VoteLocation from r.
func (l *VoteLocation) Read(r io.Reader) error {
	buf := make([]byte, 2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	l.Msb = buf[0]
	l.Lsb = buf[1]
	return nil
}

// String implements String() interface
func (l VoteLocation) String() string {
	return fmt.Sprintf("[%d,%d]", l.Lsb, l.Msb)
}

// HeightRange is a closed-closed [Start, End] interval of block heights.
// Resolves spec.md §9 Open Question 1 by fixing end-inclusivity in one
// place for the scheduler. The fee oracle does not use it: GetFee works on
// a half-open [start, start+checkSpan) window against each entry's
// inclusive HeightEnd.
type HeightRange struct {
	Start uint32
	End   uint32
}

// NewHeightRange builds the inclusive [startHeight, startHeight+checkSpan-1] range.
func NewHeightRange(startHeight, checkSpan uint32) HeightRange {
	return HeightRange{Start: startHeight, End: startHeight + checkSpan - 1}
}

// Contains returns true iff h falls within the range, inclusive on both ends.
func (hr HeightRange) Contains(h uint32) bool {
	return hr.Start <= h && h <= hr.End
}

// Overlaps returns true iff hr and other intersect.
func (hr HeightRange) Overlaps(other HeightRange) bool {
	return hr.Start <= other.End && hr.End >= other.Start
}
