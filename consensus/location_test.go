// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"testing"
)

func TestVoteLocationValidate(t *testing.T) {
	cases := []struct {
		lsb, msb uint8
		wantErr  bool
	}{
		{0, 0, false},
		{0, 27, false},
		{27, 27, false},
		{5, 3, true},  // lsb > msb
		{0, 28, true}, // msb beyond ceiling
	}

	for _, c := range cases {
		_, err := NewVoteLocation(c.lsb, c.msb)
		if (err != nil) != c.wantErr {
			t.Errorf("NewVoteLocation(%d,%d): got err=%v, wantErr=%v", c.lsb, c.msb, err, c.wantErr)
		}
	}
}

func TestVoteLocationWidth(t *testing.T) {
	loc := VoteLocation{Lsb: 3, Msb: 9}
	if w := loc.Width(); w != 7 {
		t.Errorf("Width() = %d, want 7", w)
	}
}

func TestVoteLocationOverlaps(t *testing.T) {
	a := VoteLocation{Lsb: 0, Msb: 9}
	b := VoteLocation{Lsb: 9, Msb: 15}
	c := VoteLocation{Lsb: 10, Msb: 15}

	if !a.Overlaps(b) {
		t.Errorf("expected %s and %s to overlap at bit 9", a, b)
	}
	if a.Overlaps(c) {
		t.Errorf("expected %s and %s to be disjoint", a, c)
	}
}

func TestVoteLocationExtract(t *testing.T) {
	loc := VoteLocation{Lsb: 4, Msb: 7}
	field := uint32(0b10110101_0000) // bits [4,7] = 0101 = 5

	if got := loc.Extract(field); got != 5 {
		t.Errorf("Extract() = %d, want 5", got)
	}
}

func TestVoteLocationRoundTrip(t *testing.T) {
	loc := VoteLocation{Lsb: 2, Msb: 11}

	var decoded VoteLocation
	if err := decoded.Read(bytes.NewReader(loc.Bytes())); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if decoded != loc {
		t.Errorf("round trip mismatch: got %s, want %s", decoded, loc)
	}
}

func TestHeightRangeInclusive(t *testing.T) {
	hr := NewHeightRange(100, 10)

	if hr.Start != 100 || hr.End != 109 {
		t.Errorf("NewHeightRange(100,10) = [%d,%d], want [100,109]", hr.Start, hr.End)
	}
	if !hr.Contains(100) || !hr.Contains(109) {
		t.Errorf("expected both endpoints to be contained")
	}
	if hr.Contains(110) {
		t.Errorf("expected 110 to be outside [100,109]")
	}
}

func TestHeightRangeOverlaps(t *testing.T) {
	a := NewHeightRange(100, 10) // [100,109]
	b := NewHeightRange(109, 5)  // [109,113]
	c := NewHeightRange(110, 5)  // [110,114]

	if !a.Overlaps(b) {
		t.Errorf("expected %v and %v to overlap at height 109", a, b)
	}
	if a.Overlaps(c) {
		t.Errorf("expected %v and %v to be disjoint", a, c)
	}
}
