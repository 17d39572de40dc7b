// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "github.com/btcsuite/btcutil"

const (
	// MaxCharName is the maximum length, in bytes, of a proposal's name.
	MaxCharName = 10

	// MaxCharAbstract is the maximum length, in bytes, of a proposal's description.
	MaxCharAbstract = 30

	// MaxBlocksInFuture is how far past bestHeight a proposal's startHeight may land.
	MaxBlocksInFuture uint32 = 28800

	// MaxCheckSpan is the maximum number of blocks a voting window may cover.
	MaxCheckSpan uint32 = 28800

	// MaxBitCount is the width, in bits, of the voting field.
	MaxBitCount uint8 = 28

	// Coin is the smallest-unit scale of the native asset (satoshi-like units).
	Coin btcutil.Amount = 1e8

	// BaseFee is the minimum burn and the scaling constant of the fee heuristic.
	BaseFee btcutil.Amount = 5 * Coin

	// FeeScale is the K constant of the contention heuristic: H is scaled
	// by FeeScale before dividing by the remaining bit headroom.
	FeeScale int64 = 100000

	// OrderingSegmentSize is the bit-width of each window consumed from the
	// proof hash by GetDeterministicOrdering.
	OrderingSegmentSize uint = 20

	// OrderingMask masks the low OrderingSegmentSize bits of the shifted proof hash.
	OrderingMask uint64 = 0x000FFFFF

	// OrderingModulus bounds the segmentOffset rotation through the proof hash.
	OrderingModulus uint = 256
)
