// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "errors"

// Tagged error kinds. Operations in this package that return an error
// use these (wrapped with additional context via fmt.Errorf/%w where
// useful). CheckProposal and GetNextLocation report with a bool instead,
// and VoteLocation.Read and the string fields of VoteProposal.Read pass
// an underlying io error through without one of these kinds.
var (
	// ErrInvalidProposal means a proposal failed structural validation
	// (name/description length, height window, checkSpan range).
	ErrInvalidProposal = errors.New("invalid proposal")

	// ErrScheduleConflict means admitting the proposal would violate the
	// non-overlap invariant.
	ErrScheduleConflict = errors.New("schedule conflict")

	// ErrDecodeFailure means a transaction did not contain a parseable proposal.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrBadAddress means a refund address failed to parse.
	ErrBadAddress = errors.New("bad refund address")

	// ErrNotCoinbase means a coinbase-only operation received a non-coinbase transaction.
	ErrNotCoinbase = errors.New("not a coinbase transaction")

	// ErrFeeOverflow means the computed fee is negative or not representable.
	ErrFeeOverflow = errors.New("fee overflow")

	// ErrRefundMismatch means a coinbase's refund outputs disagree with the
	// deterministic reconstruction.
	ErrRefundMismatch = errors.New("refund mismatch")
)
