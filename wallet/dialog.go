// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package wallet defines the boundary a proposal-creation UI calls
// into. The UI itself — prompting a user for name, description, voting
// window, and max fee, then collecting a refund address from their
// wallet — is an external collaborator with no implementation here.
package wallet

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"

	"github.com/dblokhin/voteengine/consensus"
)

// ProposalDraft is the set of fields a proposal-creation dialog collects
// from its user before handing off to the chain for scheduling.
type ProposalDraft struct {
	Name          string
	Description   string
	StartHeight   uint32
	CheckSpan     uint32
	BitCount      uint8
	MaxFee        btcutil.Amount
	RefundAddress string
}

// ToVoteProposal resolves a draft into a VoteProposal ready for
// Scheduler.Schedule. It does not assign a location: the caller's
// scheduler does that as part of admission.
func (d ProposalDraft) ToVoteProposal(params *chaincfg.Params) (consensus.VoteProposal, error) {
	addr, err := consensus.ParseAddress(d.RefundAddress, params)
	if err != nil {
		return consensus.VoteProposal{}, err
	}

	p := consensus.VoteProposal{
		Version:       1,
		Name:          d.Name,
		Description:   d.Description,
		StartHeight:   d.StartHeight,
		CheckSpan:     d.CheckSpan,
		MaxFee:        d.MaxFee,
		RefundAddress: addr,
		Location: consensus.VoteLocation{
			Msb: consensus.MaxBitCount - 1,
			Lsb: consensus.MaxBitCount - d.BitCount,
		},
	}

	return p, p.Validate()
}
