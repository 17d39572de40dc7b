// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chain

import (
	"sync"

	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/dblokhin/voteengine/consensus"
	"github.com/sirupsen/logrus"
)

// Chain wires the proposal Scheduler to a best-height snapshot and a
// durable Storage backend, the way the teacher's Chain wires a
// consensus.Block genesis to a storage.Storage backend. It is the
// process-wide object that replaces the ad hoc globals (proposalManager,
// nBestHeight) spec.md §9 Design Note #1 calls out.
type Chain struct {
	mu sync.RWMutex

	scheduler  *consensus.Scheduler
	storage    Storage
	params     *chaincfg.Params
	bestHeight uint32
}

// New builds a Chain backed by storage, replaying any persisted proposal
// metadata into a fresh Scheduler.
func New(storage Storage, params *chaincfg.Params) (*Chain, error) {
	c := &Chain{
		scheduler: consensus.NewScheduler(),
		storage:   storage,
		params:    params,
	}

	if storage != nil {
		entries, err := storage.LoadAll()
		if err != nil {
			return nil, err
		}
		for _, meta := range entries {
			c.scheduler.Store().Insert(meta)
		}
		logrus.Infof("chain: replayed %d proposals from storage", len(entries))
	}

	return c, nil
}

// BestHeight returns the chain's current best-block height snapshot.
// Implements the bestHeight() collaborator named in spec.md §6.
func (c *Chain) BestHeight() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bestHeight
}

// SetBestHeight updates the chain's best-height snapshot. Called by the
// block-processing loop as new blocks are accepted; never read back
// mid-operation by the scheduler, per spec.md §5.
func (c *Chain) SetBestHeight(height uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bestHeight = height
}

// Scheduler returns the chain's proposal scheduler.
func (c *Chain) Scheduler() *consensus.Scheduler {
	return c.scheduler
}

// Params returns the network parameters used to parse refund addresses.
func (c *Chain) Params() *chaincfg.Params {
	return c.params
}

// ScheduleProposal validates and schedules p against the current best
// height snapshot, then persists its metadata.
func (c *Chain) ScheduleProposal(p *consensus.VoteProposal) error {
	bestHeight := c.BestHeight()

	if err := c.scheduler.Schedule(p, bestHeight); err != nil {
		return err
	}

	if c.storage == nil {
		return nil
	}

	var h32 [32]byte
	copy(h32[:], p.GetHash())
	meta, ok := c.scheduler.Store().Get(h32)
	if !ok {
		return nil
	}

	return c.storage.Put(meta)
}

// RemoveProposal drops hash from both the scheduler and storage.
func (c *Chain) RemoveProposal(hash [32]byte) error {
	c.scheduler.Remove(hash)

	if c.storage == nil {
		return nil
	}
	return c.storage.Delete(hash)
}

// AssembleCoinbase runs the deterministic block assembly pipeline of
// spec.md §4.5 over candidates: it orders them by proofHash, decides
// which are accepted, and appends the refund outputs every honest node
// must produce to coinbase. Returns the accepted transactions, which the
// block builder includes in the block body alongside coinbase.
func (c *Chain) AssembleCoinbase(proofHash consensus.Hash, candidates []*wire.MsgTx, coinbase *consensus.CoinBase, txFee btcutil.Amount) ([]*wire.MsgTx, error) {
	ordered := consensus.GetDeterministicOrdering(proofHash, candidates)

	bestHeight := c.BestHeight()

	accepted, err := consensus.GetAcceptedTxProposals(c.scheduler, coinbase, ordered, bestHeight, c.params)
	if err != nil {
		return nil, err
	}

	acceptedSet := make(map[*wire.MsgTx]bool, len(accepted))
	for _, tx := range accepted {
		acceptedSet[tx] = true
	}

	for _, tx := range ordered {
		p, ok := consensus.ProposalFromTransaction(tx, c.params)
		if !ok {
			return nil, consensus.ErrDecodeFailure
		}

		var loc consensus.VoteLocation
		isAccepted := acceptedSet[tx]

		var requiredFee btcutil.Amount
		if isAccepted {
			if !c.scheduler.GetNextLocation(p.BitCount(), p.StartHeight, p.CheckSpan, &loc) {
				return nil, consensus.ErrScheduleConflict
			}
			p.SetLocation(loc)

			requiredFee, err = c.scheduler.GetFee(&p)
			if err != nil {
				return nil, err
			}
		}

		if err := consensus.AddRefundToCoinBase(&p, requiredFee, txFee, isAccepted, coinbase); err != nil {
			return nil, err
		}
	}

	return accepted, nil
}
