// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"fmt"

	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TxKind tags a decoded transaction by its role, built at decode time
// rather than probed at use time with IsCoinBase()/IsProposal()-style
// runtime predicates (spec.md §9 Design Note #3).
type TxKind int

const (
	TxRegular TxKind = iota
	TxCoinbase
	TxProposal
)

// CoinBase wraps a coinbase transaction. Embeds wire.MsgTx so its vout
// list, and SerializeSize, are the canonical btcsuite shapes named in
// spec.md §6 (the SerializeSize collaborator).
type CoinBase struct {
	*wire.MsgTx
}

// NewCoinBase returns a CoinBase wrapping a new transaction with no inputs
// or outputs. It has no null-outpoint input, so IsCoinBase reports false
// for it; it serves as a scratch output list.
func NewCoinBase() *CoinBase {
	return &CoinBase{MsgTx: wire.NewMsgTx(wire.TxVersion)}
}

// IsCoinBase reports whether tx has the shape of a coinbase transaction:
// exactly one input, with a null previous outpoint.
func IsCoinBase(tx *wire.MsgTx) bool {
	if len(tx.TxIn) != 1 {
		return false
	}
	prev := &tx.TxIn[0].PreviousOutPoint
	return prev.Index == wire.MaxPrevOutIndex && prev.Hash == (wire.OutPoint{}).Hash
}

// RefundOutput computes the pay-to-address output for a proposal's unused
// maxFee, per spec.md §4.5's AddRefundToCoinBase rule.
func RefundOutput(p *VoteProposal, requiredFee, txFee btcutil.Amount, accepted bool) (*wire.TxOut, error) {
	script, err := txscript.PayToAddrScript(p.RefundAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAddress, err)
	}

	var value btcutil.Amount
	if accepted {
		value = p.MaxFee - requiredFee - txFee
	} else {
		value = p.MaxFee - txFee
	}

	return &wire.TxOut{
		Value:    int64(value),
		PkScript: script,
	}, nil
}

// AddRefundToCoinBase appends the refund output for p to coinbase.vout.
// Fails if coinbase is not actually a coinbase transaction, or if p's
// refund address does not parse into a script.
func AddRefundToCoinBase(p *VoteProposal, requiredFee, txFee btcutil.Amount, accepted bool, coinbase *CoinBase) error {
	if !IsCoinBase(coinbase.MsgTx) {
		return ErrNotCoinbase
	}

	out, err := RefundOutput(p, requiredFee, txFee, accepted)
	if err != nil {
		return err
	}

	coinbase.AddTxOut(out)
	return nil
}

// GetRefundOutputSize returns the fixed byte delta a single refund output
// contributes to a serialized coinbase, per spec.md §4.5: serialize an
// empty coinbase, append one synthesized refund, and diff the sizes.
func GetRefundOutputSize(p *VoteProposal) (int, error) {
	empty := NewCoinBase()
	before := empty.SerializeSize()

	out, err := RefundOutput(p, 0, 0, true)
	if err != nil {
		return 0, err
	}
	empty.AddTxOut(out)

	after := empty.SerializeSize()
	return after - before, nil
}
