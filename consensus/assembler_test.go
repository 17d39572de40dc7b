// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

func newCoinbaseMsgTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	prevOut := wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex)
	tx.AddTxIn(wire.NewTxIn(prevOut, nil, nil))
	return tx
}

func newRegularMsgTx(seed byte) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	var h chainhash.Hash
	h[0] = seed
	prevOut := wire.NewOutPoint(&h, 0)
	tx.AddTxIn(wire.NewTxIn(prevOut, nil, nil))
	return tx
}

func TestIsCoinBase(t *testing.T) {
	if !IsCoinBase(newCoinbaseMsgTx()) {
		t.Errorf("expected newCoinbaseMsgTx to be recognized as a coinbase")
	}
	if IsCoinBase(newRegularMsgTx(1)) {
		t.Errorf("expected newRegularMsgTx not to be recognized as a coinbase")
	}
}

func TestGetDeterministicOrderingIsDeterministic(t *testing.T) {
	candidates := []*wire.MsgTx{
		newRegularMsgTx(1),
		newRegularMsgTx(2),
		newRegularMsgTx(3),
		newRegularMsgTx(4),
	}

	hash := Hash256([]byte("proof"))

	ordered1 := GetDeterministicOrdering(hash, candidates)
	ordered2 := GetDeterministicOrdering(hash, candidates)

	if len(ordered1) != len(candidates) || len(ordered2) != len(candidates) {
		t.Fatalf("GetDeterministicOrdering dropped candidates: got %d and %d, want %d", len(ordered1), len(ordered2), len(candidates))
	}

	for i := range ordered1 {
		if ordered1[i] != ordered2[i] {
			t.Errorf("position %d differs between identical runs: %p != %p", i, ordered1[i], ordered2[i])
		}
	}
}

func TestGetDeterministicOrderingLeavesInputUntouched(t *testing.T) {
	candidates := []*wire.MsgTx{newRegularMsgTx(1), newRegularMsgTx(2)}
	original := make([]*wire.MsgTx, len(candidates))
	copy(original, candidates)

	GetDeterministicOrdering(Hash256([]byte("x")), candidates)

	for i := range candidates {
		if candidates[i] != original[i] {
			t.Errorf("input slice was mutated at index %d", i)
		}
	}
}

func TestProposalTransactionRoundTrip(t *testing.T) {
	p := &VoteProposal{
		Version:       1,
		Name:          "p1",
		Description:   "round trip test",
		StartHeight:   100,
		CheckSpan:     50,
		MaxFee:        10 * Coin,
		RefundAddress: testRefundAddress(t),
		Location:      VoteLocation{Lsb: 0, Msb: 3},
	}

	tx := newRegularMsgTx(9)
	tx.AddTxOut(EncodeProposalTransaction(p))

	decoded, ok := ProposalFromTransaction(tx, &chaincfg.TestNet3Params)
	if !ok {
		t.Fatalf("expected ProposalFromTransaction to decode the carrier output")
	}

	if decoded.Name != p.Name || decoded.Description != p.Description {
		t.Errorf("decoded proposal fields mismatch: got %+v, want name=%q desc=%q", decoded, p.Name, p.Description)
	}
	if decoded.StartHeight != p.StartHeight || decoded.CheckSpan != p.CheckSpan {
		t.Errorf("decoded height window mismatch: got [%d,+%d], want [%d,+%d]",
			decoded.StartHeight, decoded.CheckSpan, p.StartHeight, p.CheckSpan)
	}
}

func TestClassifyTransactionRegular(t *testing.T) {
	tx := newRegularMsgTx(1)
	tx.AddTxOut(&wire.TxOut{Value: 100, PkScript: []byte{0x01, 0x02}})

	kind, _ := classifyTransaction(tx)
	if kind != TxRegular {
		t.Errorf("classifyTransaction(regular) = %v, want TxRegular", kind)
	}
}

func TestClassifyTransactionCoinbase(t *testing.T) {
	kind, _ := classifyTransaction(newCoinbaseMsgTx())
	if kind != TxCoinbase {
		t.Errorf("classifyTransaction(coinbase) = %v, want TxCoinbase", kind)
	}
}

func TestCheckRefundTransactionAcceptsMatchingCoinbase(t *testing.T) {
	s := NewScheduler()

	occupant := newTestProposal(t, "occupant", 100, 50, 8)
	if err := s.Schedule(occupant, 50); err != nil {
		t.Fatalf("Schedule(occupant): %v", err)
	}

	p := &VoteProposal{
		Version:       1,
		Name:          "p2",
		Description:   "contended proposal",
		StartHeight:   110,
		CheckSpan:     20,
		MaxFee:        10000 * Coin,
		RefundAddress: testRefundAddress(t),
		Location:      VoteLocation{Lsb: MaxBitCount - 4, Msb: MaxBitCount - 1},
	}

	tx := newRegularMsgTx(5)
	tx.AddTxOut(EncodeProposalTransaction(p))
	ordered := []*wire.MsgTx{tx}

	decoded, ok := ProposalFromTransaction(tx, &chaincfg.TestNet3Params)
	if !ok {
		t.Fatalf("expected ProposalFromTransaction to decode the carrier output")
	}

	var loc VoteLocation
	if !s.GetNextLocation(decoded.BitCount(), decoded.StartHeight, decoded.CheckSpan, &loc) {
		t.Fatalf("expected a free location for the contended proposal")
	}
	decoded.SetLocation(loc)

	requiredFee, err := s.GetFee(&decoded)
	if err != nil {
		t.Fatalf("GetFee: %v", err)
	}
	if requiredFee > decoded.MaxFee {
		t.Fatalf("test fixture's requiredFee %d exceeds maxFee %d; raise maxFee", requiredFee, decoded.MaxFee)
	}

	txFee := Coin / 10

	coinbase := &CoinBase{MsgTx: newCoinbaseMsgTx()}
	if err := AddRefundToCoinBase(&decoded, requiredFee, txFee, true, coinbase); err != nil {
		t.Fatalf("AddRefundToCoinBase: %v", err)
	}

	if err := CheckRefundTransaction(s, ordered, coinbase, txFee, &chaincfg.TestNet3Params); err != nil {
		t.Errorf("expected CheckRefundTransaction to accept a correctly constructed coinbase, got %v", err)
	}

	// Corrupting the refund value by one satoshi must be caught.
	last := len(coinbase.TxOut) - 1
	coinbase.TxOut[last].Value--

	err = CheckRefundTransaction(s, ordered, coinbase, txFee, &chaincfg.TestNet3Params)
	if !errors.Is(err, ErrRefundMismatch) {
		t.Errorf("expected ErrRefundMismatch after corrupting the refund value, got %v", err)
	}
}
