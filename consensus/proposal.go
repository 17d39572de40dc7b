// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/sirupsen/logrus"
)

// VoteProposal is created once by a user and becomes immutable once
// SetLocation is called at scheduling time.
type VoteProposal struct {
	Version       int32
	Name          string
	Description   string
	StartHeight   uint32
	CheckSpan     uint32
	Location      VoteLocation
	MaxFee        btcutil.Amount
	RefundAddress btcutil.Address

	// locationSet records whether SetLocation has been called (or Read has
	// decoded a location); Scheduler.Add requires it. It does not stop the
	// fields from being changed afterwards.
	locationSet bool
}

// EndHeight returns the inclusive last block height this proposal's voting
// window covers. See spec.md §9 Open Question 1 and SPEC_FULL.md §5 for the
// end-inclusivity resolution this implements.
func (p *VoteProposal) EndHeight() uint32 {
	return p.StartHeight + p.CheckSpan - 1
}

// HeightRange returns the proposal's inclusive voting window.
func (p *VoteProposal) HeightRange() HeightRange {
	return NewHeightRange(p.StartHeight, p.CheckSpan)
}

// BitCount returns the width, in bits, of the proposal's requested location.
func (p *VoteProposal) BitCount() uint8 {
	return p.Location.Width()
}

// SetLocation assigns the scheduled bit location and marks it as set.
// Nothing prevents a later call, or a direct field write, from changing
// the location or other fields afterwards.
func (p *VoteProposal) SetLocation(loc VoteLocation) {
	p.Location = loc
	p.locationSet = true
}

// LocationSet reports whether SetLocation has been called.
func (p *VoteProposal) LocationSet() bool {
	return p.locationSet
}

// Validate checks the structural invariants from spec.md §3/§4.3 that do
// not require consulting the scheduler's state (name/description length,
// checkSpan range). Height-window and location feasibility are checked by
// the scheduler, which has the state to do so.
func (p *VoteProposal) Validate() error {
	if l := len(p.Name); l < 1 || l > MaxCharName {
		return fmt.Errorf("%w: name length %d not in [1,%d]", ErrInvalidProposal, l, MaxCharName)
	}
	if l := len(p.Description); l < 1 || l > MaxCharAbstract {
		return fmt.Errorf("%w: description length %d not in [1,%d]", ErrInvalidProposal, l, MaxCharAbstract)
	}
	if p.CheckSpan < 1 || p.CheckSpan > MaxCheckSpan {
		return fmt.Errorf("%w: checkSpan %d not in [1,%d]", ErrInvalidProposal, p.CheckSpan, MaxCheckSpan)
	}
	if p.MaxFee < BaseFee {
		return fmt.Errorf("%w: maxFee %d below base fee %d", ErrInvalidProposal, p.MaxFee, BaseFee)
	}
	if p.RefundAddress == nil {
		return fmt.Errorf("%w: missing refund address", ErrBadAddress)
	}
	return nil
}

func writeVarString(buf *bytes.Buffer, s string) error {
	if err := binary.Write(buf, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

func readVarString(r io.Reader, maxLen uint32) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if n > maxLen {
		return "", fmt.Errorf("%w: string length %d exceeds max %d", ErrDecodeFailure, n, maxLen)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Bytes implements the wire encoding named in spec.md §6: the ordered
// tuple (version, maxFee, name, startHeight, checkSpan, description,
// location, refundAddress).
func (p *VoteProposal) Bytes() []byte {
	buf := new(bytes.Buffer)

	if err := binary.Write(buf, binary.BigEndian, p.Version); err != nil {
		logrus.Fatal(err)
	}
	if err := binary.Write(buf, binary.BigEndian, int64(p.MaxFee)); err != nil {
		logrus.Fatal(err)
	}
	if err := writeVarString(buf, p.Name); err != nil {
		logrus.Fatal(err)
	}
	if err := binary.Write(buf, binary.BigEndian, p.StartHeight); err != nil {
		logrus.Fatal(err)
	}
	if err := binary.Write(buf, binary.BigEndian, p.CheckSpan); err != nil {
		logrus.Fatal(err)
	}
	if err := writeVarString(buf, p.Description); err != nil {
		logrus.Fatal(err)
	}
	if _, err := buf.Write(p.Location.Bytes()); err != nil {
		logrus.Fatal(err)
	}

	addr := ""
	if p.RefundAddress != nil {
		addr = p.RefundAddress.EncodeAddress()
	}
	if err := writeVarString(buf, addr); err != nil {
		logrus.Fatal(err)
	}

	return buf.Bytes()
}

// Read decodes a VoteProposal from r. params selects the network used to
// parse the refund address (spec.md §6's ParseAddress collaborator).
func (p *VoteProposal) Read(r io.Reader, params *chaincfg.Params) error {
	if err := binary.Read(r, binary.BigEndian, &p.Version); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	var maxFee int64
	if err := binary.Read(r, binary.BigEndian, &maxFee); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	p.MaxFee = btcutil.Amount(maxFee)

	name, err := readVarString(r, MaxCharName)
	if err != nil {
		return err
	}
	p.Name = name

	if err := binary.Read(r, binary.BigEndian, &p.StartHeight); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	if err := binary.Read(r, binary.BigEndian, &p.CheckSpan); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	desc, err := readVarString(r, MaxCharAbstract)
	if err != nil {
		return err
	}
	p.Description = desc

	if err := p.Location.Read(r); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	p.locationSet = true

	addrStr, err := readVarString(r, 128)
	if err != nil {
		return err
	}
	addr, err := ParseAddress(addrStr, params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadAddress, err)
	}
	p.RefundAddress = addr

	return nil
}

// GetHash returns the deterministic 256-bit digest of the proposal's
// serialized fields — the hash used to key the scheduler's store.
func (p *VoteProposal) GetHash() Hash {
	return Hash256(p.Bytes())
}

// ParseAddress decodes an address string for params. This realizes the
// ParseAddress collaborator named in spec.md §6; address checksumming
// itself is out of scope per spec.md §1 and delegated entirely to btcutil.
func ParseAddress(s string, params *chaincfg.Params) (btcutil.Address, error) {
	return btcutil.DecodeAddress(s, params)
}

// String implements String() interface
func (p VoteProposal) String() string {
	return fmt.Sprintf("%#v", p)
}
