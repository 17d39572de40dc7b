// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hash is a 256-bit digest (block hash, proposal hash, commitments, ...).
type Hash []byte

// Hash256 hashes b with blake2b-256. This realizes the Hash256 collaborator
// named in spec.md's external interfaces.
func Hash256(b []byte) Hash {
	sum := blake2b.Sum256(b)
	return sum[:]
}

// String returns the hex representation of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h)
}
