// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chain

import "github.com/dblokhin/voteengine/consensus"

// Storage persists scheduled proposal metadata so the in-memory
// scheduler state can be rebuilt after a process restart (spec.md §5:
// "Nothing persists across process restart - the store is rebuilt by
// replaying the chain at startup"). Storage does not check consensus
// rules; all errors here are fatal to the caller.
type Storage interface {
	// Put persists meta, keyed by its hash.
	Put(meta consensus.ProposalMetadata) error

	// Delete removes the entry for hash, if present.
	Delete(hash [32]byte) error

	// LoadAll returns every persisted proposal metadata entry, used to
	// replay the scheduler's state at startup.
	LoadAll() ([]consensus.ProposalMetadata, error)
}
