// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// mysql storage backend
// all errors in storage are fatals
package storage

import (
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/dblokhin/voteengine/consensus"
)

// SqlStorage is a MySQL-backed chain.Storage, the durable write side of
// the proposal ledger that spec.md §5 says a process-restart replay
// reads back from. Schema:
//
//	CREATE TABLE proposal_metadata (
//	    hash          BINARY(32) NOT NULL PRIMARY KEY,
//	    lsb           TINYINT UNSIGNED NOT NULL,
//	    msb           TINYINT UNSIGNED NOT NULL,
//	    height_start  INT UNSIGNED NOT NULL,
//	    height_end    INT UNSIGNED NOT NULL
//	);
type SqlStorage struct {
	db *sql.DB
}

// NewSqlStorage returns a chain.Storage backed by db.
func NewSqlStorage(db *sql.DB) *SqlStorage {
	return &SqlStorage{db: db}
}

// Put persists meta, keyed by its hash.
func (s *SqlStorage) Put(meta consensus.ProposalMetadata) error {
	_, err := s.db.Exec(
		`INSERT INTO proposal_metadata (hash, lsb, msb, height_start, height_end)
		 VALUES (?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE lsb=?, msb=?, height_start=?, height_end=?`,
		meta.Hash[:], meta.Location.Lsb, meta.Location.Msb, meta.HeightStart, meta.HeightEnd,
		meta.Location.Lsb, meta.Location.Msb, meta.HeightStart, meta.HeightEnd,
	)
	if err != nil {
		return fmt.Errorf("storage: put proposal %s: %w", hex.EncodeToString(meta.Hash[:]), err)
	}
	return nil
}

// Delete removes the entry for hash, if present.
func (s *SqlStorage) Delete(hash [32]byte) error {
	_, err := s.db.Exec(`DELETE FROM proposal_metadata WHERE hash = ?`, hash[:])
	if err != nil {
		return fmt.Errorf("storage: delete proposal %s: %w", hex.EncodeToString(hash[:]), err)
	}
	return nil
}

// LoadAll returns every persisted proposal metadata entry.
func (s *SqlStorage) LoadAll() ([]consensus.ProposalMetadata, error) {
	rows, err := s.db.Query(`SELECT hash, lsb, msb, height_start, height_end FROM proposal_metadata`)
	if err != nil {
		return nil, fmt.Errorf("storage: load proposals: %w", err)
	}
	defer rows.Close()

	var out []consensus.ProposalMetadata
	for rows.Next() {
		var meta consensus.ProposalMetadata
		var hashBytes []byte

		if err := rows.Scan(&hashBytes, &meta.Location.Lsb, &meta.Location.Msb, &meta.HeightStart, &meta.HeightEnd); err != nil {
			return nil, fmt.Errorf("storage: scan proposal row: %w", err)
		}
		copy(meta.Hash[:], hashBytes)

		out = append(out, meta)
	}

	return out, rows.Err()
}
