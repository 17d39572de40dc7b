// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package main

import (
	"database/sql"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dblokhin/voteengine/chain"
	"github.com/dblokhin/voteengine/config"
	"github.com/dblokhin/voteengine/internal/log"
	"github.com/dblokhin/voteengine/storage"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		logrus.Fatal(err)
	}

	if err := log.Setup(cfg.LogLevel, os.Stdout); err != nil {
		logrus.Fatal(err)
	}

	params, err := cfg.Params()
	if err != nil {
		logrus.Fatal(err)
	}

	var store chain.Storage
	if cfg.DSN == "" {
		store = storage.NewMemoryStorage()
		logrus.Info("voted: running with in-memory proposal storage, no durability across restarts")
	} else {
		db, err := sql.Open("mysql", cfg.DSN)
		if err != nil {
			logrus.Fatal(err)
		}
		store = storage.NewSqlStorage(db)
	}

	c, err := chain.New(store, params)
	if err != nil {
		logrus.Fatal(err)
	}

	logrus.Infof("voted: started on %s at height %d", cfg.Network, c.BestHeight())

	// Block production, peer networking, and the proposal-creation UI are
	// external collaborators (spec.md §1); this entrypoint only brings up
	// the scheduler and its storage backend.
	select {}
}
