// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package config holds the explicit startup configuration for the voted
// daemon. The teacher's main() built its chain and storage from literal
// constructor arguments (chain.New(&chain.Testnet1, storage.NewSqlStorage(nil)));
// Config generalizes that into one struct so main can be built from flags
// without scattering network/storage selection across the entrypoint.
package config

import (
	"flag"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// Config is the full set of values a voted process needs at startup.
type Config struct {
	// Network selects the chaincfg.Params used to parse refund addresses.
	Network string

	// LogLevel is a logrus level name (debug, info, warn, ...).
	LogLevel string

	// DSN is the MySQL data source name for durable proposal storage.
	// Empty means run with in-memory storage and no durability.
	DSN string
}

// Parse builds a Config from command-line flags, following the teacher's
// preference for explicit constructor arguments over a config file or
// environment-variable layer.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("voted", flag.ContinueOnError)

	cfg := &Config{}
	fs.StringVar(&cfg.Network, "network", "testnet3", "network to run on: mainnet, testnet3")
	fs.StringVar(&cfg.LogLevel, "loglevel", "info", "logrus level: debug, info, warn, error")
	fs.StringVar(&cfg.DSN, "dsn", "", "MySQL DSN for durable proposal storage; empty runs in-memory")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Params resolves Network to the chaincfg.Params it names.
func (c *Config) Params() (*chaincfg.Params, error) {
	switch c.Network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet3":
		return &chaincfg.TestNet3Params, nil
	default:
		return nil, fmt.Errorf("config: unknown network %q", c.Network)
	}
}
