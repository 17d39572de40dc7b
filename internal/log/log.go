// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package log centralizes the logrus setup the teacher's main() used to
// do inline in an init() func, so every entrypoint configures output and
// level the same way.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup points the package-level logrus logger at out and restricts it
// to level and above. Call once from main before starting any
// goroutines that log.
func Setup(level string, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	logrus.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	return nil
}
