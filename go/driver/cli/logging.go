// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// SetupLogging installs a terminal logger writing to the given writer as
// the default logger. The verbosity uses the legacy geth scale ranging from
// 0 (silent) to 5 (trace).
func SetupLogging(writer io.Writer, verbosity int) {
	useColor := false
	if file, ok := writer.(*os.File); ok {
		useColor = (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) && os.Getenv("TERM") != "dumb"
	}
	level := log.FromLegacyLevel(verbosity)
	if verbosity <= 0 {
		level = log.LevelCrit + 1
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(writer, level, useColor)))
}
