// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"time"

	"github.com/dsnet/golib/unitconv"

	cliUtils "github.com/Fantom-foundation/beacon-roots-fuzz/go/driver/cli"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/harness"
)

// sessionConfig summarizes the parameters of sessions run by a command.
type sessionConfig struct {
	mode      string
	oracles   []string
	maxErrors int
}

// newSessionWorkerFactory produces workers running one session per input
// and recording failing inputs in the given collector. Workers request an
// abort once maxErrors issues have been collected.
func newSessionWorkerFactory(config sessionConfig, issues *cliUtils.IssuesCollector, onIssue func(input, error)) func() (worker, error) {
	return func() (worker, error) {
		session, err := harness.NewSession(config.mode, config.oracles...)
		if err != nil {
			return nil, err
		}
		return func(in input) consumerResult {
			if issues.NumIssues() >= config.maxErrors {
				return consumeAbort
			}
			if err := runSession(session, in.data); err != nil {
				issues.AddIssue(in.data, fmt.Errorf("%s: %w", in.name, err))
				if onIssue != nil {
					onIssue(in, err)
				}
			}
			return consumeContinue
		}, nil
	}
}

// runSession runs the session on the given data. Panics, which indicate
// broken internal invariants, are reported as errors so that a long running
// campaign can collect them like any other issue.
func runSession(session harness.Session, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session panicked: %v", r)
		}
	}()
	return session.Run(data)
}

func newProgressPrinter(unit string, skipped func() int64, issues *cliUtils.IssuesCollector) func(time.Duration, float64, int64) {
	return func(relativeTime time.Duration, rate float64, current int64) {
		fmt.Printf(
			"[t=%4d:%02d] - Processing ~%s %s per second, total %d, skipped %d, found issues %d\n",
			int(relativeTime.Seconds())/60, int(relativeTime.Seconds())%60,
			unitconv.FormatPrefix(rate, unitconv.SI, 0), unit, current, skipped(), issues.NumIssues(),
		)
	}
}
