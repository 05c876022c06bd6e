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
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/urfave/cli/v2"
	"pgregory.net/rand"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/decoder"
	cliUtils "github.com/Fantom-foundation/beacon-roots-fuzz/go/driver/cli"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/harness"
)

var FuzzCmd = cliUtils.AddCommonFlags(cli.Command{
	Action: doFuzz,
	Name:   "fuzz",
	Usage:  "Run sessions on randomly generated inputs",
	Flags: []cli.Flag{
		cliUtils.ModeFlag,
		cliUtils.OracleFlag,
		cliUtils.JobsFlag,
		cliUtils.SeedFlag,
		cliUtils.SessionsFlag,
		cliUtils.MaxErrorsFlag,
		cliUtils.RoundsFlag,
	},
})

// recentInputsCacheSize is the number of recently generated inputs
// remembered to avoid running the same input twice.
const recentInputsCacheSize = 1 << 16

func doFuzz(context *cli.Context) error {
	config, err := fetchSessionConfig(context)
	if err != nil {
		return err
	}
	rounds, err := cliUtils.RoundsFlag.Fetch(context)
	if err != nil {
		return err
	}
	jobCount := cliUtils.JobsFlag.Fetch(context)
	seed := cliUtils.SeedFlag.Fetch(context)
	sessions := cliUtils.SessionsFlag.Fetch(context)

	issues := &cliUtils.IssuesCollector{}
	var skipped atomic.Int64

	produce, err := newInputGenerator(seed, sessions, rounds, config.mode == harness.ModeEquivalence, &skipped)
	if err != nil {
		return err
	}

	fmt.Printf("Starting %s fuzzing with seed %d using %d jobs ...\n", config.mode, seed, jobCount)
	err = processInputs(
		produce,
		newSessionWorkerFactory(config, issues, nil),
		newProgressPrinter("sessions", skipped.Load, issues),
		jobCount,
	)
	if err != nil {
		return err
	}

	if issues.NumIssues() == 0 {
		fmt.Printf("All sessions passed successfully!\n")
		return nil
	}
	dir, err := issues.ExportIssues()
	if err != nil {
		return err
	}
	fmt.Printf("Failing inputs can be replayed using `run --input %s`\n", dir)
	return fmt.Errorf("failed to pass %d sessions", issues.NumIssues())
}

// newInputGenerator creates a producer of random inputs. The sequence of
// inputs only depends on the seed. Inputs equal to one of the recently
// produced inputs are skipped. A negative session count produces inputs
// until aborted.
func newInputGenerator(
	seed uint64,
	sessions int64,
	maxRounds int,
	withSeeds bool,
	skipped *atomic.Int64,
) (func(chan<- input, *atomic.Bool), error) {
	recent, err := lru.New[uint64, struct{}](recentInputsCacheSize)
	if err != nil {
		return nil, err
	}
	return func(inputs chan<- input, abort *atomic.Bool) {
		rnd := rand.New(seed)
		generator := decoder.NewGenerator(rnd)
		for i := int64(0); sessions < 0 || i < sessions; i++ {
			if abort.Load() {
				return
			}
			data := generator.Input(1+rnd.Intn(maxRounds), withSeeds)
			if found, _ := recent.ContainsOrAdd(xxhash.Sum64(data), struct{}{}); found {
				skipped.Add(1)
				continue
			}
			inputs <- input{name: fmt.Sprintf("session %d", i), data: data}
		}
	}, nil
}
