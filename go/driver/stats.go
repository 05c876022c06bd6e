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
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/decoder"
	cliUtils "github.com/Fantom-foundation/beacon-roots-fuzz/go/driver/cli"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/harness"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/precompile"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

var StatsCmd = cliUtils.AddCommonFlags(cli.Command{
	Action: doStats,
	Name:   "stats",
	Usage:  "Computes statistics on the contract paths covered by generated inputs",
	Flags: []cli.Flag{
		cliUtils.ModeFlag,
		cliUtils.JobsFlag,
		cliUtils.SeedFlag,
		cliUtils.SessionsFlag,
		cliUtils.RoundsFlag,
	},
})

const (
	outcomeSetNew         = "set/new-slot"
	outcomeSetOverwrite   = "set/overwrite"
	outcomeGetInvalidSize = "get/invalid-size"
	outcomeGetMiss        = "get/miss"
	outcomeGetHit         = "get/hit"
)

var allOutcomes = []string{
	outcomeSetNew,
	outcomeSetOverwrite,
	outcomeGetInvalidSize,
	outcomeGetMiss,
	outcomeGetHit,
}

func doStats(context *cli.Context) error {
	mode, err := cliUtils.ModeFlag.Fetch(context)
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
	if sessions < 0 {
		return fmt.Errorf("statistics require a limited number of sessions")
	}

	withSeeds := mode == harness.ModeEquivalence
	var skipped atomic.Int64
	produce, err := newInputGenerator(seed, sessions, rounds, withSeeds, &skipped)
	if err != nil {
		return err
	}

	collector := newStatsCollector(allOutcomes)
	newWorker := func() (worker, error) {
		return func(in input) consumerResult {
			collectOutcomes(in.data, withSeeds, collector)
			return consumeContinue
		}, nil
	}

	fmt.Printf("Evaluating %d inputs with seed %d using %d jobs ...\n", sessions, seed, jobCount)
	err = processInputs(
		produce,
		newWorker,
		newProgressPrinter("sessions", skipped.Load, &cliUtils.IssuesCollector{}),
		jobCount,
	)
	if err != nil {
		return fmt.Errorf("error evaluating inputs: %w", err)
	}

	fmt.Printf("%v", collector.getStatistics())
	return nil
}

// collectOutcomes runs all rounds encoded in data on the local engine and
// registers the path taken by each of them.
func collectOutcomes(data []byte, withSeeds bool, collector *statsCollector) {
	storage := st.NewStorage()
	cursor := decoder.NewCursor(data)
	for {
		input, err := decoder.DecodeCallInput(cursor, storage, withSeeds)
		if err != nil {
			return
		}
		sizeBefore := storage.Size()
		ret := precompile.Run(input, storage)
		collector.registerRound(classifyRound(input, ret, storage.Size()-sizeBefore))
	}
}

func classifyRound(input *st.CallInput, ret st.ReturnValue, growth int) string {
	switch {
	case input.IsSystemCall() && growth > 0:
		return outcomeSetNew
	case input.IsSystemCall():
		return outcomeSetOverwrite
	case len(input.CallData) != 32:
		return outcomeGetInvalidSize
	case ret.Reverted:
		return outcomeGetMiss
	}
	return outcomeGetHit
}

type statsCollector struct {
	statistics roundStatistics
	mu         sync.Mutex
}

func newStatsCollector(outcomes []string) *statsCollector {
	stats := roundStatistics{make(map[string]uint64)}
	for _, outcome := range outcomes {
		stats.data[outcome] = 0 // initialize all outcomes with 0
	}
	return &statsCollector{statistics: stats}
}

func (c *statsCollector) registerRound(outcome string) {
	c.mu.Lock()
	c.statistics.registerRound(outcome)
	c.mu.Unlock()
}

func (c *statsCollector) getStatistics() *roundStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statistics.clone()
}

type roundStatistics struct {
	data map[string]uint64
}

func (s *roundStatistics) registerRound(outcome string) {
	if s.data == nil {
		s.data = make(map[string]uint64)
	}
	s.data[outcome]++
}

func (s *roundStatistics) getNumRoundsFor(outcome string) uint64 {
	return s.data[outcome]
}

func (s *roundStatistics) clone() *roundStatistics {
	return &roundStatistics{maps.Clone(s.data)}
}

func (s *roundStatistics) String() string {
	builder := strings.Builder{}

	outcomes := maps.Keys(s.data)
	slices.Sort(outcomes)

	builder.WriteString("outcome,num_rounds\n")
	for _, outcome := range outcomes {
		builder.WriteString(fmt.Sprintf("%s,%d\n", outcome, s.data[outcome]))
	}
	return builder.String()
}
