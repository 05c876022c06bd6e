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
	"os"

	"github.com/urfave/cli/v2"
	"pgregory.net/rand"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/decoder"
	cliUtils "github.com/Fantom-foundation/beacon-roots-fuzz/go/driver/cli"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/harness"
)

var GenerateCmd = cliUtils.AddCommonFlags(cli.Command{
	Action: doGenerate,
	Name:   "generate",
	Usage:  "Generate a corpus of well-formed inputs",
	Flags: []cli.Flag{
		cliUtils.OutFlag,
		cliUtils.CountFlag,
		cliUtils.ModeFlag,
		cliUtils.SeedFlag,
		cliUtils.RoundsFlag,
	},
})

func doGenerate(context *cli.Context) error {
	mode, err := cliUtils.ModeFlag.Fetch(context)
	if err != nil {
		return err
	}
	rounds, err := cliUtils.RoundsFlag.Fetch(context)
	if err != nil {
		return err
	}
	dir := cliUtils.OutFlag.Fetch(context)
	count := cliUtils.CountFlag.Fetch(context)
	seed := cliUtils.SeedFlag.Fetch(context)

	written, err := generateCorpus(dir, count, rounds, seed, mode == harness.ModeEquivalence)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %d inputs for %s mode in %s\n", written, mode, dir)
	return nil
}

// generateCorpus writes count random inputs to the given directory. Inputs
// are named by their content, thus duplicates are only stored once. The
// number of distinct files written is returned.
func generateCorpus(dir string, count, maxRounds int, seed uint64, withSeeds bool) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	rnd := rand.New(seed)
	generator := decoder.NewGenerator(rnd)
	names := map[string]struct{}{}
	for i := 0; i < count; i++ {
		data := generator.Input(1+rnd.Intn(maxRounds), withSeeds)
		path, err := cliUtils.WriteCorpusEntry(dir, data)
		if err != nil {
			return len(names), err
		}
		names[path] = struct{}{}
	}
	return len(names), nil
}
