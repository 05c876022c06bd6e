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
	"sync/atomic"

	"github.com/urfave/cli/v2"

	cliUtils "github.com/Fantom-foundation/beacon-roots-fuzz/go/driver/cli"
)

var RunCmd = cliUtils.AddCommonFlags(cli.Command{
	Action: doRun,
	Name:   "run",
	Usage:  "Run sessions on corpus inputs, e.g. to replay previously found issues",
	Flags: []cli.Flag{
		cliUtils.InputFlag,
		cliUtils.ModeFlag,
		cliUtils.OracleFlag,
		cliUtils.JobsFlag,
		cliUtils.MaxErrorsFlag,
	},
})

func doRun(context *cli.Context) error {
	files, err := cliUtils.InputFlag.Fetch(context)
	if err != nil {
		return err
	}
	config, err := fetchSessionConfig(context)
	if err != nil {
		return err
	}
	jobCount := cliUtils.JobsFlag.Fetch(context)

	issues := &cliUtils.IssuesCollector{}
	var skipped atomic.Int64

	produce := func(inputs chan<- input, abort *atomic.Bool) {
		for _, file := range files {
			if abort.Load() {
				return
			}
			data, err := os.ReadFile(file)
			if err != nil {
				fmt.Printf("Failed to read input %v: %v\n", file, err)
				skipped.Add(1)
				continue
			}
			inputs <- input{name: file, data: data}
		}
	}

	onIssue := func(in input, err error) {
		fmt.Printf("FAILED %s\n", in.name)
	}

	fmt.Printf("Running %d inputs in %s mode ...\n", len(files), config.mode)
	err = processInputs(
		produce,
		newSessionWorkerFactory(config, issues, onIssue),
		newProgressPrinter("inputs", skipped.Load, issues),
		jobCount,
	)
	if err != nil {
		return err
	}

	if issues.NumIssues() == 0 {
		fmt.Printf("All inputs passed successfully!\n")
		return nil
	}
	for _, issue := range issues.GetIssues() {
		fmt.Printf("----------------------------\n")
		fmt.Printf("%v\n", issue.Error())
	}
	return fmt.Errorf("failed to pass %d inputs", issues.NumIssues())
}

func fetchSessionConfig(context *cli.Context) (sessionConfig, error) {
	mode, err := cliUtils.ModeFlag.Fetch(context)
	if err != nil {
		return sessionConfig{}, err
	}
	oracles, err := cliUtils.OracleFlag.Fetch(context)
	if err != nil {
		return sessionConfig{}, err
	}
	return sessionConfig{
		mode:      mode,
		oracles:   oracles,
		maxErrors: cliUtils.MaxErrorsFlag.Fetch(context),
	}, nil
}
