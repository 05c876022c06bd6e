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
	"fmt"
	"math"
	"os"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/harness"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/oracle"
)

type modeFlagType struct {
	cli.StringFlag
}

var ModeFlag = &modeFlagType{
	cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   fmt.Sprintf("kind of session to run, one of: %s", strings.Join(harness.Modes(), ", ")),
		Value:   harness.ModeInvariants,
	},
}

func (f *modeFlagType) Fetch(context *cli.Context) (string, error) {
	mode := context.String(f.Name)
	if !slices.Contains(harness.Modes(), mode) {
		return "", fmt.Errorf("invalid mode %q, use one of: %s", mode, strings.Join(harness.Modes(), ", "))
	}
	return mode, nil
}

type oracleFlagType struct {
	cli.StringSliceFlag
}

var OracleFlag = &oracleFlagType{
	cli.StringSliceFlag{
		Name:    "oracle",
		Aliases: []string{"o"},
		Usage:   "oracle to compare with in equivalence mode, may be repeated",
		Value:   cli.NewStringSlice("geth"),
	},
}

func (f *oracleFlagType) Fetch(context *cli.Context) ([]string, error) {
	names := context.StringSlice(f.Name)
	for _, name := range names {
		if oracle.GetFactory(name) == nil {
			return nil, fmt.Errorf("unknown oracle %q, use one of: %s", name, strings.Join(oracle.Names(), ", "))
		}
	}
	return names, nil
}

type jobsFlagType struct {
	cli.IntFlag
}

var JobsFlag = &jobsFlagType{
	cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "number of jobs run simultaneously",
		Value:   runtime.NumCPU(),
	},
}

func (f *jobsFlagType) Fetch(context *cli.Context) int {
	if jobs := context.Int(f.Name); jobs > 0 {
		return jobs
	}
	return runtime.NumCPU()
}

type seedFlagType struct {
	cli.Uint64Flag
}

var SeedFlag = &seedFlagType{
	cli.Uint64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "seed for the random number generator",
	},
}

func (f *seedFlagType) Fetch(context *cli.Context) uint64 {
	return context.Uint64(f.Name)
}

type sessionsFlagType struct {
	cli.Int64Flag
}

var SessionsFlag = &sessionsFlagType{
	cli.Int64Flag{
		Name:  "sessions",
		Usage: "number of sessions to run, zero or less for no limit",
		Value: 100_000,
	},
}

func (f *sessionsFlagType) Fetch(context *cli.Context) int64 {
	if sessions := context.Int64(f.Name); sessions > 0 {
		return sessions
	}
	return -1
}

type maxErrorsFlagType struct {
	cli.IntFlag
}

var MaxErrorsFlag = &maxErrorsFlagType{
	cli.IntFlag{
		Name:  "max-errors",
		Usage: "aborts testing after the given number of issues",
		Value: -1,
	},
}

func (f *maxErrorsFlagType) Fetch(context *cli.Context) int {
	if maxErrors := context.Int(f.Name); maxErrors > 0 {
		return maxErrors
	}
	return math.MaxInt
}

type roundsFlagType struct {
	cli.IntFlag
}

var RoundsFlag = &roundsFlagType{
	cli.IntFlag{
		Name:  "size",
		Usage: "maximum number of rounds encoded in each generated input",
		Value: 64,
	},
}

func (f *roundsFlagType) Fetch(context *cli.Context) (int, error) {
	rounds := context.Int(f.Name)
	if rounds <= 0 {
		return 0, fmt.Errorf("invalid input size %d, must be positive", rounds)
	}
	return rounds, nil
}

type inputFlagType struct {
	cli.StringSliceFlag
}

var InputFlag = &inputFlagType{
	cli.StringSliceFlag{
		Name:      "input",
		Aliases:   []string{"i"},
		Usage:     "run given input file, or all files in the given directory (recursively)",
		Value:     cli.NewStringSlice("./corpus"),
		TakesFile: true,
	},
}

func (f *inputFlagType) Fetch(context *cli.Context) ([]string, error) {
	return EnumerateInputs(context.StringSlice(f.Name))
}

type outFlagType struct {
	cli.StringFlag
}

var OutFlag = &outFlagType{
	cli.StringFlag{
		Name:      "out",
		Usage:     "directory the generated inputs are written to",
		Value:     "./corpus",
		TakesFile: true,
	},
}

func (f *outFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type countFlagType struct {
	cli.IntFlag
}

var CountFlag = &countFlagType{
	cli.IntFlag{
		Name:  "count",
		Usage: "number of inputs to generate",
		Value: 1000,
	},
}

func (f *countFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type cpuProfileType struct {
	cli.StringFlag
}

var CpuProfileFlag = &cpuProfileType{
	cli.StringFlag{
		Name:      "cpuprofile",
		Usage:     "store CPU profile in the provided filename",
		TakesFile: true,
	},
}

func (f *cpuProfileType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type verbosityFlagType struct {
	cli.IntFlag
}

var VerbosityFlag = &verbosityFlagType{
	cli.IntFlag{
		Name:  "verbosity",
		Usage: "logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	},
}

func (f *verbosityFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

var commonFlags = []cli.Flag{
	CpuProfileFlag,
	VerbosityFlag,
}

// AddCommonFlags extends the given command by flags shared by all commands
// and wraps its action to set up logging and profiling accordingly.
func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		SetupLogging(os.Stderr, VerbosityFlag.Fetch(ctx))

		if cpuprofileFilename := CpuProfileFlag.Fetch(ctx); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}
