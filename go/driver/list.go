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

	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/harness"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/oracle"
)

var ListCmd = cli.Command{
	Action: doList,
	Name:   "list",
	Usage:  "List all session modes and registered oracles",
}

func doList(context *cli.Context) error {
	fmt.Println("modes:")
	for _, mode := range harness.Modes() {
		fmt.Printf("\t%s\n", mode)
	}
	fmt.Println("oracles:")
	for _, name := range oracle.Names() {
		fmt.Printf("\t%s\n", name)
	}
	return nil
}
