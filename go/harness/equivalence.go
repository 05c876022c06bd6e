// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package harness

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/decoder"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/oracle"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/precompile"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

const (
	propertyEquivalence = "equivalence"
	propertyOracle      = "oracle"
)

// EquivalenceSession compares the local engine with a list of oracles. Each
// round may pre-seed the contract storage before the call; storage persists
// across the rounds of a session.
type EquivalenceSession struct {
	names   []string
	oracles []oracle.Oracle
}

// NewEquivalenceSession creates a session comparing the local engine with
// the given oracles.
func NewEquivalenceSession(oracles ...oracle.Oracle) *EquivalenceSession {
	names := make([]string, len(oracles))
	for i := range oracles {
		names[i] = fmt.Sprintf("oracle-%d", i)
	}
	return &EquivalenceSession{names: names, oracles: oracles}
}

// NewEquivalenceSessionFor creates a session using fresh instances of the
// registered oracles with the given names.
func NewEquivalenceSessionFor(names ...string) (*EquivalenceSession, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no oracle selected, available: %s", strings.Join(oracle.Names(), ", "))
	}
	oracles, err := oracle.NewOracles(names...)
	if err != nil {
		return nil, err
	}
	return &EquivalenceSession{names: names, oracles: oracles}, nil
}

func (s *EquivalenceSession) Run(data []byte) error {
	for i, o := range s.oracles {
		if err := o.Reset(); err != nil {
			return fmt.Errorf("failed to reset %s: %w", s.names[i], err)
		}
	}

	storage := st.NewStorage()
	cursor := decoder.NewCursor(data)
	for round := 0; ; round++ {
		input, err := decoder.DecodeCallInput(cursor, storage, true)
		if err != nil {
			return endOfInput(ModeEquivalence, round, err)
		}

		// The oracles observe the state before the local engine touched it.
		snapshot := storage.Clone()
		want := st.ExecutionResult{
			Ret:  precompile.Run(input, storage),
			Hash: storage.Digest(),
		}
		log.Trace("Executed round", "round", round, "input", input, "result", want)

		for i, o := range s.oracles {
			got, err := oracle.Call(o, input, snapshot)
			if err != nil {
				return s.fail(&Violation{
					Round:    round,
					Property: propertyOracle,
					Input:    input,
					Details:  fmt.Sprintf("%s failed: %v", s.names[i], err),
				})
			}
			if !want.Eq(got) {
				return s.fail(&Violation{
					Round:    round,
					Property: propertyEquivalence,
					Input:    input,
					Details: fmt.Sprintf(
						"%s disagrees, want %v, got %v\n%s",
						s.names[i], want, got, strings.Join(want.Diff(got), "\n"),
					),
				})
			}
		}
	}
}

func (s *EquivalenceSession) fail(violation *Violation) error {
	log.Error("Equivalence violated", "round", violation.Round, "property", violation.Property, "details", violation.Details)
	return violation
}
