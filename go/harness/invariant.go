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
	"github.com/ethereum/go-ethereum/log"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/decoder"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/precompile"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

// InvariantSession runs the local engine on a single long-lived contract
// instance and checks properties that hold for any correct implementation.
// Storage is never pre-seeded, so all state originates from calls.
type InvariantSession struct{}

func NewInvariantSession() *InvariantSession {
	return &InvariantSession{}
}

func (s *InvariantSession) Run(data []byte) error {
	storage := st.NewStorage()
	cursor := decoder.NewCursor(data)
	roots := map[U256]U256{}
	var previous *st.CallInput

	for round := 0; ; round++ {
		input, err := decoder.DecodeCallInput(cursor, storage, false)
		if err != nil {
			return endOfInput(ModeInvariants, round, err)
		}

		sizeBefore := storage.Size()
		ret := precompile.Run(input, storage)
		call := &observation{
			input:      input,
			previous:   previous,
			ret:        ret,
			sizeBefore: sizeBefore,
			sizeAfter:  storage.Size(),
			roots:      roots,
		}
		log.Trace("Executed round", "round", round, "input", input, "result", ret)

		if failure := checkInvariants(call); failure != nil {
			violation := &Violation{
				Round:    round,
				Property: failure.property,
				Input:    input,
				Details:  failure.details,
			}
			log.Error("Invariant violated", "round", round, "property", violation.Property, "details", violation.Details)
			return violation
		}

		if input.IsSystemCall() {
			roots[NewU256(input.Timestamp)] = input.CallDataWord()
		}
		previous = input
	}
}
