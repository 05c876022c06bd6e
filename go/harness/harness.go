// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package harness contains the sessions driving the beacon roots engine
// with inputs decoded from fuzzer-provided byte buffers. Each buffer is
// consumed by exactly one session, which decodes and executes rounds until
// the buffer is exhausted. Findings are reported as *Violation errors.
package harness

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/decoder"
)

// Session consumes a single input buffer. A nil result means the buffer
// was processed without findings. Sessions are not safe for concurrent use.
type Session interface {
	Run(data []byte) error
}

const (
	ModeEquivalence = "equivalence"
	ModeInvariants  = "invariants"
)

// Modes lists the names of all session kinds.
func Modes() []string {
	return []string{ModeEquivalence, ModeInvariants}
}

// NewSession creates a session of the given mode. The oracles are only used
// by equivalence sessions, which require at least one of them.
func NewSession(mode string, oracleNames ...string) (Session, error) {
	switch mode {
	case ModeEquivalence:
		return NewEquivalenceSessionFor(oracleNames...)
	case ModeInvariants:
		return NewInvariantSession(), nil
	}
	return nil, fmt.Errorf("unknown session mode: %s", mode)
}

// endOfInput handles the error that terminated the decoding of a round.
// Running out of input is the regular way for a session to end. Any other
// decoding error is forwarded.
func endOfInput(kind string, rounds int, err error) error {
	if !errors.Is(err, decoder.ErrInsufficientInput) {
		return fmt.Errorf("failed to decode round %d: %w", rounds, err)
	}
	log.Debug("Session completed", "kind", kind, "rounds", rounds)
	return nil
}

// FuzzEquivalence runs an equivalence session on the given data using the
// given oracles. It panics on any violation.
func FuzzEquivalence(data []byte, oracles ...string) {
	session, err := NewEquivalenceSessionFor(oracles...)
	if err != nil {
		panic(err)
	}
	if err := session.Run(data); err != nil {
		panic(err)
	}
}

// FuzzInvariants runs an invariant session on the given data. It panics on
// any violation.
func FuzzInvariants(data []byte) {
	if err := NewInvariantSession().Run(data); err != nil {
		panic(err)
	}
}
