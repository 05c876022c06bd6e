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
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rand"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/decoder"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

func wordOf(value uint64) []byte {
	res := NewU256(value).Bytes32be()
	return res[:]
}

func TestInvariantSession_AcceptsSetThenGet(t *testing.T) {
	if err := NewInvariantSession().Run(setAndGet(false)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvariantSession_AcceptsZeroQueryOnFreshStorage(t *testing.T) {
	data := decoder.EncodeRounds(false,
		decoder.Round{Caller: NewU256(1), CallData: wordOf(0), Timestamp: 1, BlockNumber: 1},
	)
	if err := NewInvariantSession().Run(data); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvariantSession_AcceptsOverwrittenTimestamps(t *testing.T) {
	first := uint64(1700000000)
	second := first + HistoricalRootsModulus
	data := decoder.EncodeRounds(false,
		decoder.Round{Caller: AddressToU256(SystemAddress), CallData: wordOf(1), Timestamp: first},
		decoder.Round{Caller: AddressToU256(SystemAddress), CallData: wordOf(2), Timestamp: second},
		decoder.Round{Caller: NewU256(1), CallData: wordOf(first)},
		decoder.Round{Caller: NewU256(1), CallData: wordOf(second)},
		decoder.Round{Caller: AddressToU256(SystemAddress), CallData: wordOf(3), Timestamp: second},
		decoder.Round{Caller: NewU256(1), CallData: wordOf(second)},
		decoder.Round{Caller: NewU256(1), CallData: make([]byte, 31)},
	)
	if err := NewInvariantSession().Run(data); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvariantSession_AcceptsRandomInputs(t *testing.T) {
	rnd := rand.New(0)
	generator := decoder.NewGenerator(rnd)
	for i := 0; i < 100; i++ {
		if err := NewInvariantSession().Run(generator.Input(100, false)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestInvariantSession_TruncatedInputEndsSession(t *testing.T) {
	data := setAndGet(false)
	for i := 0; i < len(data); i++ {
		if err := NewInvariantSession().Run(data[:i]); err != nil {
			t.Errorf("unexpected error for %d bytes: %v", i, err)
		}
	}
}

func TestInvariants_ViolationsAreDetected(t *testing.T) {
	set := &st.CallInput{Caller: SystemAddress, CallData: []byte{0x01}, Timestamp: 1700000000}
	get := &st.CallInput{Caller: NewAddressFromInt(1), CallData: wordOf(1700000000)}
	root := set.CallDataWord().Bytes32be()

	tests := map[string]struct {
		observation observation
		property    string
	}{
		"set grows storage by one": {
			observation: observation{input: set, sizeBefore: 0, sizeAfter: 1},
			property:    "set storage growth",
		},
		"set reverts": {
			observation: observation{input: set, ret: st.Revert(), sizeAfter: 2},
			property:    "set never reverts",
		},
		"set returns data": {
			observation: observation{input: set, ret: st.Return([]byte{1}), sizeAfter: 2},
			property:    "set returns no data",
		},
		"get writes storage": {
			observation: observation{input: get, ret: st.Revert(), sizeAfter: 2},
			property:    "get has no side effects",
		},
		"get accepts short input": {
			observation: observation{input: &st.CallInput{CallData: []byte{1}}, ret: st.Return(wordOf(0))},
			property:    "get reverts on invalid input size",
		},
		"get returns short data": {
			observation: observation{input: get, ret: st.Return([]byte{1})},
			property:    "get returns a word",
		},
		"get after set reverts": {
			observation: observation{input: get, previous: set, ret: st.Revert()},
			property:    "get reads preceding set",
		},
		"get after set returns wrong root": {
			observation: observation{input: get, previous: set, ret: st.Return(wordOf(2))},
			property:    "get reads preceding set",
		},
		"get returns stale root": {
			observation: observation{
				input: get,
				ret:   st.Return(wordOf(2)),
				roots: map[U256]U256{NewU256(1700000000): NewU256FromBytes(root[:]...)},
			},
			property: "get reads recorded root",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			failure := checkInvariants(&test.observation)
			if failure == nil {
				t.Fatalf("violation not detected")
			}
			if want, got := test.property, failure.property; want != got {
				t.Errorf("unexpected property, want %q, got %q", want, got)
			}
		})
	}
}

func TestInvariants_ValidCallsPass(t *testing.T) {
	set := &st.CallInput{Caller: SystemAddress, CallData: []byte{0x01}, Timestamp: 1700000000}
	get := &st.CallInput{Caller: NewAddressFromInt(1), CallData: wordOf(1700000000)}
	root := set.CallDataWord().Bytes32be()
	roots := map[U256]U256{NewU256(1700000000): set.CallDataWord()}

	tests := map[string]observation{
		"first set":               {input: set, sizeAfter: 2},
		"overwriting set":         {input: set, sizeBefore: 2, sizeAfter: 2},
		"get after set":           {input: get, previous: set, ret: st.Return(root[:]), roots: roots},
		"get of unknown":          {input: get, ret: st.Revert()},
		"short get after set":     {input: &st.CallInput{CallData: wordOf(1)[1:]}, previous: set, ret: st.Revert()},
		"get of overwritten":      {input: get, ret: st.Revert(), roots: roots},
		"get after unrelated set": {input: get, previous: &st.CallInput{Caller: SystemAddress, Timestamp: 1}, ret: st.Revert()},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if failure := checkInvariants(&test); failure != nil {
				t.Errorf("unexpected violation: %v", failure)
			}
		})
	}
}

func TestFuzzInvariants_AcceptsValidInput(t *testing.T) {
	FuzzInvariants(setAndGet(false))
}

func TestNewSession_ProducesSessionsForAllModes(t *testing.T) {
	if _, err := NewSession(ModeInvariants); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := NewSession(ModeEquivalence); err == nil {
		t.Errorf("expected error for equivalence session without oracles")
	}
	if _, err := NewSession("unknown"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}

func TestViolation_CanBeIdentifiedInWrappedErrors(t *testing.T) {
	err := error(&Violation{Round: 3, Property: "p", Input: &st.CallInput{}, Details: "d"})
	wrapped := errors.Join(errors.New("other"), err)
	var violation *Violation
	if !errors.As(wrapped, &violation) || violation.Round != 3 {
		t.Errorf("failed to identify violation in %v", wrapped)
	}
}

func TestEndOfInput_InsufficientInputEndsSession(t *testing.T) {
	err := fmt.Errorf("reading timestamp: %w", decoder.ErrInsufficientInput)
	if err := endOfInput(ModeInvariants, 3, err); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEndOfInput_OtherDecodingErrorsAreForwarded(t *testing.T) {
	injected := errors.New("injected error")
	err := endOfInput(ModeEquivalence, 3, injected)
	if !errors.Is(err, injected) {
		t.Errorf("expected injected error, got %v", err)
	}
}
