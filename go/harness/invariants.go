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
	"bytes"
	"fmt"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

// observation summarizes a single call of an invariant session.
type observation struct {
	input    *st.CallInput
	previous *st.CallInput // nil in the first round
	ret      st.ReturnValue

	sizeBefore int
	sizeAfter  int

	// roots maps the timestamp of every set call of the session so far to
	// the padded calldata of that call.
	roots map[U256]U256
}

type failure struct {
	property string
	details  string
}

// invariant is a property of a single call. The check returns an empty
// string if the property holds and a description of the problem otherwise.
type invariant struct {
	name  string
	check func(*observation) string
}

var setInvariants = []invariant{
	{"set storage growth", func(o *observation) string {
		if delta := o.sizeAfter - o.sizeBefore; delta != 0 && delta != 2 {
			return fmt.Sprintf("storage size changed by %d", delta)
		}
		return ""
	}},
	{"set never reverts", func(o *observation) string {
		if o.ret.Reverted {
			return "set reverted"
		}
		return ""
	}},
	{"set returns no data", func(o *observation) string {
		if len(o.ret.Data) != 0 {
			return fmt.Sprintf("set returned 0x%x", o.ret.Data)
		}
		return ""
	}},
}

var getInvariants = []invariant{
	{"get has no side effects", func(o *observation) string {
		if o.sizeAfter != o.sizeBefore {
			return fmt.Sprintf("storage size changed from %d to %d", o.sizeBefore, o.sizeAfter)
		}
		return ""
	}},
	{"get reverts on invalid input size", func(o *observation) string {
		if len(o.input.CallData) != 32 && !o.ret.Reverted {
			return fmt.Sprintf("get with %d bytes of calldata did not revert", len(o.input.CallData))
		}
		return ""
	}},
	{"get returns a word", func(o *observation) string {
		if !o.ret.Reverted && len(o.ret.Data) != 32 {
			return fmt.Sprintf("get returned %d bytes", len(o.ret.Data))
		}
		return ""
	}},
	{"get reads preceding set", checkReadAfterWrite},
	{"get reads recorded root", checkIntegrity},
}

// checkReadAfterWrite verifies that a well-formed get querying the timestamp
// of the immediately preceding set returns the root stored by it.
func checkReadAfterWrite(o *observation) string {
	previous := o.previous
	if previous == nil || !previous.IsSystemCall() || len(o.input.CallData) != 32 {
		return ""
	}
	if NewU256(previous.Timestamp).Ne(NewU256FromBytes(o.input.CallData...)) {
		return ""
	}
	if o.ret.Reverted {
		return fmt.Sprintf("get of timestamp %d reverted right after it was set", previous.Timestamp)
	}
	want := previous.CallDataWord().Bytes32be()
	if !bytes.Equal(want[:], o.ret.Data) {
		return fmt.Sprintf("get of timestamp %d returned 0x%x, set stored 0x%x", previous.Timestamp, o.ret.Data, want)
	}
	return ""
}

// checkIntegrity verifies that a successful get of a timestamp ever used by
// a set returns the root recorded for it, regardless of how many rounds ago
// the set happened.
func checkIntegrity(o *observation) string {
	if o.ret.Reverted {
		return ""
	}
	query := NewU256FromBytes(o.input.CallData...)
	want, found := o.roots[query]
	if !found {
		return ""
	}
	if got := NewU256FromBytes(o.ret.Data...); want.Ne(got) {
		return fmt.Sprintf("get of timestamp %v returned %v, recorded root is %v", query, got, want)
	}
	return ""
}

// checkInvariants evaluates all properties applying to the observed call
// and reports the first one that does not hold.
func checkInvariants(o *observation) *failure {
	invariants := getInvariants
	if o.input.IsSystemCall() {
		invariants = setInvariants
	}
	for _, invariant := range invariants {
		if details := invariant.check(o); details != "" {
			return &failure{property: invariant.name, details: details}
		}
	}
	return nil
}
