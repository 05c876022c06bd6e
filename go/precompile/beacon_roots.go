// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package precompile is a reference implementation of the beacon roots
// contract operating on a st.Storage.
package precompile

import (
	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

// Run executes a call. Calls from the system address store a new root, all
// other calls look one up.
func Run(input *st.CallInput, storage *st.Storage) st.ReturnValue {
	if input.IsSystemCall() {
		return Set(input, storage)
	}
	return Get(input, storage)
}

// Get returns the root stored for the timestamp given as call data. It
// reverts if the call data is not a single word or if the timestamp ring does
// not hold exactly the requested timestamp. Storage is never modified.
func Get(input *st.CallInput, storage *st.Storage) st.ReturnValue {
	if len(input.CallData) != 32 {
		return st.Revert()
	}

	timestamp := NewU256FromBytes(input.CallData...)
	timestampIdx, rootIdx := slots(timestamp)

	// The deployed code (PUSH3 PUSH0 CALLDATALOAD MOD DUP1 SLOAD PUSH0
	// CALLDATALOAD EQ) has no zero check, so timestamp zero matches an
	// unwritten slot.
	if stored := storage.GetChecked(timestampIdx); stored.Ne(timestamp) {
		return st.Revert()
	}

	return st.ReturnWord(storage.GetChecked(rootIdx))
}

// Set stores the call data as root for the timestamp of the call. It never
// reverts and returns no data.
func Set(input *st.CallInput, storage *st.Storage) st.ReturnValue {
	timestamp := NewU256(input.Timestamp)
	timestampIdx, rootIdx := slots(timestamp)

	storage.SetChecked(timestampIdx, timestamp)
	storage.SetChecked(rootIdx, input.CallDataWord())
	return st.Return(nil)
}

// slots computes the ring buffer positions of timestamp and root.
func slots(timestamp U256) (timestampIdx, rootIdx U256) {
	timestampIdx = timestamp.Mod(Modulus())
	rootIdx = timestampIdx.Add(Modulus())
	if !timestampIdx.Lt(rootIdx) {
		panic("timestamp slot must precede root slot")
	}
	return timestampIdx, rootIdx
}
