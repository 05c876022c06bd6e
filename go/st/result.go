// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package st

import (
	"bytes"
	"fmt"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

// ReturnValue is the outcome of a single call.
type ReturnValue struct {
	Reverted bool
	Data     []byte
}

// Revert produces a reverted result without data.
func Revert() ReturnValue {
	return ReturnValue{Reverted: true}
}

// Return produces a successful result carrying the given data.
func Return(data []byte) ReturnValue {
	return ReturnValue{Data: data}
}

// ReturnWord produces a successful result carrying a 32-byte word.
func ReturnWord(value U256) ReturnValue {
	word := value.Bytes32be()
	return Return(word[:])
}

// Eq compares two return values structurally. Nil and empty data are
// considered equal.
func (a ReturnValue) Eq(b ReturnValue) bool {
	return a.Reverted == b.Reverted && bytes.Equal(a.Data, b.Data)
}

func (r ReturnValue) String() string {
	return fmt.Sprintf("{reverted: %t, data: 0x%x}", r.Reverted, r.Data)
}

// ExecutionResult combines the return value of a call with the digest of the
// storage after the call.
type ExecutionResult struct {
	Ret  ReturnValue
	Hash uint64
}

func (a ExecutionResult) Eq(b ExecutionResult) bool {
	return a.Ret.Eq(b.Ret) && a.Hash == b.Hash
}

func (a ExecutionResult) Diff(b ExecutionResult) (res []string) {
	if a.Ret.Reverted != b.Ret.Reverted {
		res = append(res, fmt.Sprintf("Different revert status: %t vs %t", a.Ret.Reverted, b.Ret.Reverted))
	}
	if !bytes.Equal(a.Ret.Data, b.Ret.Data) {
		res = append(res, fmt.Sprintf("Different return data: 0x%x vs 0x%x", a.Ret.Data, b.Ret.Data))
	}
	if a.Hash != b.Hash {
		res = append(res, fmt.Sprintf("Different storage digest: %016x vs %016x", a.Hash, b.Hash))
	}
	return
}

func (r ExecutionResult) String() string {
	return fmt.Sprintf("{ret: %v, hash: %016x}", r.Ret, r.Hash)
}
