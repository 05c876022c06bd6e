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

// CallInput is a single decoded call to the beacon roots contract.
type CallInput struct {
	Caller      Address
	CallData    []byte
	Timestamp   uint64
	BlockNumber uint64
}

// IsSystemCall reports whether the call stores a new root.
func (c *CallInput) IsSystemCall() bool {
	return c.Caller == SystemAddress
}

// CallDataWord returns the call data as a 32-byte word, padded with trailing
// zeros or truncated as needed.
func (c *CallInput) CallDataWord() U256 {
	return NewU256FromPaddedBytes(c.CallData)
}

func (c *CallInput) Clone() *CallInput {
	return &CallInput{
		Caller:      c.Caller,
		CallData:    bytes.Clone(c.CallData),
		Timestamp:   c.Timestamp,
		BlockNumber: c.BlockNumber,
	}
}

func (c *CallInput) String() string {
	return fmt.Sprintf(
		"{caller: %v, calldata: 0x%x, timestamp: %d, block: %d}",
		c.Caller, c.CallData, c.Timestamp, c.BlockNumber,
	)
}
