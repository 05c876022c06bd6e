// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package decoder turns an opaque fuzzer input into a reproducible sequence
// of calls to the beacon roots contract.
//
// The input is consumed strictly from left to right. Every call is encoded as
//
//	caller      32 bytes, only the lower 160 bits are used
//	calldata    16-bit big-endian length followed by that many bytes
//	seeds       zero or more (flag, address, value) triples, each introduced
//	            by a 16-bit flag that is odd to continue; only present when
//	            storage filling is enabled
//	timestamp   64-bit big-endian, raised to ForkTimestamp
//	blocknumber 64-bit big-endian, raised to LondonBlock
//
// A call that cannot be decoded completely ends the session.
package decoder

import (
	"encoding/binary"
	"slices"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

const ErrInsufficientInput = ConstErr("insufficient input")

// Cursor reads fixed and variable sized values from a byte buffer. A failed
// read does not consume any input.
type Cursor struct {
	data []byte
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining returns the number of bytes not consumed yet.
func (c *Cursor) Remaining() int {
	return len(c.data)
}

func (c *Cursor) Uint16() (uint16, error) {
	return extractFixed[uint16](c)
}

func (c *Cursor) Uint64() (uint64, error) {
	return extractFixed[uint64](c)
}

// Bool reads a 16-bit value and reports whether it is odd.
func (c *Cursor) Bool() (bool, error) {
	value, err := c.Uint16()
	if err != nil {
		return false, err
	}
	return value%2 == 1, nil
}

// U256 reads a 32-byte big-endian word. Unlike the fixed width integers,
// the bytes are taken verbatim without an intermediate reversal.
func (c *Cursor) U256() (U256, error) {
	const size = 32
	if c.Remaining() < size {
		return U256{}, ErrInsufficientInput
	}
	value := NewU256FromBytes(c.data[:size]...)
	c.data = c.data[size:]
	return value, nil
}

// Bytes reads a 16-bit length prefix followed by that many bytes. The result
// does not alias the underlying buffer.
func (c *Cursor) Bytes() ([]byte, error) {
	if c.Remaining() < 2 {
		return nil, ErrInsufficientInput
	}
	size := int(binary.BigEndian.Uint16(c.data))
	if c.Remaining()-2 < size {
		return nil, ErrInsufficientInput
	}
	c.data = c.data[2:]
	res := slices.Clone(c.data[:size])
	c.data = c.data[size:]
	return res, nil
}

type fixedWidth interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// extractFixed reads a big-endian integer by reversing its bytes and loading
// the result as a little-endian word.
// TODO: the 256-bit path in U256 loads big-endian directly; unify both paths
// once recorded corpora no longer need to be replayed bit-exact.
func extractFixed[T fixedWidth](c *Cursor) (T, error) {
	var value T
	size := binary.Size(value)
	if c.Remaining() < size {
		return 0, ErrInsufficientInput
	}
	bytes := slices.Clone(c.data[:size])
	slices.Reverse(bytes)
	for i := size - 1; i >= 0; i-- {
		value = value<<8 | T(bytes[i])
	}
	c.data = c.data[size:]
	return value, nil
}
