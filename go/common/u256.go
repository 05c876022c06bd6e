// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"

	"pgregory.net/rand"

	"github.com/holiman/uint256"
)

// U256 is a 256-bit integer type. Contrary to holiman/uint256.Int the API
// operates on values rather than pointers, which makes it usable as a map key.
type U256 struct {
	internal uint256.Int
}

// NewU256 creates a new U256 instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewU256(args ...uint64) (result U256) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args) && i < len(result.internal); i++ {
		result.internal[3-i-offset] = args[i]
	}
	return
}

// NewU256FromBytes creates a new U256 instance from up to 32 bytes given in
// big-endian order. Shorter inputs are padded with leading zeros.
func NewU256FromBytes(bytes ...byte) (result U256) {
	if len(bytes) > 32 {
		panic("Too many arguments")
	}
	result.internal.SetBytes(bytes)
	return
}

// NewU256FromPaddedBytes interprets the first 32 bytes of data as a big-endian
// word. Inputs shorter than 32 bytes are padded with trailing zeros, longer
// inputs are truncated. This is how the EVM loads call data into a word.
func NewU256FromPaddedBytes(data []byte) U256 {
	var word [32]byte
	copy(word[:], data)
	return NewU256FromBytes(word[:]...)
}

func RandU256(rnd *rand.Rand) U256 {
	var value U256
	value.internal[0] = rnd.Uint64()
	value.internal[1] = rnd.Uint64()
	value.internal[2] = rnd.Uint64()
	value.internal[3] = rnd.Uint64()
	return value
}

func MaxU256() (result U256) {
	result.internal.SetAllOne()
	return
}

func (i U256) IsZero() bool {
	return i.internal.IsZero()
}

func (i U256) IsUint64() bool {
	return i.internal.IsUint64()
}

func (i U256) Uint64() uint64 {
	return i.internal.Uint64()
}

func (i U256) Bytes32be() [32]byte {
	return i.internal.Bytes32()
}

func (i U256) Bytes20be() [20]byte {
	return i.internal.Bytes20()
}

func (a U256) Eq(b U256) bool {
	return a.internal.Eq(&b.internal)
}

func (a U256) Ne(b U256) bool {
	return !a.internal.Eq(&b.internal)
}

func (a U256) Lt(b U256) bool {
	return a.internal.Lt(&b.internal)
}

func (a U256) Gt(b U256) bool {
	return a.internal.Gt(&b.internal)
}

// Cmp returns -1, 0, or 1 depending on whether a is less than, equal to, or
// greater than b.
func (a U256) Cmp(b U256) int {
	return a.internal.Cmp(&b.internal)
}

func (a U256) Add(b U256) (z U256) {
	z.internal.Add(&a.internal, &b.internal)
	return
}

// Mod returns a % b, or zero if b is zero.
func (a U256) Mod(b U256) (z U256) {
	z.internal.Mod(&a.internal, &b.internal)
	return
}

func (a U256) And(b U256) (z U256) {
	z.internal.And(&a.internal, &b.internal)
	return
}

func (i U256) String() string {
	return fmt.Sprintf("%016x %016x %016x %016x", i.internal[3], i.internal[2], i.internal[1], i.internal[0])
}

// Hex returns the 0x-prefixed 32-byte big-endian hex encoding of i.
func (i U256) Hex() string {
	bytes := i.internal.Bytes32()
	return fmt.Sprintf("0x%x", bytes[:])
}

func (i U256) MarshalText() ([]byte, error) {
	return []byte(i.Hex()), nil
}

func (i *U256) UnmarshalText(data []byte) error {
	value, err := uint256.FromHex(trimLeadingZeroDigits(string(data)))
	if err != nil {
		return fmt.Errorf("invalid U256 %q: %w", data, err)
	}
	i.internal = *value
	return nil
}

// trimLeadingZeroDigits normalizes a 0x-prefixed hex string to the form
// accepted by uint256.FromHex, which rejects leading zero digits.
func trimLeadingZeroDigits(s string) string {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return s
	}
	digits := s[2:]
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}
	return "0x" + digits
}
