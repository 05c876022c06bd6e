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
)

// Address is a 160-bit account address.
type Address [20]byte

// addressMask covers the lower 160 bits of a 256-bit word.
var addressMask = NewU256(0xffffffff, 0xffffffffffffffff, 0xffffffffffffffff)

// NewAddress truncates a 256-bit word to its lower 160 bits.
func NewAddress(in U256) Address {
	return in.And(addressMask).Bytes20be()
}

func NewAddressFromInt(in uint64) Address {
	return NewAddress(NewU256(in))
}

func AddressToU256(a Address) U256 {
	return NewU256FromBytes(a[:]...)
}

func RandomAddress(rnd *rand.Rand) Address {
	address := Address{}
	rnd.Read(address[:]) // never returns an error
	return address
}

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}
