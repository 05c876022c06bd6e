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

const (
	// HistoricalRootsModulus is the size of the ring buffer holding
	// timestamps. Roots are stored in a second ring of the same size placed
	// directly after the timestamp ring.
	HistoricalRootsModulus = 98304

	// ShanghaiTimestamp is the mainnet activation time of Shanghai, the first
	// revision supporting PUSH0 used by the contract code.
	ShanghaiTimestamp uint64 = 1681338455

	// ForkTimestamp is the lowest timestamp inputs are raised to.
	ForkTimestamp = ShanghaiTimestamp

	// LondonBlock is the lowest block number inputs are raised to.
	LondonBlock uint64 = 12965000
)

var (
	// SystemAddress is the only caller allowed to store new roots.
	SystemAddress = Address{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
	}

	// BeaconRootsAddress is the address the contract is deployed at.
	BeaconRootsAddress = Address{
		0xbe, 0xac, 0x00, 0x54, 0x1d, 0x49, 0x39, 0x1e, 0xd8, 0x8a,
		0xbf, 0x39, 0x2b, 0xfc, 0x1f, 0x4d, 0xea, 0x8c, 0x41, 0x43,
	}

	modulus = NewU256(HistoricalRootsModulus)
)

// Modulus returns HistoricalRootsModulus as a 256-bit value.
func Modulus() U256 {
	return modulus
}

// StorageLimit is the exclusive upper bound of all slots addressed by the
// contract.
func StorageLimit() U256 {
	return modulus.Add(modulus)
}
