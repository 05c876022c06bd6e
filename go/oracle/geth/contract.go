// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package geth

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"

	ct "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

var contractAddress = common.Address(ct.BeaconRootsAddress)

// beaconRootsCode is the runtime code deployed at the beacon roots address.
var beaconRootsCode = []byte{
	0x33, 0x73, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe, 0x14, 0x60,
	0x44, 0x57, 0x60, 0x20, 0x36, 0x14, 0x60, 0x24, 0x57, 0x5f, 0x5f, 0xfd,
	0x5b, 0x62, 0x01, 0x80, 0x00, 0x5f, 0x35, 0x06, 0x80, 0x54, 0x5f, 0x35,
	0x14, 0x60, 0x37, 0x57, 0x5f, 0x5f, 0xfd, 0x5b, 0x62, 0x01, 0x80, 0x00,
	0x01, 0x54, 0x5f, 0x52, 0x60, 0x20, 0x5f, 0xf3, 0x5b, 0x62, 0x01, 0x80,
	0x00, 0x42, 0x06, 0x42, 0x81, 0x55, 0x5f, 0x35, 0x90, 0x62, 0x01, 0x80,
	0x00, 0x01, 0x55, 0x00,
}

// allowedOpCodes contains every operation occurring in the contract's
// assembly listing, including its deployment code.
var allowedOpCodes = map[vm.OpCode]bool{
	// deployment
	vm.PUSH1:    true,
	vm.DUP1:     true,
	vm.PUSH0:    true,
	vm.CODECOPY: true,
	vm.RETURN:   true,

	// caller check
	vm.CALLER: true,
	vm.PUSH20: true,
	vm.EQ:     true,
	vm.JUMPI:  true,

	// get
	vm.CALLDATASIZE: true,
	vm.REVERT:       true,
	vm.JUMPDEST:     true,
	vm.PUSH3:        true,
	vm.CALLDATALOAD: true,
	vm.MOD:          true,
	vm.SLOAD:        true,
	vm.ADD:          true,
	vm.MSTORE:       true,

	// set
	vm.TIMESTAMP: true,
	vm.DUP2:      true,
	vm.SSTORE:    true,
	vm.SWAP1:     true,
	vm.STOP:      true,
}
