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
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"golang.org/x/exp/maps"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/oracle"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

func init() {
	oracle.MustRegisterFactory("geth", func() (oracle.Oracle, error) {
		return newGethOracle()
	})
}

// gethOracle runs the deployed contract code on the geth EVM, using an
// in-memory state database that lives until the next Reset.
type gethOracle struct {
	state *state.StateDB
	// slots are all contract storage slots seeded or written since the last
	// reset; the storage digest covers exactly these.
	slots map[common.Hash]struct{}
}

func newGethOracle() (*gethOracle, error) {
	res := &gethOracle{}
	if err := res.Reset(); err != nil {
		return nil, err
	}
	return res, nil
}

func (o *gethOracle) Reset() error {
	db, err := state.New(types.EmptyRootHash, state.NewDatabase(rawdb.NewMemoryDatabase()), nil)
	if err != nil {
		return fmt.Errorf("failed to create state database: %w", err)
	}
	db.SetCode(contractAddress, beaconRootsCode)
	o.state = db
	o.slots = map[common.Hash]struct{}{}
	return nil
}

func (o *gethOracle) Run(data []byte) ([]byte, error) {
	request, err := oracle.DecodeRequest(data)
	if err != nil {
		return nil, err
	}

	for key, value := range request.Storage {
		slot := common.Hash(key.Bytes32be())
		o.state.SetState(contractAddress, slot, common.Hash(value.Bytes32be()))
		o.slots[slot] = struct{}{}
	}

	tracer := &tracer{}
	output, _, err := runtime.Call(contractAddress, request.CallData, &runtime.Config{
		Origin:      common.BytesToAddress(request.Caller[:]),
		State:       o.state,
		ChainConfig: params.MainnetChainConfig,
		BlockNumber: new(big.Int).SetUint64(uint64(request.BlockNumber)),
		Time:        uint64(request.Timestamp),
		// A non-nil random value marks the block as post-merge, which is
		// required for Shanghai operations like PUSH0.
		Random: &common.Hash{},
		EVMConfig: vm.Config{
			Tracer: tracer.hooks(),
		},
	})
	if tracer.err != nil {
		return nil, tracer.err
	}

	reverted := false
	if err != nil {
		if !errors.Is(err, vm.ErrExecutionReverted) {
			return nil, fmt.Errorf("contract execution failed: %w", err)
		}
		reverted = true
	}
	for _, slot := range tracer.written {
		o.slots[slot] = struct{}{}
	}

	result := st.ExecutionResult{
		Ret:  st.ReturnValue{Reverted: reverted, Data: output},
		Hash: o.digest(),
	}
	log.Trace("Executed contract on geth", "reverted", reverted, "output", common.Bytes2Hex(output), "slots", len(o.slots))
	return oracle.EncodeResponse(oracle.NewResponse(result))
}

// digest hashes all tracked slots in ascending order, feeding the 32-byte
// key followed by the 32-byte value of each slot into an xxhash digest.
func (o *gethOracle) digest() uint64 {
	slots := maps.Keys(o.slots)
	slices.SortFunc(slots, func(a, b common.Hash) int { return a.Cmp(b) })
	hasher := xxhash.New()
	for _, slot := range slots {
		value := o.state.GetState(contractAddress, slot)
		_, _ = hasher.Write(slot[:]) // never returns an error
		_, _ = hasher.Write(value[:])
	}
	return hasher.Sum64()
}
