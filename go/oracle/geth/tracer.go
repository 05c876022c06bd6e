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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"

	ct "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

const (
	ErrUnexpectedDepth  = ct.ConstErr("call depth should always be 1")
	ErrUnexpectedOpCode = ct.ConstErr("executed operation not part of the contract")
	ErrForeignStorage   = ct.ConstErr("contract altered storage of another account")
)

// tracer checks the execution of the contract for operations it could never
// perform when running the expected code and records all written slots. Only
// the first violation is recorded.
type tracer struct {
	err     error
	written []common.Hash
}

func (t *tracer) hooks() *tracing.Hooks {
	return &tracing.Hooks{
		OnOpcode: t.onOpcode,
	}
}

func (t *tracer) onOpcode(pc uint64, op byte, gas, cost uint64, scope tracing.OpContext, rData []byte, depth int, err error) {
	if t.err != nil {
		return
	}
	if depth != 1 {
		t.err = fmt.Errorf("%w, got %d at pc %d", ErrUnexpectedDepth, depth, pc)
		return
	}
	opCode := vm.OpCode(op)
	if !allowedOpCodes[opCode] {
		t.err = fmt.Errorf("%w: %v at pc %d", ErrUnexpectedOpCode, opCode, pc)
		return
	}
	if opCode != vm.SSTORE {
		return
	}
	if address := scope.Address(); address != contractAddress {
		t.err = fmt.Errorf("%w: %v", ErrForeignStorage, address)
		return
	}
	if stack := scope.StackData(); len(stack) > 0 {
		t.written = append(t.written, common.Hash(stack[len(stack)-1].Bytes32()))
	}
}
