// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package decoder

import (
	"encoding/binary"
	"fmt"
	"math"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

// Seed is a storage entry encoded in front of a call.
type Seed struct {
	Key   U256
	Value U256
}

// Round is the structured form of a single encoded call.
type Round struct {
	Caller      U256
	CallData    []byte
	Seeds       []Seed
	Timestamp   uint64
	BlockNumber uint64
}

// Encoder produces inputs in the format read by DecodeCallInput.
type Encoder struct {
	data []byte
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Data returns the encoded input.
func (e *Encoder) Data() []byte {
	return e.data
}

func (e *Encoder) Uint16(value uint16) *Encoder {
	e.data = binary.BigEndian.AppendUint16(e.data, value)
	return e
}

func (e *Encoder) Uint64(value uint64) *Encoder {
	e.data = binary.BigEndian.AppendUint64(e.data, value)
	return e
}

func (e *Encoder) Bool(value bool) *Encoder {
	if value {
		return e.Uint16(1)
	}
	return e.Uint16(0)
}

func (e *Encoder) U256(value U256) *Encoder {
	word := value.Bytes32be()
	e.data = append(e.data, word[:]...)
	return e
}

func (e *Encoder) Bytes(value []byte) *Encoder {
	if len(value) > math.MaxUint16 {
		panic(fmt.Sprintf("byte sequence too long: %d", len(value)))
	}
	e.Uint16(uint16(len(value)))
	e.data = append(e.data, value...)
	return e
}

// Round appends a complete call. Seeds are only encoded if withSeeds is set,
// matching the fillStorage parameter used for decoding.
func (e *Encoder) Round(round Round, withSeeds bool) *Encoder {
	e.U256(round.Caller)
	e.Bytes(round.CallData)
	if withSeeds {
		for _, seed := range round.Seeds {
			e.Bool(true).U256(seed.Key).U256(seed.Value)
		}
		e.Bool(false)
	}
	return e.Uint64(round.Timestamp).Uint64(round.BlockNumber)
}

// EncodeRounds encodes a sequence of calls into a single input.
func EncodeRounds(withSeeds bool, rounds ...Round) []byte {
	encoder := NewEncoder()
	for _, round := range rounds {
		encoder.Round(round, withSeeds)
	}
	return encoder.Data()
}
