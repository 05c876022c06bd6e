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
	"pgregory.net/rand"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

// Generator produces random rounds biased towards interesting sequences:
// stores followed by reads of the same timestamp, timestamps sharing a ring
// buffer residue, and malformed reads.
type Generator struct {
	rnd        *rand.Rand
	timestamps []uint64
}

func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Input generates an encoded input holding the given number of rounds. Each
// input is a session of its own and only reads timestamps it stored itself.
func (g *Generator) Input(rounds int, withSeeds bool) []byte {
	g.timestamps = g.timestamps[:0]
	encoder := NewEncoder()
	for i := 0; i < rounds; i++ {
		encoder.Round(g.Round(withSeeds), withSeeds)
	}
	return encoder.Data()
}

// Round generates a single round.
func (g *Generator) Round(withSeeds bool) Round {
	round := Round{
		Timestamp:   g.timestamp(),
		BlockNumber: LondonBlock + g.rnd.Uint64n(1<<20),
	}

	if g.rnd.Intn(2) == 0 {
		round.Caller = g.systemCaller()
		round.CallData = g.callData()
		// the decoder raises timestamps to the fork timestamp
		g.timestamps = append(g.timestamps, max(round.Timestamp, ForkTimestamp))
	} else {
		round.Caller = RandU256(g.rnd)
		round.CallData = g.query()
	}

	if withSeeds {
		round.Seeds = g.seeds()
	}
	return round
}

// systemCaller encodes the system address, sometimes with garbage in the
// upper 96 bits which are ignored by the decoder.
func (g *Generator) systemCaller() U256 {
	var word [32]byte
	if g.rnd.Intn(4) == 0 {
		g.rnd.Read(word[:12])
	}
	copy(word[12:], SystemAddress[:])
	return NewU256FromBytes(word[:]...)
}

func (g *Generator) timestamp() uint64 {
	switch g.rnd.Intn(4) {
	case 0:
		if len(g.timestamps) > 0 {
			// same residue as an earlier store, overwriting its slots
			previous := g.timestamps[g.rnd.Intn(len(g.timestamps))]
			return previous + HistoricalRootsModulus*(1+g.rnd.Uint64n(4))
		}
		return ForkTimestamp + g.rnd.Uint64n(HistoricalRootsModulus)
	case 1:
		return g.rnd.Uint64n(ForkTimestamp)
	default:
		return ForkTimestamp + g.rnd.Uint64n(1<<32)
	}
}

func (g *Generator) callData() []byte {
	size := 32
	if g.rnd.Intn(4) == 0 {
		size = g.rnd.Intn(65)
	}
	data := make([]byte, size)
	g.rnd.Read(data)
	return data
}

func (g *Generator) query() []byte {
	switch {
	case g.rnd.Intn(8) == 0:
		return g.callData()
	case len(g.timestamps) > 0 && g.rnd.Intn(4) != 0:
		timestamp := g.timestamps[g.rnd.Intn(len(g.timestamps))]
		word := NewU256(timestamp).Bytes32be()
		return word[:]
	default:
		word := NewU256(g.timestamp()).Bytes32be()
		return word[:]
	}
}

func (g *Generator) seeds() []Seed {
	seeds := make([]Seed, g.rnd.Intn(3))
	for i := range seeds {
		key := NewU256(g.rnd.Uint64n(2 * HistoricalRootsModulus))
		if g.rnd.Intn(8) == 0 {
			key = RandU256(g.rnd)
		}
		seeds[i] = Seed{Key: key, Value: RandU256(g.rnd)}
	}
	return seeds
}
