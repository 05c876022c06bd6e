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
	"testing"

	"pgregory.net/rand"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

func FuzzDecodeCallInput(f *testing.F) {
	generator := NewGenerator(rand.New(0))
	for i := 0; i < 16; i++ {
		f.Add(generator.Input(i, i%2 == 0), i%2 == 0)
	}

	f.Fuzz(func(t *testing.T, data []byte, fillStorage bool) {
		first, firstStorage, firstRest := decodeAll(data, fillStorage)
		second, secondStorage, secondRest := decodeAll(data, fillStorage)
		if len(first) != len(second) || firstRest != secondRest {
			t.Fatalf("decoding is not deterministic: %d/%d calls, %d/%d bytes remaining",
				len(first), len(second), firstRest, secondRest)
		}
		if !firstStorage.Eq(secondStorage) {
			t.Fatalf("decoding is not deterministic: %v", firstStorage.Diff(secondStorage))
		}
		for _, input := range first {
			if input.Timestamp < ForkTimestamp || input.BlockNumber < LondonBlock {
				t.Fatalf("input not floored: %v", input)
			}
		}
	})
}
