// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package precompile

import (
	"bytes"
	"testing"

	"pgregory.net/rand"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

func word(value uint64) []byte {
	res := NewU256(value).Bytes32be()
	return res[:]
}

func TestRun_SetThenGetReturnsRoot(t *testing.T) {
	storage := st.NewStorage()

	set := Run(&st.CallInput{
		Caller:    SystemAddress,
		CallData:  []byte{0x01},
		Timestamp: 1700000000,
	}, storage)
	if want, got := st.Return(nil), set; !want.Eq(got) {
		t.Fatalf("unexpected result of set, want %v, got %v", want, got)
	}

	get := Run(&st.CallInput{
		Caller:   NewAddressFromInt(0x1234),
		CallData: word(1700000000),
	}, storage)

	want := make([]byte, 32)
	want[0] = 0x01
	if get.Reverted {
		t.Fatalf("get reverted")
	}
	if !bytes.Equal(want, get.Data) {
		t.Errorf("unexpected root, want %x, got %x", want, get.Data)
	}
}

func TestGet_RevertsOnInvalidCallDataLength(t *testing.T) {
	storage := st.NewStorage()
	Set(&st.CallInput{Caller: SystemAddress, CallData: word(5), Timestamp: 1700000000}, storage)
	before := storage.Clone()

	for _, size := range []int{0, 1, 31, 33, 64} {
		data := make([]byte, size)
		copy(data, word(1700000000))
		for _, caller := range []Address{NewAddressFromInt(0x1234), {}, BeaconRootsAddress} {
			res := Run(&st.CallInput{Caller: caller, CallData: data}, storage)
			if want, got := st.Revert(), res; !want.Eq(got) {
				t.Errorf("unexpected result for %d bytes, want %v, got %v", size, want, got)
			}
		}
	}
	if !before.Eq(storage) {
		t.Errorf("get modified storage: %v", before.Diff(storage))
	}
}

func TestGet_RevertsOnUnknownTimestamp(t *testing.T) {
	storage := st.NewStorage()
	for _, timestamp := range []uint64{1, ForkTimestamp, 1700000000, 1<<64 - 1} {
		res := Get(&st.CallInput{CallData: word(timestamp)}, storage)
		if !res.Reverted || len(res.Data) != 0 {
			t.Errorf("unexpected result for timestamp %d: %v", timestamp, res)
		}
	}
	if want, got := 0, storage.Size(); want != got {
		t.Errorf("get modified storage, want size %d, got %d", want, got)
	}
}

func TestGet_ZeroTimestampOnFreshStorageReadsDefaultValues(t *testing.T) {
	// Unwritten slots are indistinguishable from slots holding zero. The
	// timestamp slot of zero therefore matches a query for zero and the
	// (unwritten) root slot is returned.
	storage := st.NewStorage()
	res := Get(&st.CallInput{CallData: make([]byte, 32)}, storage)
	if want, got := st.Return(make([]byte, 32)), res; !want.Eq(got) {
		t.Errorf("unexpected result, want %v, got %v", want, got)
	}
	if want, got := 0, storage.Size(); want != got {
		t.Errorf("get modified storage, want size %d, got %d", want, got)
	}
}

func TestGet_RevertsOnOverwrittenTimestamp(t *testing.T) {
	storage := st.NewStorage()
	first := uint64(1700000000)
	second := first + HistoricalRootsModulus

	Set(&st.CallInput{Caller: SystemAddress, CallData: word(1), Timestamp: first}, storage)
	Set(&st.CallInput{Caller: SystemAddress, CallData: word(2), Timestamp: second}, storage)

	if res := Get(&st.CallInput{CallData: word(first)}, storage); !res.Reverted {
		t.Errorf("overwritten timestamp still readable: %v", res)
	}
	if want, got := st.ReturnWord(NewU256(2)), Get(&st.CallInput{CallData: word(second)}, storage); !want.Eq(got) {
		t.Errorf("unexpected result, want %v, got %v", want, got)
	}
}

func TestSet_WritesExactlyTwoSlots(t *testing.T) {
	storage := st.NewStorage()
	timestamp := uint64(1700000000)
	Set(&st.CallInput{Caller: SystemAddress, CallData: []byte{0xaa, 0xbb}, Timestamp: timestamp}, storage)

	timestampIdx := NewU256(timestamp % HistoricalRootsModulus)
	rootIdx := NewU256(timestamp%HistoricalRootsModulus + HistoricalRootsModulus)

	if want, got := 2, storage.Size(); want != got {
		t.Fatalf("unexpected storage size, want %d, got %d", want, got)
	}
	if want, got := NewU256(timestamp), storage.Get(timestampIdx); !want.Eq(got) {
		t.Errorf("unexpected timestamp, want %v, got %v", want, got)
	}
	if want, got := NewU256(0xaabb<<48, 0, 0, 0), storage.Get(rootIdx); !want.Eq(got) {
		t.Errorf("unexpected root, want %v, got %v", want, got)
	}
}

func TestSet_TruncatesLongCallData(t *testing.T) {
	storage := st.NewStorage()
	data := append(word(42), 0xff, 0xff)
	Set(&st.CallInput{Caller: SystemAddress, CallData: data, Timestamp: ForkTimestamp}, storage)
	res := Get(&st.CallInput{CallData: word(ForkTimestamp)}, storage)
	if want, got := st.ReturnWord(NewU256(42)), res; !want.Eq(got) {
		t.Errorf("unexpected result, want %v, got %v", want, got)
	}
}

func TestSet_NeverRevertsAndReturnsNoData(t *testing.T) {
	rnd := rand.New(0)
	storage := st.NewStorage()
	for i := 0; i < 1000; i++ {
		data := make([]byte, rnd.Intn(100))
		rnd.Read(data)
		before := storage.Size()
		res := Run(&st.CallInput{Caller: SystemAddress, CallData: data, Timestamp: rnd.Uint64()}, storage)
		if res.Reverted || len(res.Data) != 0 {
			t.Fatalf("unexpected result of set: %v", res)
		}
		if delta := storage.Size() - before; delta != 0 && delta != 2 {
			t.Fatalf("unexpected change of storage size: %d", delta)
		}
	}
	if storage.Size() > 2*HistoricalRootsModulus {
		t.Errorf("storage exceeds ring buffer: %d entries", storage.Size())
	}
}

func TestSet_IdempotentOverwriteKeepsSize(t *testing.T) {
	storage := st.NewStorage()
	input := &st.CallInput{Caller: SystemAddress, CallData: word(3), Timestamp: 1700000000}
	Set(input, storage)
	Set(input, storage)
	if want, got := 2, storage.Size(); want != got {
		t.Errorf("unexpected storage size, want %d, got %d", want, got)
	}
}
