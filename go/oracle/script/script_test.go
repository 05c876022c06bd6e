// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package script

import (
	"strings"
	"testing"

	"pgregory.net/rand"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/decoder"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/oracle"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/precompile"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

func newTestOracle(t *testing.T) oracle.Oracle {
	t.Helper()
	res, err := oracle.NewOracle("script")
	if err != nil {
		t.Fatalf("failed to create oracle: %v", err)
	}
	return res
}

func TestScriptOracle_SetThenGetReturnsRoot(t *testing.T) {
	o := newTestOracle(t)
	storage := st.NewStorage()

	set := &st.CallInput{Caller: SystemAddress, CallData: []byte{0x01}, Timestamp: 1700000000}
	res, err := oracle.Call(o, set, storage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	precompile.Run(set, storage)
	if want := (st.ExecutionResult{Ret: st.Return(nil), Hash: storage.Digest()}); !want.Eq(res) {
		t.Fatalf("unexpected result of set, want %v, got %v", want, res)
	}

	query := NewU256(1700000000).Bytes32be()
	get := &st.CallInput{Caller: NewAddressFromInt(0x1234), CallData: query[:]}
	res, err = oracle.Call(o, get, storage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := make([]byte, 32)
	root[0] = 0x01
	if want := (st.ExecutionResult{Ret: st.Return(root), Hash: storage.Digest()}); !want.Eq(res) {
		t.Errorf("unexpected result of get, want %v, got %v", want, res)
	}
}

func TestScriptOracle_GetRevertsOnInvalidCallDataLength(t *testing.T) {
	o := newTestOracle(t)
	for _, size := range []int{0, 1, 31, 33} {
		res, err := oracle.Call(o, &st.CallInput{CallData: make([]byte, size)}, st.NewStorage())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Ret.Reverted || len(res.Ret.Data) != 0 {
			t.Errorf("unexpected result for %d bytes: %v", size, res)
		}
	}
}

func TestScriptOracle_SetTruncatesLongCallData(t *testing.T) {
	o := newTestOracle(t)
	data := []byte(strings.Repeat("\x11", 40))
	storage := st.NewStorage()
	input := &st.CallInput{Caller: SystemAddress, CallData: data, Timestamp: 1 << 63}
	res, err := oracle.Call(o, input, storage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	precompile.Run(input, storage)
	if want, got := storage.Digest(), res.Hash; want != got {
		t.Errorf("unexpected digest, want %016x, got %016x", want, got)
	}
}

func TestScriptOracle_AgreesWithPrecompileOnRandomRounds(t *testing.T) {
	rnd := rand.New(0)
	generator := decoder.NewGenerator(rnd)
	o := newTestOracle(t)

	for session := 0; session < 20; session++ {
		if err := o.Reset(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		storage := st.NewStorage()
		cursor := decoder.NewCursor(generator.Input(50, true))
		for round := 0; ; round++ {
			input, err := decoder.DecodeCallInput(cursor, storage, true)
			if err != nil {
				break
			}
			snapshot := storage.Clone()
			want := st.ExecutionResult{Ret: precompile.Run(input, storage), Hash: storage.Digest()}
			got, err := oracle.Call(o, input, snapshot)
			if err != nil {
				t.Fatalf("session %d, round %d: unexpected error: %v", session, round, err)
			}
			if !want.Eq(got) {
				t.Fatalf("session %d, round %d: results differ for %v: %v", session, round, input, want.Diff(got))
			}
		}
	}
}

func TestScriptOracle_RejectsInvalidRequests(t *testing.T) {
	o := newTestOracle(t)
	for _, request := range []string{"", "{", "{}"} {
		if _, err := o.Run([]byte(request)); err == nil {
			t.Errorf("expected error for %q", request)
		}
	}
}
