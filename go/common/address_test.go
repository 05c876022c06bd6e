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

import "testing"

func TestNewAddress_MasksUpperBits(t *testing.T) {
	word := MaxU256()
	address := NewAddress(word)
	for i, b := range address {
		if b != 0xff {
			t.Fatalf("unexpected byte at position %d: %x", i, b)
		}
	}
	if want, got := NewU256(0xffffffff, 0xffffffffffffffff, 0xffffffffffffffff), AddressToU256(address); !want.Eq(got) {
		t.Errorf("unexpected value, want %v, got %v", want, got)
	}
}

func TestNewAddressFromInt(t *testing.T) {
	address := NewAddressFromInt(0x1234)
	if want, got := "0x0000000000000000000000000000000000001234", address.String(); want != got {
		t.Errorf("unexpected address, want %s, got %s", want, got)
	}
}

func TestSystemAddress(t *testing.T) {
	want := NewU256(0xffffffff, 0xffffffffffffffff, 0xfffffffffffffffe)
	if got := AddressToU256(SystemAddress); !want.Eq(got) {
		t.Errorf("unexpected system address, want %v, got %v", want, got)
	}
}

func TestStorageLimit(t *testing.T) {
	if want, got := NewU256(2*HistoricalRootsModulus), StorageLimit(); !want.Eq(got) {
		t.Errorf("unexpected storage limit, want %v, got %v", want, got)
	}
}
