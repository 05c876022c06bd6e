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
	"bytes"
	"errors"
	"testing"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

func TestCursor_Uint16IsBigEndian(t *testing.T) {
	cursor := NewCursor([]byte{0x12, 0x34, 0x56})
	value, err := cursor.Uint16()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := uint16(0x1234), value; want != got {
		t.Errorf("unexpected value, want %x, got %x", want, got)
	}
	if want, got := 1, cursor.Remaining(); want != got {
		t.Errorf("unexpected remaining bytes, want %d, got %d", want, got)
	}
}

func TestCursor_Uint64IsBigEndian(t *testing.T) {
	cursor := NewCursor([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	value, err := cursor.Uint64()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := uint64(0x0102030405060708), value; want != got {
		t.Errorf("unexpected value, want %x, got %x", want, got)
	}
}

func TestCursor_U256IsBigEndian(t *testing.T) {
	data := make([]byte, 32)
	data[0] = 0x80
	data[31] = 0x01
	value, err := NewCursor(data).U256()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := NewU256(1<<63, 0, 0, 1), value; !want.Eq(got) {
		t.Errorf("unexpected value, want %v, got %v", want, got)
	}
}

func TestCursor_Bool(t *testing.T) {
	tests := map[uint16]bool{0: false, 1: true, 2: false, 0x0101: true, 0xffff: true, 0xfffe: false}
	for input, want := range tests {
		value, err := NewCursor(NewEncoder().Uint16(input).Data()).Bool()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want != value {
			t.Errorf("unexpected value for %x, want %t, got %t", input, want, value)
		}
	}
}

func TestCursor_Bytes(t *testing.T) {
	cursor := NewCursor([]byte{0x00, 0x03, 0xa, 0xb, 0xc, 0xd})
	value, err := cursor.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := []byte{0xa, 0xb, 0xc}, value; !bytes.Equal(want, got) {
		t.Errorf("unexpected value, want %x, got %x", want, got)
	}
	if want, got := 1, cursor.Remaining(); want != got {
		t.Errorf("unexpected remaining bytes, want %d, got %d", want, got)
	}
}

func TestCursor_BytesDoesNotAliasInput(t *testing.T) {
	data := []byte{0x00, 0x01, 0xa}
	value, err := NewCursor(data).Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data[2] = 0xb
	if want, got := byte(0xa), value[0]; want != got {
		t.Errorf("result aliases input, want %x, got %x", want, got)
	}
}

func TestCursor_FailedReadsDoNotConsumeInput(t *testing.T) {
	tests := map[string]struct {
		data []byte
		read func(*Cursor) error
	}{
		"uint16": {[]byte{1}, func(c *Cursor) error { _, err := c.Uint16(); return err }},
		"uint64": {make([]byte, 7), func(c *Cursor) error { _, err := c.Uint64(); return err }},
		"bool":   {[]byte{1}, func(c *Cursor) error { _, err := c.Bool(); return err }},
		"u256":   {make([]byte, 31), func(c *Cursor) error { _, err := c.U256(); return err }},
		"bytes prefix": {[]byte{0}, func(c *Cursor) error {
			_, err := c.Bytes()
			return err
		}},
		"bytes body": {[]byte{0, 4, 1, 2, 3}, func(c *Cursor) error {
			_, err := c.Bytes()
			return err
		}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cursor := NewCursor(test.data)
			if err := test.read(cursor); !errors.Is(err, ErrInsufficientInput) {
				t.Fatalf("unexpected error, want %v, got %v", ErrInsufficientInput, err)
			}
			if want, got := len(test.data), cursor.Remaining(); want != got {
				t.Errorf("failed read consumed input, want %d bytes remaining, got %d", want, got)
			}
		})
	}
}

func TestCursor_EmptyBytesAreValid(t *testing.T) {
	cursor := NewCursor([]byte{0, 0})
	value, err := cursor.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(value) != 0 || cursor.Remaining() != 0 {
		t.Errorf("unexpected result %x with %d bytes remaining", value, cursor.Remaining())
	}
}
