// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package st

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/maps"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
)

// Storage is the key/value store of the beacon roots contract. Keys that were
// never written read as zero.
type Storage struct {
	entries map[U256]U256
}

func NewStorage() *Storage {
	return &Storage{
		entries: make(map[U256]U256),
	}
}

// NewStorageFrom creates a storage holding a copy of the given entries.
func NewStorageFrom(entries map[U256]U256) *Storage {
	return &Storage{
		entries: maps.Clone(entries),
	}
}

func (s *Storage) Clone() *Storage {
	return NewStorageFrom(s.entries)
}

// Get returns the value stored at key, or zero if the key was never written.
func (s *Storage) Get(key U256) U256 {
	return s.entries[key]
}

func (s *Storage) Set(key U256, value U256) {
	s.entries[key] = value
}

// GetChecked is like Get but panics if key lies outside of the slots the
// contract is able to address.
func (s *Storage) GetChecked(key U256) U256 {
	checkBounds(key)
	return s.Get(key)
}

// SetChecked is like Set but panics if key lies outside of the slots the
// contract is able to address.
func (s *Storage) SetChecked(key U256, value U256) {
	checkBounds(key)
	s.Set(key, value)
}

func checkBounds(key U256) {
	if !key.Lt(StorageLimit()) {
		panic(fmt.Sprintf("storage address out of bounds: %v", key.Hex()))
	}
}

// Size returns the number of entries, including entries written with zero.
func (s *Storage) Size() int {
	return len(s.entries)
}

// Entries returns a copy of all entries.
func (s *Storage) Entries() map[U256]U256 {
	return maps.Clone(s.entries)
}

// Keys returns all keys in ascending order.
func (s *Storage) Keys() []U256 {
	keys := maps.Keys(s.entries)
	slices.SortFunc(keys, func(a, b U256) int { return a.Cmp(b) })
	return keys
}

// Digest summarizes the content of the storage in a 64-bit xxHash. Keys are
// visited in ascending order and each key and value is fed as a 32-byte
// big-endian word, so equal content yields equal digests regardless of the
// order in which the entries were written.
func (s *Storage) Digest() uint64 {
	hasher := xxhash.New()
	for _, key := range s.Keys() {
		k := key.Bytes32be()
		v := s.entries[key].Bytes32be()
		_, _ = hasher.Write(k[:]) // never returns an error
		_, _ = hasher.Write(v[:])
	}
	return hasher.Sum64()
}

func (a *Storage) Eq(b *Storage) bool {
	return maps.Equal(a.entries, b.entries)
}

func (a *Storage) Diff(b *Storage) (res []string) {
	for _, key := range a.Keys() {
		valueA := a.entries[key]
		valueB, contained := b.entries[key]
		if !contained {
			res = append(res, fmt.Sprintf("Different entry:\n\t[%v]=%v\n\tvs\n\tmissing", key, valueA))
		} else if valueA != valueB {
			res = append(res, fmt.Sprintf("Different entry:\n\t[%v]=%v\n\tvs\n\t[%v]=%v", key, valueA, key, valueB))
		}
	}
	for _, key := range b.Keys() {
		if _, contained := a.entries[key]; !contained {
			res = append(res, fmt.Sprintf("Different entry:\n\tmissing\n\tvs\n\t[%v]=%v", key, b.entries[key]))
		}
	}
	return
}

func (s *Storage) String() string {
	var builder strings.Builder
	builder.WriteString("{")
	for i, key := range s.Keys() {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fmt.Sprintf("%v: %v", key.Hex(), s.entries[key].Hex()))
	}
	builder.WriteString("}")
	return builder.String()
}
