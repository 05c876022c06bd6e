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
	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

// DecodeCallInput decodes the next call from the cursor. If fillStorage is
// set, the storage entries encoded in the input are written into storage
// while decoding. Entries written before a decoding failure are kept.
func DecodeCallInput(cursor *Cursor, storage *st.Storage, fillStorage bool) (*st.CallInput, error) {
	caller, err := cursor.U256()
	if err != nil {
		return nil, err
	}

	calldata, err := cursor.Bytes()
	if err != nil {
		return nil, err
	}

	if fillStorage {
		if err := decodeStorage(cursor, storage); err != nil {
			return nil, err
		}
	}

	timestamp, err := cursor.Uint64()
	if err != nil {
		return nil, err
	}

	blockNumber, err := cursor.Uint64()
	if err != nil {
		return nil, err
	}

	return &st.CallInput{
		Caller:      NewAddress(caller),
		CallData:    calldata,
		Timestamp:   max(timestamp, ForkTimestamp),
		BlockNumber: max(blockNumber, LondonBlock),
	}, nil
}

func decodeStorage(cursor *Cursor, storage *st.Storage) error {
	for {
		next, err := cursor.Bool()
		if err != nil {
			return err
		}
		if !next {
			return nil
		}
		key, err := cursor.U256()
		if err != nil {
			return err
		}
		value, err := cursor.U256()
		if err != nil {
			return err
		}
		storage.Set(key, value)
	}
}
