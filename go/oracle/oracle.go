// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package oracle

//go:generate mockgen -source oracle.go -destination oracle_mock.go -package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

// Oracle is an independent implementation of the beacon roots contract the
// local engine is compared against. Requests and responses cross the
// boundary as serialized JSON documents so that no state is shared between
// the caller and the oracle.
//
// An Oracle instance is owned by a single session and is not required to be
// safe for concurrent use.
type Oracle interface {
	// Reset discards all state accumulated by previous calls. It is invoked
	// once at the beginning of each session.
	Reset() error

	// Run executes a single call described by a JSON encoded Request and
	// produces a JSON encoded Response.
	Run(request []byte) ([]byte, error)
}

// Request is the wire format of a single call sent to an Oracle.
type Request struct {
	// Caller is the 20-byte caller address, left padded to a full word.
	Caller      common.Hash
	CallData    hexutil.Bytes
	Storage     map[U256]U256
	Timestamp   hexutil.Uint64
	BlockNumber hexutil.Uint64
}

// NewRequest builds the request for the given call, using the given storage
// as the pre-call state of the contract.
func NewRequest(input *st.CallInput, storage *st.Storage) *Request {
	return &Request{
		Caller:      common.BytesToHash(input.Caller[:]),
		CallData:    hexutil.Bytes(input.CallData),
		Storage:     storage.Entries(),
		Timestamp:   hexutil.Uint64(input.Timestamp),
		BlockNumber: hexutil.Uint64(input.BlockNumber),
	}
}

// CallInput converts the request back into the call it describes.
func (r *Request) CallInput() *st.CallInput {
	return &st.CallInput{
		Caller:      Address(common.BytesToAddress(r.Caller[:])),
		CallData:    []byte(r.CallData),
		Timestamp:   uint64(r.Timestamp),
		BlockNumber: uint64(r.BlockNumber),
	}
}

// ReturnValue is the wire format of st.ReturnValue.
type ReturnValue struct {
	Reverted bool
	Data     hexutil.Bytes
}

// Response is the wire format of the outcome of a call.
type Response struct {
	Ret ReturnValue
	// Hash is the digest of the contract storage after the call.
	Hash uint64
}

// NewResponse converts an execution result into its wire format.
func NewResponse(result st.ExecutionResult) *Response {
	data := result.Ret.Data
	if data == nil {
		data = []byte{}
	}
	return &Response{
		Ret: ReturnValue{
			Reverted: result.Ret.Reverted,
			Data:     data,
		},
		Hash: result.Hash,
	}
}

func (r *Response) ExecutionResult() st.ExecutionResult {
	return st.ExecutionResult{
		Ret: st.ReturnValue{
			Reverted: r.Ret.Reverted,
			Data:     []byte(r.Ret.Data),
		},
		Hash: r.Hash,
	}
}

// DecodeRequest parses a JSON encoded Request.
func DecodeRequest(data []byte) (*Request, error) {
	var request Request
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &request, nil
}

// EncodeResponse produces the JSON encoding of the given response.
func EncodeResponse(response *Response) ([]byte, error) {
	return json.Marshal(response)
}

// Call runs the given input on the oracle, using snapshot as the pre-call
// storage of the contract. The snapshot is serialized, so the oracle can
// not alias the caller's storage.
func Call(oracle Oracle, input *st.CallInput, snapshot *st.Storage) (st.ExecutionResult, error) {
	request, err := json.Marshal(NewRequest(input, snapshot))
	if err != nil {
		return st.ExecutionResult{}, fmt.Errorf("failed to encode request: %w", err)
	}
	data, err := oracle.Run(request)
	if err != nil {
		return st.ExecutionResult{}, err
	}
	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return st.ExecutionResult{}, fmt.Errorf("invalid response %q: %w", data, err)
	}
	return response.ExecutionResult(), nil
}
