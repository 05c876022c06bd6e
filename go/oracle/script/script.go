// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package script provides an oracle implementing the beacon roots contract
// in JavaScript, executed by the goja interpreter. Being written in a
// different language and operating on hex strings instead of integers, it
// shares no code and few assumptions with the native implementation.
package script

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"

	. "github.com/Fantom-foundation/beacon-roots-fuzz/go/common"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/oracle"
	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

//go:embed beacon_roots.js
var source string

var program = goja.MustCompile("beacon_roots.js", source, true)

const ErrNoEntryPoint = ConstErr("script does not define a run function")

func init() {
	oracle.MustRegisterFactory("script", func() (oracle.Oracle, error) {
		return newScriptOracle()
	})
}

type scriptOracle struct {
	runtime *goja.Runtime
	run     goja.Callable
}

func newScriptOracle() (*scriptOracle, error) {
	res := &scriptOracle{}
	if err := res.Reset(); err != nil {
		return nil, err
	}
	return res, nil
}

// Reset starts over with a fresh interpreter.
func (o *scriptOracle) Reset() error {
	runtime := goja.New()
	if _, err := runtime.RunProgram(program); err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}
	run, ok := goja.AssertFunction(runtime.Get("run"))
	if !ok {
		return ErrNoEntryPoint
	}
	o.runtime = runtime
	o.run = run
	return nil
}

// result is the output of the script. Instead of a digest it reports the
// full storage after the call, which is hashed on the Go side.
type result struct {
	Ret     oracle.ReturnValue
	Storage map[U256]U256
}

func (o *scriptOracle) Run(request []byte) ([]byte, error) {
	value, err := o.run(goja.Undefined(), o.runtime.ToValue(string(request)))
	if err != nil {
		return nil, fmt.Errorf("script failed: %w", err)
	}
	var res result
	if err := json.Unmarshal([]byte(value.String()), &res); err != nil {
		return nil, fmt.Errorf("invalid script output: %w", err)
	}
	return oracle.EncodeResponse(&oracle.Response{
		Ret:  res.Ret,
		Hash: st.NewStorageFrom(res.Storage).Digest(),
	})
}
