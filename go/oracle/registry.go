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

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for Oracle implementations. An
// implementation becomes available by registering a factory for it, which
// is typically done by the init code of the package providing it. Thus,
// importing an implementation package makes the oracle available to all
// sessions and tools.

// Factory is the type of a function creating a fresh Oracle instance. Every
// session obtains its own instance, so instances are never shared between
// goroutines.
type Factory func() (Oracle, error)

// NewOracle creates a new instance of the oracle registered under the given
// name (case-insensitive). An error is returned if no such oracle exists.
func NewOracle(name string) (Oracle, error) {
	factory := GetFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("oracle not found: %s", name)
	}
	return factory()
}

// NewOracles creates one instance for each of the given names.
func NewOracles(names ...string) ([]Oracle, error) {
	res := make([]Oracle, 0, len(names))
	for _, name := range names {
		oracle, err := NewOracle(name)
		if err != nil {
			return nil, err
		}
		res = append(res, oracle)
	}
	return res, nil
}

// GetFactory performs a lookup for the given name (case-insensitive) in the
// registry. The result is nil if no factory was registered under the name.
func GetFactory(name string) Factory {
	registryLock.Lock()
	defer registryLock.Unlock()
	return registry[strings.ToLower(name)]
}

// Names lists the names of all registered oracles in alphabetical order.
func Names() []string {
	registryLock.Lock()
	defer registryLock.Unlock()
	res := maps.Keys(registry)
	slices.Sort(res)
	return res
}

// RegisterFactory registers a new Oracle implementation. The name is not
// case-sensitive. An error is returned if a factory was bound to the same
// name before, or the factory is nil.
func RegisterFactory(name string, factory Factory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	registryLock.Lock()
	defer registryLock.Unlock()
	if _, found := registry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	registry[key] = factory
	return nil
}

// MustRegisterFactory is like RegisterFactory but panics on errors. It is
// intended to be used by package initialization code.
func MustRegisterFactory(name string, factory Factory) {
	if err := RegisterFactory(name, factory); err != nil {
		panic(err)
	}
}

var registry = map[string]Factory{}

var registryLock sync.Mutex
