// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package harness

import (
	"fmt"

	"github.com/Fantom-foundation/beacon-roots-fuzz/go/st"
)

// Violation is a fatal finding of a session: either a property that does
// not hold, or a disagreement between the local engine and an oracle.
type Violation struct {
	// Round is the zero-based index of the round the violation was found in.
	Round    int
	Property string
	Input    *st.CallInput
	Details  string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("violation of %s in round %d for input %v: %s", v.Property, v.Round, v.Input, v.Details)
}
