// File: exchange/errors.go
// Author: momentics <momentics@gmail.com>
//
// Minimal error taxonomy for the exchange primitives. Both error kinds are
// programmer errors, not runtime conditions: unbalanced write regions and
// out-of-range pending ids are precondition violations, not something a
// caller recovers from.

package exchange

import "errors"

// StrictMode gates precondition checks that would otherwise cost a branch
// on the hot path. Debug builds and tests want it on ("fail loudly");
// a release build that has verified its own call discipline may set it
// false to shave the check. Defaults to true.
var StrictMode = true

// ErrUnbalancedWrite is raised when EndWrite is called without a matching
// BeginWrite (the reentrancy counter would go negative).
var ErrUnbalancedWrite = errors.New("exchange: unbalanced write region")

// ErrInvalidPendingID is raised when an Array operation is given a
// pending writer id outside its configured range.
var ErrInvalidPendingID = errors.New("exchange: invalid pending id")

// assertf panics with err when cond is false and StrictMode is enabled.
// Only ever called on the cold, invariant-violation path.
func assertf(cond bool, err error) {
	if !cond && StrictMode {
		panic(err)
	}
}
