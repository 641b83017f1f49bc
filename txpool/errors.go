// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "github.com/pkg/errors"

var (
	// errInvariantViolation marks pool state caught drifting from its own
	// hash index: every pending transaction must appear in byHash and in
	// exactly one of the two range sets, never both and never neither.
	// checkInvariantsLocked, called at the end of every mutating operation,
	// logs this error with the set sizes when the counts disagree and then
	// rebuilds the range sets from byHash rather than continuing on
	// corrupted state.
	errInvariantViolation = errors.New("txpool: invariant violation")

	// errIteratorExhausted is returned by PrioritizedIterator.Next once both
	// underlying cursors are drained; calling Next again afterwards is a
	// programming error, not a recoverable one.
	errIteratorExhausted = errors.New("txpool: iterator exhausted")
)

// IsInvariantViolation reports whether err originates from a failed
// consistency check between the hash index and the range sets.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, errInvariantViolation)
}
