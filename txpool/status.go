// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

// AddedStatus is the closed set of outcomes Add can report.
type AddedStatus int

const (
	// Added means the transaction was accepted into one of the two range sets.
	Added AddedStatus = iota
	// AlreadyKnown means the hash was already present; admission is idempotent.
	AlreadyKnown
	// LowerThanReplacementGasPrice means a (sender, nonce) slot is occupied and
	// the incoming transaction doesn't clear the configured price bump.
	LowerThanReplacementGasPrice
	// NonceTooFarInFuture means the nonce exceeds Config.MaxFutureNonceDistance
	// ahead of the sender's expected next nonce.
	NonceTooFarInFuture
	// RejectedUnderpriced is reserved for a pre-admission price check that
	// this pool doesn't perform; it always admits and lets overflow
	// eviction decide, so Add never returns it.
	RejectedUnderpriced
)

func (s AddedStatus) String() string {
	switch s {
	case Added:
		return "added"
	case AlreadyKnown:
		return "already known"
	case LowerThanReplacementGasPrice:
		return "lower than replacement gas price"
	case NonceTooFarInFuture:
		return "nonce too far in future"
	case RejectedUnderpriced:
		return "rejected underpriced"
	default:
		return "unknown"
	}
}
