// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "time"

// TransactionInfo wraps a Transaction with the bookkeeping the pool needs to
// order and evict it. It is immutable once created: re-submitting a
// transaction after removal always produces a fresh TransactionInfo with a
// new sequence number, never a resurrection of the old one.
//
// nonceDistance is frozen at insertion time rather than recomputed live.
// Recomputing it on every comparison would only be safe because the one
// thing that changes it, a block import, also triggers a base-fee update
// and thus a full re-sort; freezing it here instead keeps a
// TransactionInfo's btree comparator key pure for its entire time in a
// range set, at the cost of staleness across a block that doesn't change
// the base fee. That trade only matters for the nonce-distance tie-break,
// never for correctness of the fee ordering itself.
type TransactionInfo struct {
	Tx            Transaction
	Sequence      uint64
	Local         bool
	ArrivalTime   time.Time
	nonceDistance int64
}

func newTransactionInfo(tx Transaction, sequence uint64, local bool, now time.Time, nonceDistance int64) *TransactionInfo {
	return &TransactionInfo{
		Tx:            tx,
		Sequence:      sequence,
		Local:         local,
		ArrivalTime:   now,
		nonceDistance: nonceDistance,
	}
}

// Hash is a convenience accessor mirroring TransactionInfo.Tx.Hash().
func (i *TransactionInfo) Hash() Hash { return i.Tx.Hash() }
