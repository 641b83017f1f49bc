// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "time"

// Config is the closed set of pool-tunable options. Everything else
// (validation rules, gossip, persistence) lives in the enclosing pool
// manager, not here.
type Config struct {
	// MaxTransactionRetentionHours bounds how long a pending transaction may
	// sit unconfirmed before the enclosing pool expires it. PriorityMempool
	// stamps TransactionInfo.ArrivalTime so that expiry can be enforced by
	// the caller; it does not expire transactions itself.
	MaxTransactionRetentionHours int

	// MaxPendingTransactions is the hard cap on the hash index size. Add
	// evicts the single worst transaction whenever an insertion would exceed
	// this.
	MaxPendingTransactions int

	// MaxPooledTransactionHashes sizes the announce-hash cache.
	MaxPooledTransactionHashes int

	// PriceBump is the percentage a replacement transaction at an occupied
	// (sender, nonce) slot must clear, 0-100.
	PriceBump uint64

	// MaxFutureNonceDistance bounds how far ahead of a sender's expected next
	// nonce a transaction may sit before Add rejects it with
	// NonceTooFarInFuture. Zero disables the check.
	MaxFutureNonceDistance uint64
}

// RetentionDuration is a convenience conversion of MaxTransactionRetentionHours.
func (c Config) RetentionDuration() time.Duration {
	return time.Duration(c.MaxTransactionRetentionHours) * time.Hour
}
