// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "github.com/ethereum/go-ethereum/event"

// DropReason is the closed set of reasons a transaction leaves
// PriorityMempool. Remove takes one from its caller; Add and
// ManageBlockAdded pick their own.
type DropReason int

const (
	// DropReasonAddedToBlock means ManageBlockAdded saw the transaction
	// included in the new head block.
	DropReasonAddedToBlock DropReason = iota
	// DropReasonInvalidated means the caller of ManageBlockAdded listed the
	// transaction as no longer executable against the new chain state.
	DropReasonInvalidated
	// DropReasonEvictedOverflow means Add evicted this transaction to make
	// room for a higher-priority one under MaxPendingTransactions.
	DropReasonEvictedOverflow
	// DropReasonReplaced means a higher-fee transaction took this one's
	// (sender, nonce) slot.
	DropReasonReplaced
)

func (r DropReason) String() string {
	switch r {
	case DropReasonAddedToBlock:
		return "added_to_block"
	case DropReasonInvalidated:
		return "invalidated"
	case DropReasonEvictedOverflow:
		return "evicted_overflow"
	case DropReasonReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// TransactionAddedEvent is published after a transaction is admitted.
type TransactionAddedEvent struct {
	Info *TransactionInfo
}

// TransactionDroppedEvent is published after a transaction leaves the pool
// for any reason, including a replacement or an overflow eviction caused by
// a fresh admission (that case publishes Dropped then Added, in that order).
type TransactionDroppedEvent struct {
	Info   *TransactionInfo
	Reason DropReason
}

// observers holds the event.Feed pair the pool publishes to. Subscriptions
// are fanned out after the pool's mutex is released: observers never run
// while the lock is held, so a slow or reentrant subscriber cannot stall
// pool mutation.
type observers struct {
	added   event.Feed
	dropped event.Feed
}

// SubscribeTransactionAdded registers ch to receive every admitted
// transaction. The returned Subscription must be closed by the caller.
func (o *observers) SubscribeTransactionAdded(ch chan<- TransactionAddedEvent) event.Subscription {
	return o.added.Subscribe(ch)
}

// SubscribeTransactionDropped registers ch to receive every removed
// transaction along with why it was removed.
func (o *observers) SubscribeTransactionDropped(ch chan<- TransactionDroppedEvent) event.Subscription {
	return o.dropped.Subscribe(ch)
}

func (o *observers) publishAdded(info *TransactionInfo) {
	o.added.Send(TransactionAddedEvent{Info: info})
}

func (o *observers) publishDropped(info *TransactionInfo, reason DropReason) {
	o.dropped.Send(TransactionDroppedEvent{Info: info, Reason: reason})
}
