// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"math/big"

	"github.com/google/btree"
)

// NonceTracker supplies the expected next nonce for a sender, used to
// compute a transaction's nonce distance at insertion time and to bound how
// far into the future Add will accept a transaction. Implementations read
// confirmed chain state; they never see pending pool contents.
type NonceTracker interface {
	// NextNonce returns the nonce the sender is expected to use next,
	// according to confirmed state.
	NextNonce(sender Address) uint64
}

// nonceItem is the btree.Item stored in a per-sender nonce tree, ordered by
// nonce ascending.
type nonceItem struct {
	nonce uint64
	info  *TransactionInfo
}

func (i nonceItem) Less(than btree.Item) bool {
	return i.nonce < than.(nonceItem).nonce
}

// senderNonceTree is the set of pending transactions for a single sender,
// keyed by nonce. It never holds two transactions at the same nonce: a
// replacement evicts the incumbent first.
type senderNonceTree struct {
	tree *btree.BTree
}

func newSenderNonceTree() *senderNonceTree {
	return &senderNonceTree{tree: btree.New(8)}
}

func (t *senderNonceTree) get(nonce uint64) (*TransactionInfo, bool) {
	item := t.tree.Get(nonceItem{nonce: nonce})
	if item == nil {
		return nil, false
	}
	return item.(nonceItem).info, true
}

func (t *senderNonceTree) put(info *TransactionInfo) {
	t.tree.ReplaceOrInsert(nonceItem{nonce: info.Tx.Nonce(), info: info})
}

func (t *senderNonceTree) delete(nonce uint64) {
	t.tree.Delete(nonceItem{nonce: nonce})
}

func (t *senderNonceTree) len() int {
	return t.tree.Len()
}

// SenderNonceIndex groups pending transactions by sender, keyed by nonce,
// and arbitrates replacement at an occupied (sender, nonce) slot using a
// price-bump admission rule.
type SenderNonceIndex struct {
	bySender  map[Address]*senderNonceTree
	tracker   NonceTracker
	priceBump uint64
}

// NewSenderNonceIndex constructs an index backed by tracker for expected
// next-nonce lookups, requiring replacement transactions to clear priceBump
// percent over the incumbent's fee cap (MaxFeePerGas, or GasPrice for legacy
// transactions).
func NewSenderNonceIndex(tracker NonceTracker, priceBump uint64) *SenderNonceIndex {
	return &SenderNonceIndex{
		bySender:  make(map[Address]*senderNonceTree),
		tracker:   tracker,
		priceBump: priceBump,
	}
}

// nonceDistance computes how far ahead of the sender's expected next nonce
// tx sits. A non-negative result means tx is at or ahead of the expected
// nonce; the pool treats a negative distance (a nonce already consumed by
// confirmed state) as a validation failure upstream of Add.
func (idx *SenderNonceIndex) nonceDistance(tx Transaction) int64 {
	next := idx.tracker.NextNonce(tx.Sender())
	return int64(tx.Nonce()) - int64(next)
}

// replacementOutcome is the result of checking whether tx may occupy the
// (sender, nonce) slot currently held by incumbent, if any.
type replacementOutcome int

const (
	// slotFree means there is no incumbent; tx may be inserted outright.
	slotFree replacementOutcome = iota
	// slotReplaced means an incumbent exists and tx clears the price bump;
	// the caller must remove the incumbent before inserting tx.
	slotReplaced
	// slotRejected means an incumbent exists and tx does not clear the
	// price bump.
	slotRejected
)

// checkSlot reports how tx would be admitted at its (sender, nonce) slot,
// without mutating the index.
func (idx *SenderNonceIndex) checkSlot(tx Transaction) (replacementOutcome, *TransactionInfo) {
	tree, ok := idx.bySender[tx.Sender()]
	if !ok {
		return slotFree, nil
	}
	incumbent, ok := tree.get(tx.Nonce())
	if !ok {
		return slotFree, nil
	}
	if clearsPriceBump(incumbent.Tx, tx, idx.priceBump) {
		return slotReplaced, incumbent
	}
	return slotRejected, incumbent
}

// clearsPriceBump reports whether candidate's price exceeds incumbent's by
// more than bump percent, using the integer comparison old*(100+bump) <
// new*100 to avoid floating point in the threshold check; a price exactly at
// the threshold does not clear it. Dynamic-fee transactions compare on
// MaxFeePerGas; legacy transactions compare on GasPrice. The same rule
// applies whether or not the two transactions share a fee shape.
func clearsPriceBump(incumbent, candidate Transaction, bumpPercent uint64) bool {
	oldPrice := feeCapForComparison(incumbent)
	newPrice := feeCapForComparison(candidate)

	threshold := new(big.Int).Mul(oldPrice, big.NewInt(int64(100+bumpPercent)))
	scaledNew := new(big.Int).Mul(newPrice, big.NewInt(100))
	return scaledNew.Cmp(threshold) > 0
}

func feeCapForComparison(tx Transaction) *big.Int {
	if fee, ok := tx.MaxFeePerGas(); ok {
		return fee
	}
	return tx.GasPrice()
}

func (idx *SenderNonceIndex) insert(info *TransactionInfo) {
	tree, ok := idx.bySender[info.Tx.Sender()]
	if !ok {
		tree = newSenderNonceTree()
		idx.bySender[info.Tx.Sender()] = tree
	}
	tree.put(info)
}

func (idx *SenderNonceIndex) remove(info *TransactionInfo) {
	tree, ok := idx.bySender[info.Tx.Sender()]
	if !ok {
		return
	}
	tree.delete(info.Tx.Nonce())
	if tree.len() == 0 {
		delete(idx.bySender, info.Tx.Sender())
	}
}

func (idx *SenderNonceIndex) senderCount() int {
	return len(idx.bySender)
}
