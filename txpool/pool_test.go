// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddRejectsDuplicateHash(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100)

	tx := dynamicTx(1, addr(1), 0, 5, 50)
	assert.Equal(t, Added, p.Add(tx, false, testClock))
	assert.Equal(t, AlreadyKnown, p.Add(tx, false, testClock))
	assert.Equal(t, 1, p.Size())
}

func TestAddPartitionsIntoStaticAndDynamicByBaseFee(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100) // base fee 10

	staticCandidate := dynamicTx(1, addr(1), 0, 8, 50) // headroom 40 >= tip 8
	dynamicCandidate := dynamicTx(2, addr(2), 0, 12, 15) // headroom 5 < tip 12

	assert.Equal(t, Added, p.Add(staticCandidate, false, testClock))
	assert.Equal(t, Added, p.Add(dynamicCandidate, false, testClock))

	assert.Equal(t, 1, p.static.len())
	assert.Equal(t, 1, p.dynamic.len())
}

func TestAddRejectsUnderpricedReplacement(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100)
	sender := addr(1)

	assert.Equal(t, Added, p.Add(legacyTx(1, sender, 0, 100), false, testClock))
	assert.Equal(t, LowerThanReplacementGasPrice, p.Add(legacyTx(2, sender, 0, 105), false, testClock))
	assert.Equal(t, 1, p.Size())
}

func TestAddAllowsReplacementThatClearsPriceBump(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100)
	sender := addr(1)

	assert.Equal(t, Added, p.Add(legacyTx(1, sender, 0, 100), false, testClock))

	var dropped []TransactionDroppedEvent
	ch := make(chan TransactionDroppedEvent, 4)
	sub := p.SubscribeTransactionDropped(ch)
	defer sub.Unsubscribe()

	assert.Equal(t, Added, p.Add(legacyTx(2, sender, 0, 120), false, testClock))
	assert.Equal(t, 1, p.Size())
	assert.False(t, p.Contains(hash(1)))
	assert.True(t, p.Contains(hash(2)))

	select {
	case ev := <-ch:
		dropped = append(dropped, ev)
	default:
	}
	if assert.Len(t, dropped, 1) {
		assert.Equal(t, DropReasonReplaced, dropped[0].Reason)
	}
}

func TestAddRejectsNonceTooFarInFuture(t *testing.T) {
	tracker := newFakeTracker()
	cfg := Config{MaxPendingTransactions: 100, MaxPooledTransactionHashes: 256, PriceBump: 10, MaxFutureNonceDistance: 5}
	p := New(cfg, tracker, big.NewInt(10), nil, nil)

	ok := legacyTx(1, addr(1), 5, 100)
	assert.Equal(t, Added, p.Add(ok, false, testClock))
	p.Remove(hash(1), DropReasonInvalidated)

	far := legacyTx(3, addr(1), 20, 100)
	assert.Equal(t, NonceTooFarInFuture, p.Add(far, false, testClock))
}

func TestOverflowEvictionRemovesWorstAcrossBothSets(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 2)

	low := dynamicTx(1, addr(1), 0, 20, 11) // dynamic, effective fee min(20, 11-10)=1
	mid := dynamicTx(2, addr(2), 0, 5, 50)  // static, effective fee 5
	high := dynamicTx(3, addr(3), 0, 9, 50) // static, effective fee 9

	assert.Equal(t, Added, p.Add(low, false, testClock))
	assert.Equal(t, Added, p.Add(mid, false, testClock))
	assert.Equal(t, Added, p.Add(high, false, testClock))

	assert.Equal(t, 2, p.Size())
	assert.False(t, p.Contains(hash(1)), "lowest effective fee should be evicted first")
	assert.True(t, p.Contains(hash(2)))
	assert.True(t, p.Contains(hash(3)))
}

func TestManageBlockAddedRemovesIncludedAndInvalidated(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100)

	included := dynamicTx(1, addr(1), 0, 5, 50)
	invalidated := dynamicTx(2, addr(2), 0, 5, 50)
	survivor := dynamicTx(3, addr(3), 0, 5, 50)

	p.Add(included, false, testClock)
	p.Add(invalidated, false, testClock)
	p.Add(survivor, false, testClock)

	p.ManageBlockAdded([]Hash{hash(1)}, []Hash{hash(2)}, big.NewInt(20))

	assert.False(t, p.Contains(hash(1)))
	assert.False(t, p.Contains(hash(2)))
	assert.True(t, p.Contains(hash(3)))
	assert.Equal(t, big.NewInt(20), p.baseFee)
}

func TestUpdateBaseFeeMigratesAcrossSets(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100) // base fee 10

	tx := dynamicTx(1, addr(1), 0, 8, 50) // headroom at base 10 is 40, tip 8 -> static
	p.Add(tx, false, testClock)
	assert.Equal(t, 1, p.static.len())
	assert.Equal(t, 0, p.dynamic.len())

	// raise base fee so headroom drops below the tip
	p.UpdateBaseFee(big.NewInt(44))
	assert.Equal(t, 0, p.static.len())
	assert.Equal(t, 1, p.dynamic.len())

	// lower it back
	p.UpdateBaseFee(big.NewInt(10))
	assert.Equal(t, 1, p.static.len())
	assert.Equal(t, 0, p.dynamic.len())
}

func TestPrioritizedTransactionsReflectsGlobalOrdering(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100)

	// base fee 10.
	p.Add(dynamicTx(1, addr(1), 0, 3, 50), false, testClock)  // static, effective 3
	p.Add(dynamicTx(2, addr(2), 0, 20, 22), false, testClock) // dynamic, effective min(12,20)=12
	p.Add(dynamicTx(3, addr(3), 0, 15, 50), false, testClock) // static, effective 15

	it := p.PrioritizedTransactions()
	var order []Hash
	for it.HasNext() {
		info, err := it.Next()
		assert.NoError(t, err)
		order = append(order, info.Hash())
	}
	assert.Equal(t, []Hash{hash(3), hash(2), hash(1)}, order)
}

func TestGetAndRemove(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100)
	tx := legacyTx(1, addr(1), 0, 50)
	p.Add(tx, true, testClock)

	info, ok := p.Get(hash(1))
	assert.True(t, ok)
	assert.True(t, info.Local)

	assert.True(t, p.Remove(hash(1), DropReasonAddedToBlock))
	assert.False(t, p.Remove(hash(1), DropReasonAddedToBlock))
	assert.Equal(t, 0, p.Size())
}

func TestCheckInvariantsRebuildsDriftedRangeSets(t *testing.T) {
	tracker := newFakeTracker()
	p := newTestPool(tracker, 100)

	tx := dynamicTx(1, addr(1), 0, 5, 50)
	assert.Equal(t, Added, p.Add(tx, false, testClock))
	info := p.byHash[hash(1)]

	// Simulate the drift a missed range-set insert would leave: present in
	// byHash, absent from both range sets.
	p.static.remove(info)
	p.dynamic.remove(info)

	p.checkInvariantsLocked()

	assert.Equal(t, 1, p.static.len()+p.dynamic.len())
	assert.True(t, p.rangeSetForLocked(info.Tx).contains(info))
}
