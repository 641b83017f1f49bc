// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeSetOrdersByFeeKeyDescending(t *testing.T) {
	s := newRangeSet(staticFeeKey)
	low := newTransactionInfo(dynamicTx(1, addr(1), 0, 1, 100), 0, false, testClock, 0)
	mid := newTransactionInfo(dynamicTx(2, addr(2), 0, 5, 100), 1, false, testClock, 0)
	high := newTransactionInfo(dynamicTx(3, addr(3), 0, 9, 100), 2, false, testClock, 0)

	s.insert(low)
	s.insert(mid)
	s.insert(high)

	assert.Same(t, low, s.worst())
	assert.Same(t, high, s.best())
}

func TestRangeSetLocalOutranksRemoteRegardlessOfFee(t *testing.T) {
	s := newRangeSet(staticFeeKey)
	remoteHigh := newTransactionInfo(dynamicTx(1, addr(1), 0, 100, 200), 0, false, testClock, 0)
	localLow := newTransactionInfo(dynamicTx(2, addr(2), 0, 1, 200), 1, true, testClock, 0)

	s.insert(remoteHigh)
	s.insert(localLow)

	assert.Same(t, localLow, s.best())
	assert.Same(t, remoteHigh, s.worst())
}

func TestRangeSetTieBreaksOnNonceDistanceThenSequence(t *testing.T) {
	s := newRangeSet(staticFeeKey)
	far := newTransactionInfo(dynamicTx(1, addr(1), 5, 5, 200), 0, false, testClock, 5)
	near := newTransactionInfo(dynamicTx(2, addr(2), 0, 5, 200), 1, false, testClock, 0)

	s.insert(far)
	s.insert(near)

	assert.Same(t, near, s.best(), "smaller nonce distance should outrank a larger one at equal fee")

	first := newTransactionInfo(dynamicTx(3, addr(3), 0, 5, 200), 2, false, testClock, 0)
	second := newTransactionInfo(dynamicTx(4, addr(3), 1, 5, 200), 3, false, testClock, 0)
	s2 := newRangeSet(staticFeeKey)
	s2.insert(second)
	s2.insert(first)
	assert.Same(t, first, s2.best(), "earlier sequence should outrank a later one at equal fee and distance")
}

func TestRangeSetRemoveAndContains(t *testing.T) {
	s := newRangeSet(staticFeeKey)
	info := newTransactionInfo(dynamicTx(1, addr(1), 0, 5, 200), 0, false, testClock, 0)
	s.insert(info)
	assert.True(t, s.contains(info))
	assert.True(t, s.remove(info))
	assert.False(t, s.contains(info))
	assert.False(t, s.remove(info))
}

func TestCursorWalksBestToWorst(t *testing.T) {
	s := newRangeSet(staticFeeKey)
	a := newTransactionInfo(dynamicTx(1, addr(1), 0, 1, 200), 0, false, testClock, 0)
	b := newTransactionInfo(dynamicTx(2, addr(2), 0, 9, 200), 1, false, testClock, 0)
	c := newTransactionInfo(dynamicTx(3, addr(3), 0, 5, 200), 2, false, testClock, 0)
	s.insert(a)
	s.insert(b)
	s.insert(c)

	cur := s.newCursor()
	var order []*TransactionInfo
	for {
		info, ok := cur.peek()
		if !ok {
			break
		}
		order = append(order, info)
		cur.advance()
	}
	assert.Equal(t, []*TransactionInfo{b, c, a}, order)
}
