// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "math/big"

// PrioritizedIterator walks the pool's two range sets as a single
// best-to-worst sequence, without materializing their union. At each step
// it looks at both sets' current heads and yields whichever ranks higher
// by actual effective priority fee at the pool's current base fee. A tie in
// effective priority fee goes to the static range set's head; sequence
// numbers are not compared across the two sets.
//
// An iterator is a snapshot: it walks a copy of each set's ordering taken
// at construction time and is unaffected by concurrent Add/Remove calls
// made after it is created. The caller is expected to consume it while
// holding whatever lock protects the pool.
type PrioritizedIterator struct {
	staticCursor  *cursor
	dynamicCursor *cursor
	baseFee       *big.Int
}

func newPrioritizedIterator(static, dynamic *rangeSet, baseFee *big.Int) *PrioritizedIterator {
	return &PrioritizedIterator{
		staticCursor:  static.newCursor(),
		dynamicCursor: dynamic.newCursor(),
		baseFee:       baseFee,
	}
}

// HasNext reports whether a call to Next would yield a value.
func (it *PrioritizedIterator) HasNext() bool {
	_, staticOK := it.staticCursor.peek()
	_, dynamicOK := it.dynamicCursor.peek()
	return staticOK || dynamicOK
}

// Next returns the next transaction in priority order, or
// errIteratorExhausted once both cursors are drained.
func (it *PrioritizedIterator) Next() (*TransactionInfo, error) {
	staticHead, staticOK := it.staticCursor.peek()
	dynamicHead, dynamicOK := it.dynamicCursor.peek()

	switch {
	case !staticOK && !dynamicOK:
		return nil, errIteratorExhausted
	case staticOK && !dynamicOK:
		it.staticCursor.advance()
		return staticHead, nil
	case !staticOK && dynamicOK:
		it.dynamicCursor.advance()
		return dynamicHead, nil
	}

	if it.preferStatic(staticHead, dynamicHead) {
		it.staticCursor.advance()
		return staticHead, nil
	}
	it.dynamicCursor.advance()
	return dynamicHead, nil
}

// preferStatic reports whether the static set's current head should be
// yielded before the dynamic set's. Only a strict dynamic advantage flips
// the choice to dynamic; a tie in actual effective priority fee favors
// static.
func (it *PrioritizedIterator) preferStatic(staticHead, dynamicHead *TransactionInfo) bool {
	staticFee := EffectivePriorityFeePerGas(staticHead.Tx, it.baseFee)
	dynamicFee := EffectivePriorityFeePerGas(dynamicHead.Tx, it.baseFee)
	return dynamicFee.Cmp(staticFee) <= 0
}
