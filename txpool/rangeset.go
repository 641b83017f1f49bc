// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"math/big"

	"github.com/google/btree"
)

// feeKeyFunc extracts the fee field a range set orders on. StaticRangeSet
// orders on the declared priority-fee cap (it never binds, so it's stable);
// DynamicRangeSet orders on the total fee cap, or the legacy gas price when
// there isn't one. Neither uses the live base fee as a sort key: that keeps
// each set internally stable while the base fee moves, and the merge in
// iterator.go is what introduces base-fee awareness.
type feeKeyFunc func(*TransactionInfo) *big.Int

func staticFeeKey(info *TransactionInfo) *big.Int {
	fee, _ := info.Tx.MaxPriorityFeePerGas()
	return fee
}

func dynamicFeeKey(info *TransactionInfo) *big.Int {
	if fee, ok := info.Tx.MaxFeePerGas(); ok {
		return fee
	}
	return info.Tx.GasPrice()
}

// rangeItem is the btree.Item stored in a rangeSet's tree. Less implements
// a lexicographic comparator, reversed so the btree's natural ascending
// order runs worst-to-best: local outranks remote first, then the fee key,
// then the nonce distance (smaller is better), then the sequence number
// (earlier is better).
type rangeItem struct {
	info   *TransactionInfo
	feeKey feeKeyFunc
}

// priorityRank returns >0 if a outranks b, <0 if b outranks a, 0 only when
// a and b are the same TransactionInfo (the sequence number is unique, so
// distinct transactions never compare equal).
func priorityRank(a, b *TransactionInfo, feeKey feeKeyFunc) int {
	if a.Local != b.Local {
		if a.Local {
			return 1
		}
		return -1
	}
	if c := feeKey(a).Cmp(feeKey(b)); c != 0 {
		return c
	}
	if a.nonceDistance != b.nonceDistance {
		if a.nonceDistance < b.nonceDistance {
			return 1
		}
		return -1
	}
	if a.Sequence != b.Sequence {
		if a.Sequence < b.Sequence {
			return 1
		}
		return -1
	}
	return 0
}

func (i rangeItem) Less(than btree.Item) bool {
	other := than.(rangeItem)
	return priorityRank(i.info, other.info, i.feeKey) < 0
}

// rangeSet is an ordered set of TransactionInfo, ascending from worst to
// best by the composite priority comparator. It backs both StaticRangeSet
// and DynamicRangeSet; the only difference between the two is feeKey.
type rangeSet struct {
	tree   *btree.BTree
	feeKey feeKeyFunc
}

// btree degree. 32 is a reasonable balance of node fan-out for an
// in-memory set that is rarely larger than a few thousand entries.
const rangeSetDegree = 32

func newRangeSet(feeKey feeKeyFunc) *rangeSet {
	return &rangeSet{
		tree:   btree.New(rangeSetDegree),
		feeKey: feeKey,
	}
}

func (s *rangeSet) item(info *TransactionInfo) rangeItem {
	return rangeItem{info: info, feeKey: s.feeKey}
}

func (s *rangeSet) insert(info *TransactionInfo) {
	s.tree.ReplaceOrInsert(s.item(info))
}

// remove deletes info from the set. Returns false if info wasn't present.
func (s *rangeSet) remove(info *TransactionInfo) bool {
	return s.tree.Delete(s.item(info)) != nil
}

func (s *rangeSet) contains(info *TransactionInfo) bool {
	return s.tree.Get(s.item(info)) != nil
}

func (s *rangeSet) len() int {
	return s.tree.Len()
}

// clear drops every entry, leaving the set empty. Used to rebuild a range
// set from scratch when it's found to have drifted from the hash index.
func (s *rangeSet) clear() {
	s.tree = btree.New(rangeSetDegree)
}

// worst returns the tail of the ordering — the single worst candidate in
// the set — or nil if the set is empty.
func (s *rangeSet) worst() *TransactionInfo {
	min := s.tree.Min()
	if min == nil {
		return nil
	}
	return min.(rangeItem).info
}

// best returns the head of the ordering, or nil if the set is empty.
func (s *rangeSet) best() *TransactionInfo {
	max := s.tree.Max()
	if max == nil {
		return nil
	}
	return max.(rangeItem).info
}

// descendBestToWorst lets callers collect a snapshot of
// the set's contents without mutating it mid-iteration, which is mandatory
// whenever the caller intends to then remove some of what it sees (update
// base fee migration, see pool.go).
func (s *rangeSet) descendBestToWorst(visit func(*TransactionInfo) bool) {
	s.tree.Descend(func(i btree.Item) bool {
		return visit(i.(rangeItem).info)
	})
}

// cursor is a forward-only, single-use walk over the set from best to
// worst, used by the merged iterator. It walks a copy of the set's ordering
// taken when the cursor is created, so later mutations of the set are not
// seen by it.
type cursor struct {
	items []*TransactionInfo
	pos   int
}

func (s *rangeSet) newCursor() *cursor {
	items := make([]*TransactionInfo, 0, s.tree.Len())
	s.descendBestToWorst(func(info *TransactionInfo) bool {
		items = append(items, info)
		return true
	})
	return &cursor{items: items}
}

func (c *cursor) peek() (*TransactionInfo, bool) {
	if c.pos >= len(c.items) {
		return nil, false
	}
	return c.items[c.pos], true
}

func (c *cursor) advance() {
	c.pos++
}
