// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
)

var logger = log.New("pkg", "txpool")

// PriorityMempool is the priority-ordered pending-transaction pool. It
// holds every pending transaction in exactly one of two ordered sets — a
// StaticRangeSet for transactions whose declared priority fee cap doesn't
// yet bind, and a DynamicRangeSet for those it does — and exposes a single
// merged view across both that stays correct as the chain's base fee
// moves, without re-sorting on every base fee change.
//
// A single mutex guards all pool state. Observer callbacks are fired after
// the mutex is released, so a slow or reentrant subscriber never blocks a
// concurrent Add/Remove.
type PriorityMempool struct {
	mu sync.Mutex

	config   Config
	tracker  NonceTracker
	metrics  MetricsSystem
	announce AnnounceCache
	obs      observers

	baseFee *big.Int

	byHash  map[Hash]*TransactionInfo
	static  *rangeSet
	dynamic *rangeSet
	senders *SenderNonceIndex

	nextSequence uint64
}

// New constructs an empty PriorityMempool. baseFee may be nil, meaning the
// chain has not yet activated a fee market. metrics and announce may be
// nil; if so the pool falls back to a no-op metrics sink and an LRU
// announce cache sized by config.MaxPooledTransactionHashes (at least 1).
func New(config Config, tracker NonceTracker, baseFee *big.Int, metrics MetricsSystem, announce AnnounceCache) *PriorityMempool {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if announce == nil {
		capacity := config.MaxPooledTransactionHashes
		if capacity <= 0 {
			capacity = 1
		}
		announce = NewAnnounceCache(capacity)
	}
	return &PriorityMempool{
		config:   config,
		tracker:  tracker,
		metrics:  metrics,
		announce: announce,
		baseFee:  baseFee,
		byHash:   make(map[Hash]*TransactionInfo),
		static:   newRangeSet(staticFeeKey),
		dynamic:  newRangeSet(dynamicFeeKey),
		senders:  NewSenderNonceIndex(tracker, config.PriceBump),
	}
}

// SubscribeTransactionAdded registers ch to receive every admitted transaction.
func (p *PriorityMempool) SubscribeTransactionAdded(ch chan<- TransactionAddedEvent) event.Subscription {
	return p.obs.SubscribeTransactionAdded(ch)
}

// SubscribeTransactionDropped registers ch to receive every dropped transaction.
func (p *PriorityMempool) SubscribeTransactionDropped(ch chan<- TransactionDroppedEvent) event.Subscription {
	return p.obs.SubscribeTransactionDropped(ch)
}

// Add admits tx into the pool, returning the outcome. now is the arrival
// timestamp stamped onto the resulting TransactionInfo; callers pass
// time.Now() in production and a fixed clock in tests.
//
// Every step — the replacement check, the insertion, and overflow eviction
// — runs under a single critical section; p.mu is locked once at entry and
// unlocked once before any notification fires, so this call either appears
// to have not happened yet or to have fully completed. Dropped/added
// transactions are queued locally while the lock is held and their
// observer/metrics notifications are fired only after it's released.
func (p *PriorityMempool) Add(tx Transaction, local bool, now time.Time) AddedStatus {
	p.mu.Lock()

	hash := tx.Hash()
	if _, known := p.byHash[hash]; known {
		p.mu.Unlock()
		return AlreadyKnown
	}
	// TryEvict also dedupes announcements for hashes that were pending and
	// have since left the pool; that's a gossip-layer concern, not an
	// admission decision, so its result doesn't gate Add.
	p.announce.TryEvict(hash)

	if p.config.MaxFutureNonceDistance > 0 {
		distance := p.senders.nonceDistance(tx)
		if distance > 0 && uint64(distance) > p.config.MaxFutureNonceDistance {
			p.mu.Unlock()
			return NonceTooFarInFuture
		}
	}

	outcome, incumbent := p.senders.checkSlot(tx)
	if outcome == slotRejected {
		p.mu.Unlock()
		return LowerThanReplacementGasPrice
	}

	var dropped []droppedTransaction
	if outcome == slotReplaced {
		p.removeLocked(incumbent)
		dropped = append(dropped, droppedTransaction{incumbent, DropReasonReplaced})
	}

	info := newTransactionInfo(tx, p.nextSequence, local, now, p.senders.nonceDistance(tx))
	p.nextSequence++

	p.insertLocked(info)
	dropped = append(dropped, p.evictOverflowLocked()...)

	p.checkInvariantsLocked()
	p.mu.Unlock()

	p.publishDrops(dropped)
	p.metrics.Counted(local, "")
	p.obs.publishAdded(info)
	logger.Trace("tx added", "hash", info.Hash(), "local", local)
	return Added
}

// droppedTransaction pairs a removed transaction with why it was removed,
// so a caller can accumulate several removals under the lock and fire
// their notifications together once the lock is released.
type droppedTransaction struct {
	info   *TransactionInfo
	reason DropReason
}

func (p *PriorityMempool) publishDrops(dropped []droppedTransaction) {
	for _, d := range dropped {
		p.metrics.Counted(d.info.Local, d.reason.String())
		p.obs.publishDropped(d.info, d.reason)
	}
}

// insertLocked places info into the hash index, the sender/nonce index and
// whichever range set it currently belongs to. Caller holds p.mu.
func (p *PriorityMempool) insertLocked(info *TransactionInfo) {
	p.byHash[info.Hash()] = info
	p.senders.insert(info)
	p.rangeSetForLocked(info.Tx).insert(info)
	p.updateGaugesLocked()
}

// rangeSetForLocked returns the range set tx currently belongs in at the
// pool's base fee.
func (p *PriorityMempool) rangeSetForLocked(tx Transaction) *rangeSet {
	if isInStaticRange(tx, p.baseFee) {
		return p.static
	}
	return p.dynamic
}

// evictOverflowLocked removes the single worst pending transaction,
// comparing the two sets' tails by actual effective priority fee rather
// than by their internal comparator key, until the hash index is back at
// or under MaxPendingTransactions. It only mutates pool state; the caller
// is responsible for unlocking p.mu and firing the returned drops'
// notifications afterwards. Caller holds p.mu.
func (p *PriorityMempool) evictOverflowLocked() []droppedTransaction {
	if p.config.MaxPendingTransactions <= 0 {
		return nil
	}
	var evicted []droppedTransaction
	for len(p.byHash) > p.config.MaxPendingTransactions {
		victim := p.worstOverallLocked()
		if victim == nil {
			break
		}
		p.removeLocked(victim)
		evicted = append(evicted, droppedTransaction{victim, DropReasonEvictedOverflow})
	}
	return evicted
}

// worstOverallLocked compares the static and dynamic sets' worst entries by
// actual effective priority fee at the pool's current base fee and returns
// whichever is smaller. This is deliberately NOT the same ordering the sets
// use internally: a StaticRangeSet tail ranks worst by declared tip, a
// DynamicRangeSet tail ranks worst by total fee cap, and the two numbers
// aren't comparable without folding in the live base fee first.
func (p *PriorityMempool) worstOverallLocked() *TransactionInfo {
	staticWorst := p.static.worst()
	dynamicWorst := p.dynamic.worst()
	switch {
	case staticWorst == nil:
		return dynamicWorst
	case dynamicWorst == nil:
		return staticWorst
	}
	staticFee := EffectivePriorityFeePerGas(staticWorst.Tx, p.baseFee)
	dynamicFee := EffectivePriorityFeePerGas(dynamicWorst.Tx, p.baseFee)
	if staticFee.Cmp(dynamicFee) <= 0 {
		return staticWorst
	}
	return dynamicWorst
}

// removeLocked deletes info from every index. It tries the dynamic range
// set first: most removals come from ManageBlockAdded after a transaction's
// cap has bound for a while, so a dynamic-set hit is the common case.
// Caller holds p.mu.
func (p *PriorityMempool) removeLocked(info *TransactionInfo) {
	delete(p.byHash, info.Hash())
	p.senders.remove(info)
	if !p.dynamic.remove(info) {
		p.static.remove(info)
	}
	p.updateGaugesLocked()
}

func (p *PriorityMempool) updateGaugesLocked() {
	p.metrics.Gauge("static", int64(p.static.len()))
	p.metrics.Gauge("dynamic", int64(p.dynamic.len()))
	p.metrics.Gauge("total", int64(len(p.byHash)))
	p.metrics.Gauge("senders", int64(p.senders.senderCount()))
}

// checkInvariantsLocked checks that the two range sets together hold as many
// entries as byHash. It compares counts only, so a drift that leaves the
// totals equal (for example one transaction missing and another present in
// both sets) is not detected. The check itself is just two len() calls,
// cheap enough to run at the end of every operation that mutates pool
// state. A count mismatch means some earlier
// operation inserted into byHash without a matching range-set insert, or
// vice versa; rather than serve reads off that drift, it logs the
// violation and rebuilds both range sets from byHash, which is always
// self-consistent since it's a plain map keyed by the one thing (hash)
// that never changes.
func (p *PriorityMempool) checkInvariantsLocked() {
	if p.static.len()+p.dynamic.len() == len(p.byHash) {
		return
	}
	logger.Error("txpool invariant violation, rebuilding range sets",
		"err", errInvariantViolation,
		"byHash", len(p.byHash), "static", p.static.len(), "dynamic", p.dynamic.len())
	p.rebuildRangeSetsLocked()
}

// rebuildRangeSetsLocked discards both range sets and reinserts every
// transaction in byHash into whichever one its fee currently belongs in.
// Caller holds p.mu.
func (p *PriorityMempool) rebuildRangeSetsLocked() {
	p.static.clear()
	p.dynamic.clear()
	for _, info := range p.byHash {
		p.rangeSetForLocked(info.Tx).insert(info)
	}
	p.updateGaugesLocked()
}

// Remove deletes the transaction identified by hash, if present, publishing
// a TransactionDroppedEvent with reason. It reports whether a transaction
// was actually removed.
func (p *PriorityMempool) Remove(hash Hash, reason DropReason) bool {
	p.mu.Lock()
	info, ok := p.byHash[hash]
	if !ok {
		p.mu.Unlock()
		return false
	}
	p.removeLocked(info)
	p.checkInvariantsLocked()
	p.mu.Unlock()

	p.publishDrops([]droppedTransaction{{info, reason}})
	logger.Debug("tx removed", "hash", hash, "reason", reason)
	return true
}

// ManageBlockAdded removes every transaction in included (treated as
// DropReasonAddedToBlock) and every transaction identified by
// invalidated (treated as DropReasonInvalidated), then applies newBaseFee.
// This is the single entry point the enclosing chain-sync component calls
// after importing a new head block. Both kinds of removal happen under one
// critical section; the dropped notifications are then fired and the base
// fee update runs afterwards in its own critical section, via UpdateBaseFee.
func (p *PriorityMempool) ManageBlockAdded(included, invalidated []Hash, newBaseFee *big.Int) {
	p.mu.Lock()
	var dropped []droppedTransaction
	for _, hash := range included {
		if info, ok := p.byHash[hash]; ok {
			p.removeLocked(info)
			dropped = append(dropped, droppedTransaction{info, DropReasonAddedToBlock})
		}
	}
	for _, hash := range invalidated {
		if info, ok := p.byHash[hash]; ok {
			p.removeLocked(info)
			dropped = append(dropped, droppedTransaction{info, DropReasonInvalidated})
		}
	}
	p.checkInvariantsLocked()
	p.mu.Unlock()

	p.publishDrops(dropped)
	p.UpdateBaseFee(newBaseFee)
}

// UpdateBaseFee re-partitions every dynamic-fee transaction between the two
// range sets for the new base fee, following a collect-then-move pattern:
// it snapshots the set whose membership might change before mutating
// either set, so the migration never iterates a tree while deleting from
// it. Legacy transactions never move; they live in DynamicRangeSet for
// their entire lifetime.
func (p *PriorityMempool) UpdateBaseFee(newBaseFee *big.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.baseFee = newBaseFee

	var toStatic, toDynamic []*TransactionInfo
	p.static.descendBestToWorst(func(info *TransactionInfo) bool {
		if !isInStaticRange(info.Tx, newBaseFee) {
			toDynamic = append(toDynamic, info)
		}
		return true
	})
	p.dynamic.descendBestToWorst(func(info *TransactionInfo) bool {
		if _, ok := info.Tx.MaxPriorityFeePerGas(); ok && isInStaticRange(info.Tx, newBaseFee) {
			toStatic = append(toStatic, info)
		}
		return true
	})

	for _, info := range toDynamic {
		p.static.remove(info)
		p.dynamic.insert(info)
	}
	for _, info := range toStatic {
		p.dynamic.remove(info)
		p.static.insert(info)
	}

	p.checkInvariantsLocked()
}

// PrioritizedTransactions returns a snapshot iterator over every pending
// transaction, best first, merging the two range sets by actual effective
// priority fee at the pool's current base fee. The caller should hold no
// expectation that the iterator reflects Add/Remove calls made after it is
// returned.
func (p *PriorityMempool) PrioritizedTransactions() *PrioritizedIterator {
	p.mu.Lock()
	defer p.mu.Unlock()
	return newPrioritizedIterator(p.static, p.dynamic, p.baseFee)
}

// Size returns the total number of pending transactions.
func (p *PriorityMempool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byHash)
}

// Contains reports whether hash is currently pending.
func (p *PriorityMempool) Contains(hash Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.byHash[hash]
	return ok
}

// Get returns the pending TransactionInfo for hash, if any.
func (p *PriorityMempool) Get(hash Hash) (*TransactionInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	info, ok := p.byHash[hash]
	return info, ok
}
