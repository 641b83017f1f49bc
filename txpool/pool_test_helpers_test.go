// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// fakeTracker is a NonceTracker whose expected next nonce per sender is set
// directly by a test, standing in for confirmed chain state.
type fakeTracker struct {
	next map[Address]uint64
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{next: make(map[Address]uint64)}
}

func (t *fakeTracker) NextNonce(sender Address) uint64 {
	return t.next[sender]
}

func (t *fakeTracker) setNext(sender Address, nonce uint64) {
	t.next[sender] = nonce
}

var testClock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func addr(b byte) Address {
	return common.Address{b}
}

func hash(b byte) Hash {
	return common.Hash{b}
}

func dynamicTx(h byte, sender Address, nonce uint64, tip, feeCap int64) Transaction {
	return NewDynamicFeeTransaction(hash(h), sender, nonce, big.NewInt(tip), big.NewInt(feeCap))
}

func legacyTx(h byte, sender Address, nonce uint64, gasPrice int64) Transaction {
	return NewLegacyTransaction(hash(h), sender, nonce, big.NewInt(gasPrice))
}

func newTestPool(t NonceTracker, maxPending int) *PriorityMempool {
	cfg := Config{
		MaxPendingTransactions:     maxPending,
		MaxPooledTransactionHashes: 256,
		PriceBump:                  10,
	}
	return New(cfg, t, big.NewInt(10), nil, nil)
}
