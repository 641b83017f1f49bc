// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Hash identifies a transaction.
type Hash = common.Hash

// Address identifies a transaction sender.
type Address = common.Address

// Transaction is the subset of a chain transaction the pool needs. Signature
// recovery, RLP decoding and intrinsic-gas validation all happen upstream of
// the pool; by the time a Transaction reaches Add it is already well formed.
type Transaction interface {
	Hash() Hash
	Sender() Address
	Nonce() uint64

	// GasPrice is the legacy per-gas price. Only meaningful when
	// MaxFeePerGas/MaxPriorityFeePerGas are absent.
	GasPrice() *big.Int

	// MaxPriorityFeePerGas and MaxFeePerGas are the EIP-1559 tip and total
	// fee caps. ok is false for legacy transactions.
	MaxPriorityFeePerGas() (value *big.Int, ok bool)
	MaxFeePerGas() (value *big.Int, ok bool)
}

// EffectivePriorityFeePerGas computes the per-gas amount a block producer
// actually earns from tx at the given base fee. baseFee == nil is treated as
// zero. For EIP-1559 transactions this is min(maxPriorityFee, maxFee-baseFee),
// or the zero floor if baseFee exceeds maxFee (the transaction would not be
// executable at that base fee). For legacy transactions it is
// gasPrice-baseFee, floored at zero.
func EffectivePriorityFeePerGas(tx Transaction, baseFee *big.Int) *big.Int {
	base := baseFee
	if base == nil {
		base = common.Big0
	}
	if maxPriority, ok := tx.MaxPriorityFeePerGas(); ok {
		maxFee, _ := tx.MaxFeePerGas()
		headroom := new(big.Int).Sub(maxFee, base)
		if headroom.Sign() < 0 {
			return new(big.Int)
		}
		if headroom.Cmp(maxPriority) < 0 {
			return headroom
		}
		return new(big.Int).Set(maxPriority)
	}
	tip := new(big.Int).Sub(tx.GasPrice(), base)
	if tip.Sign() < 0 {
		return new(big.Int)
	}
	return tip
}

// isInStaticRange reports whether tx belongs in the StaticRangeSet at the
// given base fee: it must declare a priority fee cap, and the cap must not
// yet bind (the effective fee is at least the declared cap). Legacy
// transactions are never in static range.
func isInStaticRange(tx Transaction, baseFee *big.Int) bool {
	maxPriority, ok := tx.MaxPriorityFeePerGas()
	if !ok {
		return false
	}
	return EffectivePriorityFeePerGas(tx, baseFee).Cmp(maxPriority) >= 0
}

// transaction is the concrete Transaction used by callers that don't already
// have their own chain transaction type to adapt.
type transaction struct {
	hash                 Hash
	sender               Address
	nonce                uint64
	gasPrice             *big.Int
	maxPriorityFeePerGas *big.Int
	maxFeePerGas         *big.Int
	dynamicFee           bool
}

// NewLegacyTransaction builds a Transaction priced with a flat gas price.
func NewLegacyTransaction(hash Hash, sender Address, nonce uint64, gasPrice *big.Int) Transaction {
	return &transaction{hash: hash, sender: sender, nonce: nonce, gasPrice: gasPrice}
}

// NewDynamicFeeTransaction builds an EIP-1559 Transaction with independent tip
// and total-fee caps.
func NewDynamicFeeTransaction(hash Hash, sender Address, nonce uint64, maxPriorityFeePerGas, maxFeePerGas *big.Int) Transaction {
	return &transaction{
		hash:                 hash,
		sender:               sender,
		nonce:                nonce,
		maxPriorityFeePerGas: maxPriorityFeePerGas,
		maxFeePerGas:         maxFeePerGas,
		dynamicFee:           true,
	}
}

func (t *transaction) Hash() Hash      { return t.hash }
func (t *transaction) Sender() Address { return t.sender }
func (t *transaction) Nonce() uint64   { return t.nonce }

func (t *transaction) GasPrice() *big.Int {
	if t.gasPrice == nil {
		return new(big.Int)
	}
	return t.gasPrice
}

func (t *transaction) MaxPriorityFeePerGas() (*big.Int, bool) {
	if !t.dynamicFee {
		return nil, false
	}
	return t.maxPriorityFeePerGas, true
}

func (t *transaction) MaxFeePerGas() (*big.Int, bool) {
	if !t.dynamicFee {
		return nil, false
	}
	return t.maxFeePerGas, true
}
