// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sharemath converts between base-asset amounts and "stake" shares.
//
// Price is fixed across a conversion:
//
//	(totalStaked + amount) / (totalShares + numShares) = totalStaked / totalShares
//	numShares = amount * totalShares / totalStaked
//
// Products are computed with 512-bit intermediates so amount*totalShares never overflows.
// Conversions that grant shares or charge an amount round down; conversions that consume
// shares for a payout round up. Either way the pool never ends up short.
package sharemath

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/pool/reverts"
)

// Totals is a snapshot of the pool figures the conversions are priced against.
type Totals struct {
	StakedBalance *uint256.Int
	Shares        *uint256.Int
}

// NewTotals copies the given figures, treating nil as zero.
func NewTotals(staked, shares *uint256.Int) Totals {
	return Totals{StakedBalance: orZero(staked), Shares: orZero(shares)}
}

// SharesFromAmountRoundDown returns floor(totalShares * amount / totalStaked).
func (t Totals) SharesFromAmountRoundDown(amount *uint256.Int) (*uint256.Int, error) {
	if t.StakedBalance.IsZero() {
		return nil, reverts.ErrPoolEmpty
	}
	return mulDiv(t.Shares, amount, t.StakedBalance, false)
}

// SharesFromAmountRoundUp returns ceil(totalShares * amount / totalStaked).
func (t Totals) SharesFromAmountRoundUp(amount *uint256.Int) (*uint256.Int, error) {
	if t.StakedBalance.IsZero() {
		return nil, reverts.ErrPoolEmpty
	}
	return mulDiv(t.Shares, amount, t.StakedBalance, true)
}

// AmountFromSharesRoundDown returns floor(totalStaked * shares / totalShares).
func (t Totals) AmountFromSharesRoundDown(shares *uint256.Int) (*uint256.Int, error) {
	if t.Shares.IsZero() {
		return nil, reverts.ErrPoolEmpty
	}
	return mulDiv(t.StakedBalance, shares, t.Shares, false)
}

// AmountFromSharesRoundUp returns ceil(totalStaked * shares / totalShares).
func (t Totals) AmountFromSharesRoundUp(shares *uint256.Int) (*uint256.Int, error) {
	if t.Shares.IsZero() {
		return nil, reverts.ErrPoolEmpty
	}
	return mulDiv(t.StakedBalance, shares, t.Shares, true)
}

// PriceNotBelow reports whether the share price of next is not lower than the price of prev.
// A pool without shares has no price and compares as not below.
func PriceNotBelow(prev, next Totals) bool {
	if prev.Shares.IsZero() || next.Shares.IsZero() {
		return true
	}
	// next.staked / next.shares >= prev.staked / prev.shares
	lhs := new(big.Int).Mul(next.StakedBalance.ToBig(), prev.Shares.ToBig())
	rhs := new(big.Int).Mul(prev.StakedBalance.ToBig(), next.Shares.ToBig())
	return lhs.Cmp(rhs) >= 0
}

// mulDiv returns x*y/d rounded in the requested direction.
// Rounding up is (x*y + d - 1) / d, computed as floor plus one when the remainder is non-zero.
func mulDiv(x, y, d *uint256.Int, roundUp bool) (*uint256.Int, error) {
	q, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	if roundUp && !new(uint256.Int).MulMod(x, y, d).IsZero() {
		if _, overflow := q.AddOverflow(q, uint256.NewInt(1)); overflow {
			return nil, reverts.ErrOverflow
		}
	}
	return q, nil
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}
