// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"
)

// Account is the inner record of a delegator.
type Account struct {
	Unstaked               *uint256.Int // redeemable once UnstakedAvailableEpoch is reached
	UnstakedAvailableEpoch uint64
	StakeShares            *uint256.Int
	StakePrincipal         *uint256.Int // value contributed to the stake position, reward = value - principal
}

// NewAccount returns a zero account.
func NewAccount() *Account {
	return &Account{
		Unstaked:       new(uint256.Int),
		StakeShares:    new(uint256.Int),
		StakePrincipal: new(uint256.Int),
	}
}

// IsEmpty returns whether the entry can be removed from the ledger.
func (a *Account) IsEmpty() bool {
	return a.Unstaked.IsZero() && a.StakeShares.IsZero()
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	return &Account{
		Unstaked:               a.Unstaked.Clone(),
		UnstakedAvailableEpoch: a.UnstakedAvailableEpoch,
		StakeShares:            a.StakeShares.Clone(),
		StakePrincipal:         a.StakePrincipal.Clone(),
	}
}

// CanWithdraw returns whether the unstaked balance is unlocked at the given epoch.
func (a *Account) CanWithdraw(epoch uint64) bool {
	return a.UnstakedAvailableEpoch <= epoch
}

func (a *Account) normalize() *Account {
	if a.Unstaked == nil {
		a.Unstaked = new(uint256.Int)
	}
	if a.StakeShares == nil {
		a.StakeShares = new(uint256.Int)
	}
	if a.StakePrincipal == nil || a.StakeShares.IsZero() {
		a.StakePrincipal = new(uint256.Int)
	}
	return a
}
