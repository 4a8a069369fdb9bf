// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/pool/ledger"
	"github.com/vechain/stakepool/pool/reverts"
	"github.com/vechain/stakepool/pool/sharemath"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/token"
)

// Unstake redeems shares worth amount. When the accrued reward covers the amount the
// redemption is applied at once, otherwise the reduced principal is burnt first.
func (p *Pool) Unstake(account thor.Address, amount *uint256.Int) (*Record, error) {
	return p.unstake("unstake", account, fixed(amount))
}

// UnstakeAll redeems every share of account, valued rounding down.
func (p *Pool) UnstakeAll(account thor.Address) (*Record, error) {
	return p.unstake("unstake-all", account, func(acc *ledger.Account, totals sharemath.Totals) (*uint256.Int, error) {
		if acc.StakeShares.IsZero() || totals.Shares.IsZero() {
			return new(uint256.Int), nil
		}
		return totals.AmountFromSharesRoundDown(acc.StakeShares)
	})
}

// UnstakeReward redeems the accrued reward only.
func (p *Pool) UnstakeReward(account thor.Address) (*Record, error) {
	return p.unstake("unstake-reward", account, stakeReward)
}

func (p *Pool) unstake(action string, account thor.Address, resolve amountFunc) (*Record, error) {
	p.mu.Lock()
	var (
		in  *intent
		rec *Record
	)
	err := p.execute(action, func(epoch uint64) error {
		acc, err := p.ledger.GetOrDefault(account)
		if err != nil {
			return err
		}
		totals := p.stats.Totals()
		amount, err := resolve(acc, totals)
		if err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.ErrPositiveAmountRequired
		}
		if err := p.checkIdle(account); err != nil {
			return err
		}
		if totals.StakedBalance.IsZero() {
			return reverts.ErrPoolEmpty
		}

		shares, err := totals.SharesFromAmountRoundUp(amount)
		if err != nil {
			return err
		}
		if shares.IsZero() {
			return reverts.ErrZeroShares
		}
		if acc.StakeShares.Lt(shares) {
			return reverts.ErrInsufficientShares
		}
		receive, err := totals.AmountFromSharesRoundUp(shares)
		if err != nil {
			return err
		}
		if receive.IsZero() {
			return reverts.ErrZeroReceive
		}
		reward, err := stakeReward(acc, totals)
		if err != nil {
			return err
		}

		rec = p.newRecord(action, account)
		rec.Amount = amount.Clone()
		rec.Shares = shares.Clone()
		rec.Receive = receive.Clone()

		if !reward.Lt(receive) {
			// paid entirely out of the reward, principal untouched
			rec.Status = StatusLocalMutationApplied
			_, err := p.applyUnstake(account, acc, shares, receive, new(uint256.Int), epoch)
			return err
		}

		in = &intent{
			kind:    token.KindBurn,
			account: account,
			shares:  shares,
			receive: receive,
			reduced: new(uint256.Int).Sub(receive, reward),
			record:  rec,
		}
		return nil
	})
	if err == nil {
		if in != nil {
			p.track(in)
		} else {
			rec.Status = StatusConfirmed
			p.remember(rec)
		}
	}
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if in == nil {
		return rec.clone(), nil
	}
	return p.dispatch(in)
}

// stakeReward is the value of the account's shares above its principal, valued rounding down.
func stakeReward(acc *ledger.Account, totals sharemath.Totals) (*uint256.Int, error) {
	if acc.StakeShares.IsZero() || totals.Shares.IsZero() {
		return new(uint256.Int), nil
	}
	value, err := totals.AmountFromSharesRoundDown(acc.StakeShares)
	if err != nil {
		return nil, err
	}
	if !value.Gt(acc.StakePrincipal) {
		return new(uint256.Int), nil
	}
	return value.Sub(value, acc.StakePrincipal), nil
}

// applyBurn applies a confirmed slow-path unstake. Shares are re-priced at the current totals
// so a reward landing while the burn was pending stays with the account's remaining shares.
func (p *Pool) applyBurn(in *intent, epoch uint64) error {
	acc, err := p.ledger.GetOrDefault(in.account)
	if err != nil {
		return err
	}
	shares := in.shares.Clone()
	current, err := p.stats.Totals().SharesFromAmountRoundUp(in.receive)
	if err != nil {
		return err
	}
	if current.Lt(shares) {
		shares = current
	}
	if shares.IsZero() {
		return reverts.ErrZeroShares
	}
	credited, err := p.applyUnstake(in.account, acc, shares, in.receive, in.reduced, epoch)
	if err != nil {
		return err
	}
	in.record.Shares = shares
	in.record.Receive = credited
	return nil
}

// applyUnstake burns shares from the account and credits receive to its unstaked balance,
// locked until epoch plus the unlock delay. The staked total drops by the value of the
// shares rounded down, which keeps the share price from decreasing. When that value exceeds
// receive the account is credited the value instead, so nothing leaves the staked balance
// without landing in an account. It returns the credited amount.
func (p *Pool) applyUnstake(
	account thor.Address,
	acc *ledger.Account,
	shares, receive, principalReduced *uint256.Int,
	epoch uint64,
) (*uint256.Int, error) {
	if acc.StakeShares.Lt(shares) {
		return nil, reverts.ErrInsufficientShares
	}
	released, err := p.stats.Totals().AmountFromSharesRoundDown(shares)
	if err != nil {
		return nil, err
	}
	credit := receive
	if released.Gt(receive) {
		credit = released
	}

	acc.StakeShares.Sub(acc.StakeShares, shares)
	if _, overflow := acc.Unstaked.AddOverflow(acc.Unstaked, credit); overflow {
		return nil, reverts.ErrOverflow
	}
	acc.UnstakedAvailableEpoch = epoch + p.cfg.UnlockDelay
	if acc.StakePrincipal.Lt(principalReduced) || acc.StakeShares.IsZero() {
		acc.StakePrincipal.Clear()
	} else {
		acc.StakePrincipal.Sub(acc.StakePrincipal, principalReduced)
	}

	if err := p.stats.ApplyUnstake(released, shares); err != nil {
		return nil, err
	}
	p.ledger.Save(account, acc)

	logger.Debug("unstaked",
		"account", account,
		"receive", credit,
		"shares", shares,
		"released", released,
		"unstaked", acc.Unstaked,
		"availableEpoch", acc.UnstakedAvailableEpoch,
	)
	return credit.Clone(), nil
}
