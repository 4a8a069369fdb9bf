// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/pool/ledger"
	"github.com/vechain/stakepool/pool/reverts"
	"github.com/vechain/stakepool/pool/sharemath"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/token"
)

// amountFunc resolves the amount of an entry point against the synchronised state.
type amountFunc func(acc *ledger.Account, totals sharemath.Totals) (*uint256.Int, error)

func fixed(amount *uint256.Int) amountFunc {
	return func(*ledger.Account, sharemath.Totals) (*uint256.Int, error) {
		if amount == nil {
			return new(uint256.Int), nil
		}
		return amount, nil
	}
}

// Deposit credits amount to the unstaked balance of account.
func (p *Pool) Deposit(account thor.Address, amount *uint256.Int) (*Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var rec *Record
	err := p.execute("deposit", func(uint64) error {
		acc, err := p.ledger.GetOrDefault(account)
		if err != nil {
			return err
		}
		if err := p.deposit(acc, amount); err != nil {
			return err
		}
		p.ledger.Save(account, acc)

		rec = p.newRecord("deposit", account)
		rec.Amount = amount.Clone()
		rec.Status = StatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.remember(rec)
	logger.Debug("deposit", "account", account, "amount", amount)
	return rec.clone(), nil
}

func (p *Pool) deposit(acc *ledger.Account, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return reverts.ErrPositiveAmountRequired
	}
	if _, overflow := acc.Unstaked.AddOverflow(acc.Unstaked, amount); overflow {
		return reverts.ErrOverflow
	}
	return p.stats.ApplyDeposit(amount)
}

// DepositAndStake deposits amount and stakes it in one step. Nothing is deposited when the
// stake fails its local checks. Once the mint is requested the deposit is committed, and it
// stays in the unstaked balance if the issuer rejects or fails the mint.
func (p *Pool) DepositAndStake(account thor.Address, amount *uint256.Int) (*Record, error) {
	return p.stake("deposit-and-stake", account, fixed(amount), amount)
}

// Stake converts amount of the unstaked balance into shares once the mint is confirmed.
func (p *Pool) Stake(account thor.Address, amount *uint256.Int) (*Record, error) {
	return p.stake("stake", account, fixed(amount), nil)
}

// StakeAll stakes the whole unstaked balance.
func (p *Pool) StakeAll(account thor.Address) (*Record, error) {
	return p.stake("stake-all", account, func(acc *ledger.Account, _ sharemath.Totals) (*uint256.Int, error) {
		return acc.Unstaked.Clone(), nil
	}, nil)
}

func (p *Pool) stake(action string, account thor.Address, resolve amountFunc, deposit *uint256.Int) (*Record, error) {
	p.mu.Lock()
	var in *intent
	err := p.execute(action, func(uint64) error {
		acc, err := p.ledger.GetOrDefault(account)
		if err != nil {
			return err
		}
		if deposit != nil {
			if err := p.deposit(acc, deposit); err != nil {
				return err
			}
			p.ledger.Save(account, acc)
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
		shares, charge, err := priceStake(totals, amount)
		if err != nil {
			return err
		}
		if acc.Unstaked.Lt(charge) {
			return reverts.ErrInsufficientUnstakedBalance
		}

		rec := p.newRecord(action, account)
		rec.Amount = amount.Clone()
		rec.Shares = shares.Clone()
		if deposit != nil {
			rec.Deposit = deposit.Clone()
		}
		in = &intent{
			kind:    token.KindMint,
			account: account,
			charge:  charge,
			shares:  shares,
			record:  rec,
		}
		return nil
	})
	if err == nil {
		p.track(in)
	}
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	rec, err := p.dispatch(in)
	if err != nil && rec.Deposit != nil {
		err = errors.WithMessage(err, "deposit kept in unstaked balance")
	}
	return rec, err
}

// priceStake returns the shares bought by amount and the amount they cost. A pool without
// shares starts at one share per unit.
func priceStake(totals sharemath.Totals, amount *uint256.Int) (shares, charge *uint256.Int, err error) {
	if totals.Shares.IsZero() {
		return amount.Clone(), amount.Clone(), nil
	}
	shares, err = totals.SharesFromAmountRoundDown(amount)
	if err != nil {
		return nil, nil, err
	}
	if shares.IsZero() {
		return nil, nil, reverts.ErrZeroShares
	}
	charge, err = totals.AmountFromSharesRoundDown(shares)
	if err != nil {
		return nil, nil, err
	}
	if charge.IsZero() {
		return nil, nil, reverts.ErrZeroCharge
	}
	return shares, charge, nil
}

// applyMint moves charge from the unstaked balance into the stake position. The number of
// shares is re-priced at the current totals and never exceeds the dispatched number.
func (p *Pool) applyMint(in *intent) error {
	acc, err := p.ledger.GetOrDefault(in.account)
	if err != nil {
		return err
	}
	if acc.Unstaked.Lt(in.charge) {
		return reverts.ErrInsufficientUnstakedBalance
	}

	totals := p.stats.Totals()
	shares := in.shares.Clone()
	if !totals.Shares.IsZero() {
		current, err := totals.SharesFromAmountRoundDown(in.charge)
		if err != nil {
			return err
		}
		if current.Lt(shares) {
			shares = current
		}
	}
	if shares.IsZero() {
		return reverts.ErrZeroShares
	}

	acc.Unstaked.Sub(acc.Unstaked, in.charge)
	if _, overflow := acc.StakeShares.AddOverflow(acc.StakeShares, shares); overflow {
		return reverts.ErrOverflow
	}
	if _, overflow := acc.StakePrincipal.AddOverflow(acc.StakePrincipal, in.charge); overflow {
		return reverts.ErrOverflow
	}
	if err := p.stats.ApplyStake(in.charge, shares); err != nil {
		return err
	}
	p.ledger.Save(in.account, acc)

	in.record.Shares = shares
	logger.Debug("stake confirmed",
		"account", in.account,
		"charge", in.charge,
		"shares", shares,
		"unstaked", acc.Unstaked,
		"stakeShares", acc.StakeShares,
	)
	return nil
}
