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

// Withdraw pays amount of the unlocked unstaked balance out to account.
func (p *Pool) Withdraw(account thor.Address, amount *uint256.Int) (*Record, error) {
	return p.withdraw("withdraw", account, fixed(amount))
}

// WithdrawAll pays the whole unstaked balance out to account.
func (p *Pool) WithdrawAll(account thor.Address) (*Record, error) {
	return p.withdraw("withdraw-all", account, func(acc *ledger.Account, _ sharemath.Totals) (*uint256.Int, error) {
		return acc.Unstaked.Clone(), nil
	})
}

func (p *Pool) withdraw(action string, account thor.Address, resolve amountFunc) (*Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var rec *Record
	err := p.execute(action, func(epoch uint64) error {
		acc, err := p.ledger.GetOrDefault(account)
		if err != nil {
			return err
		}
		amount, err := resolve(acc, p.stats.Totals())
		if err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.ErrPositiveAmountRequired
		}
		// a pending mint has reserved its charge out of the unstaked balance
		if id, ok := p.byAccount[account]; ok && p.pending[id].kind == token.KindMint {
			return reverts.ErrPendingAction
		}
		if acc.Unstaked.Lt(amount) {
			return reverts.ErrInsufficientUnstakedBalance
		}
		if !acc.CanWithdraw(epoch) {
			return reverts.ErrUnlockPending
		}

		acc.Unstaked.Sub(acc.Unstaked, amount)
		if err := p.stats.ApplyWithdraw(amount); err != nil {
			return err
		}
		p.ledger.Save(account, acc)

		rec = p.newRecord(action, account)
		rec.Amount = amount.Clone()
		rec.Status = StatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.remember(rec)
	p.payer.Transfer(account, rec.Amount.Clone())
	logger.Debug("withdraw", "account", account, "amount", rec.Amount)
	return rec.clone(), nil
}
