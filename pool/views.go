// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/pool/ledger"
	"github.com/vechain/stakepool/pool/sharemath"
	"github.com/vechain/stakepool/thor"
)

//
// Getters - no state change, no epoch synchronisation
//

// HumanAccount is the account view with derived values.
type HumanAccount struct {
	Account        thor.Address
	Unstaked       *uint256.Int
	Staked         *uint256.Int // value of the shares, rounded down
	Shares         *uint256.Int
	Principal      *uint256.Int
	Reward         *uint256.Int
	AvailableEpoch uint64
	CanWithdraw    bool
}

// Summary is the pool view.
type Summary struct {
	TotalStakedBalance *uint256.Int
	TotalShares        *uint256.Int
	LastTotalBalance   *uint256.Int
	LastEpoch          uint64
	CurrentEpoch       uint64
	RewardFee          sharemath.Fraction
	UnlockDelay        uint64
	Pending            int
}

func (p *Pool) human(addr thor.Address, acc *ledger.Account, totals sharemath.Totals, epoch uint64) (*HumanAccount, error) {
	staked := new(uint256.Int)
	if !acc.StakeShares.IsZero() && !totals.Shares.IsZero() {
		v, err := totals.AmountFromSharesRoundDown(acc.StakeShares)
		if err != nil {
			return nil, err
		}
		staked = v
	}
	reward, err := stakeReward(acc, totals)
	if err != nil {
		return nil, err
	}
	return &HumanAccount{
		Account:        addr,
		Unstaked:       acc.Unstaked,
		Staked:         staked,
		Shares:         acc.StakeShares,
		Principal:      acc.StakePrincipal,
		Reward:         reward,
		AvailableEpoch: acc.UnstakedAvailableEpoch,
		CanWithdraw:    acc.CanWithdraw(epoch),
	}, nil
}

// GetAccount returns the view of account. Unknown accounts read as zero.
func (p *Pool) GetAccount(account thor.Address) (*HumanAccount, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, err := p.ledger.GetOrDefault(account)
	if err != nil {
		return nil, err
	}
	return p.human(account, acc, p.stats.Totals(), p.sync.Clock().CurrentEpoch())
}

// GetAccounts lists accounts in address order.
func (p *Pool) GetAccounts(offset, limit uint64) ([]*HumanAccount, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.ledger.Iterate(offset, limit)
	if err != nil {
		return nil, err
	}
	totals, epoch := p.stats.Totals(), p.sync.Clock().CurrentEpoch()
	accounts := make([]*HumanAccount, 0, len(entries))
	for _, e := range entries {
		h, err := p.human(e.Address, e.Account, totals, epoch)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, h)
	}
	return accounts, nil
}

// GetNumberOfAccounts returns the number of accounts with a balance.
func (p *Pool) GetNumberOfAccounts() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.Count()
}

func (p *Pool) TotalStakedBalance() *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats.Totals().StakedBalance
}

func (p *Pool) TotalShares() *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats.Totals().Shares
}

func (p *Pool) RewardFee() sharemath.Fraction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats.RewardFee()
}

// Summary returns the pool totals.
func (p *Pool) Summary() *Summary {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.stats.Get()
	return &Summary{
		TotalStakedBalance: st.TotalStakedBalance,
		TotalShares:        st.TotalShares,
		LastTotalBalance:   st.LastTotalBalance,
		LastEpoch:          st.LastEpoch,
		CurrentEpoch:       p.sync.Clock().CurrentEpoch(),
		RewardFee:          st.RewardFee,
		UnlockDelay:        p.cfg.UnlockDelay,
		Pending:            len(p.pending),
	}
}
