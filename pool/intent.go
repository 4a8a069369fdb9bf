// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/token"
)

// Status is the lifecycle state of a stake or unstake request.
type Status uint8

const (
	StatusRequested Status = iota + 1
	StatusLocalMutationApplied
	StatusAwaitingConfirmation
	StatusConfirmed
	StatusRolledBack
)

func (s Status) String() string {
	switch s {
	case StatusRequested:
		return "requested"
	case StatusLocalMutationApplied:
		return "local-mutation-applied"
	case StatusAwaitingConfirmation:
		return "awaiting-confirmation"
	case StatusConfirmed:
		return "confirmed"
	case StatusRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Final returns whether no further transition can happen.
func (s Status) Final() bool {
	return s == StatusConfirmed || s == StatusRolledBack
}

// Record describes a request and where it stands.
type Record struct {
	ID      thor.Bytes32
	Action  string
	Account thor.Address
	Status  Status
	Amount  *uint256.Int // requested amount
	Shares  *uint256.Int // shares minted or burnt
	Receive *uint256.Int // unstaked amount credited, unstake only
	Deposit *uint256.Int // committed deposit, kept whatever the mint outcome
	Reason  string
}

func (r *Record) clone() *Record {
	cpy := *r
	cpy.Amount = cloneOrNil(r.Amount)
	cpy.Shares = cloneOrNil(r.Shares)
	cpy.Receive = cloneOrNil(r.Receive)
	cpy.Deposit = cloneOrNil(r.Deposit)
	return &cpy
}

func cloneOrNil(v *uint256.Int) *uint256.Int {
	if v == nil {
		return nil
	}
	return v.Clone()
}

// intent is a stake or unstake awaiting its mint or burn receipt. No local state was
// mutated for it.
type intent struct {
	kind    token.Kind
	account thor.Address
	charge  *uint256.Int // mint: base amount moved into the stake
	shares  *uint256.Int
	receive *uint256.Int // burn: amount credited to unstaked
	reduced *uint256.Int // burn: principal removed, the amount burnt
	record  *Record
}

// amount is the token amount minted or burnt.
func (in *intent) amount() *uint256.Int {
	if in.kind == token.KindMint {
		return in.charge
	}
	return in.reduced
}

func (in *intent) request() *token.Request {
	return &token.Request{
		ID:      in.record.ID,
		Kind:    in.kind,
		Account: in.account,
		Amount:  in.amount().Clone(),
		Shares:  in.shares.Clone(),
	}
}

// matches checks a receipt against the intent.
func (in *intent) matches(r *token.Receipt) bool {
	return r.Kind == in.kind &&
		r.Account == in.account &&
		r.Amount != nil &&
		r.Amount.Eq(in.amount())
}
