// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/pool"
	"github.com/vechain/stakepool/thor"
)

// Account for marshal account
type Account struct {
	Address        thor.Address `json:"address"`
	Unstaked       string       `json:"unstaked"`
	Staked         string       `json:"staked"`
	Shares         string       `json:"shares"`
	Principal      string       `json:"principal"`
	Reward         string       `json:"reward"`
	AvailableEpoch uint64       `json:"availableEpoch"`
	CanWithdraw    bool         `json:"canWithdraw"`
}

func convertAccount(h *pool.HumanAccount) *Account {
	return &Account{
		Address:        h.Account,
		Unstaked:       h.Unstaked.Dec(),
		Staked:         h.Staked.Dec(),
		Shares:         h.Shares.Dec(),
		Principal:      h.Principal.Dec(),
		Reward:         h.Reward.Dec(),
		AvailableEpoch: h.AvailableEpoch,
		CanWithdraw:    h.CanWithdraw,
	}
}

// AccountList is a page of accounts.
type AccountList struct {
	Total    uint64     `json:"total"`
	Accounts []*Account `json:"accounts"`
}

// ActionBody is the body of an account action. Amount accepts decimal or 0x-prefixed hex.
type ActionBody struct {
	Amount *math.HexOrDecimal256 `json:"amount,omitempty"`
}

// Request for marshal a request record
type Request struct {
	ID      thor.Bytes32 `json:"id"`
	Action  string       `json:"action"`
	Account thor.Address `json:"account"`
	Status  string       `json:"status"`
	Amount  string       `json:"amount,omitempty"`
	Shares  string       `json:"shares,omitempty"`
	Receive string       `json:"receive,omitempty"`
	Deposit string       `json:"deposit,omitempty"`
	Reason  string       `json:"reason,omitempty"`
}

// ConvertRecord converts a pool record for marshal.
func ConvertRecord(rec *pool.Record) *Request {
	r := &Request{
		ID:      rec.ID,
		Action:  rec.Action,
		Account: rec.Account,
		Status:  rec.Status.String(),
		Reason:  rec.Reason,
	}
	if rec.Amount != nil {
		r.Amount = rec.Amount.Dec()
	}
	if rec.Shares != nil {
		r.Shares = rec.Shares.Dec()
	}
	if rec.Receive != nil {
		r.Receive = rec.Receive.Dec()
	}
	if rec.Deposit != nil {
		r.Deposit = rec.Deposit.Dec()
	}
	return r
}
