// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token defines the derivative token issuer the pool mints to and burns from.
//
// The derivative token tracks stake principal: a mint credits the charged base amount and a burn
// debits the reduced principal. Settlement is asynchronous, each request yields exactly one Receipt.
package token

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
)

type Kind uint8

const (
	KindMint Kind = iota + 1
	KindBurn
)

func (k Kind) String() string {
	switch k {
	case KindMint:
		return "mint"
	case KindBurn:
		return "burn"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Request asks the issuer to mint or burn Amount for Account.
type Request struct {
	ID      thor.Bytes32
	Kind    Kind
	Account thor.Address
	Amount  *uint256.Int
	Shares  *uint256.Int // pool shares the request stands for, informational
}

// Receipt reports the outcome of a Request.
type Receipt struct {
	ID      thor.Bytes32
	Kind    Kind
	Account thor.Address
	Amount  *uint256.Int
	Success bool
	Reason  string
}

// NewReceipt builds the receipt of req. A nil err means success.
func NewReceipt(req *Request, err error) *Receipt {
	r := &Receipt{
		ID:      req.ID,
		Kind:    req.Kind,
		Account: req.Account,
		Amount:  req.Amount.Clone(),
		Success: err == nil,
	}
	if err != nil {
		r.Reason = err.Error()
	}
	return r
}

// Callback receives settled receipts.
type Callback func(*Receipt)

// Issuer accepts mint and burn requests.
// Implementations must not deliver the receipt before the Request call returns.
type Issuer interface {
	RequestMint(req *Request) error
	RequestBurn(req *Request) error
}
