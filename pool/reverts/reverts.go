// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Class groups reverts by how a caller should react to them.
type Class uint8

const (
	ClassValidation Class = iota + 1 // rejected before any mutation
	ClassInvariant                   // degenerate pool state
	ClassFunds                       // checked against the current ledger snapshot
	ClassExternal                    // failed mint/burn confirmation
	ClassConflict                    // another request is in flight
)

func (c Class) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassInvariant:
		return "invariant"
	case ClassFunds:
		return "funds"
	case ClassExternal:
		return "external"
	case ClassConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

type ErrRevert struct {
	class   Class
	message string
}

func New(class Class, message string) *ErrRevert {
	return &ErrRevert{
		class:   class,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Class() Class {
	return e.class
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// ClassOf returns the class of the revert wrapped by err, or zero if err is not a revert.
func ClassOf(err error) Class {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.class
	}
	return 0
}

var (
	ErrPositiveAmountRequired = New(ClassValidation, "amount should be positive")
	ErrUnknownRequest         = New(ClassValidation, "unknown or already settled request")
	ErrRequestMismatch        = New(ClassValidation, "receipt does not match the pending request")
	ErrInvalidFeeFraction     = New(ClassValidation, "reward fee fraction must be a valid fraction less or equal to 1")

	ErrPoolEmpty   = New(ClassInvariant, "the pool doesn't have staked balance")
	ErrZeroShares  = New(ClassInvariant, "the calculated number of \"stake\" shares should be positive")
	ErrZeroCharge  = New(ClassInvariant, "calculated staked amount must be positive, because \"stake\" share price should be at least 1")
	ErrZeroReceive = New(ClassInvariant, "calculated unstaked amount must be positive, because \"stake\" share price should be at least 1")
	ErrOverflow    = New(ClassInvariant, "arithmetic overflow")

	ErrInsufficientUnstakedBalance = New(ClassFunds, "not enough unstaked balance")
	ErrInsufficientShares          = New(ClassFunds, "not enough staked balance to unstake")
	ErrUnlockPending               = New(ClassFunds, "the unstaked balance is not yet available due to unstaking delay")

	ErrMintFailed = New(ClassExternal, "share mint failed")
	ErrBurnFailed = New(ClassExternal, "share burn failed")

	ErrPendingAction = New(ClassConflict, "account has a pending stake or unstake request")
)
