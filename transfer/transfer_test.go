// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/thor"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	alice := thor.BytesToAddress([]byte("alice"))
	bob := thor.BytesToAddress([]byte("bob"))

	amount := uint256.NewInt(5)
	r.Transfer(alice, amount)
	amount.SetUint64(100) // recorder keeps its own copy
	r.Transfer(bob, uint256.NewInt(7))
	r.Transfer(alice, uint256.NewInt(3))

	payouts := r.Payouts()
	assert.Len(t, payouts, 3)
	assert.Equal(t, alice, payouts[0].To)
	assert.Equal(t, "5", payouts[0].Amount.Dec())

	assert.Equal(t, "8", r.TotalTo(alice).Dec())
	assert.Equal(t, "7", r.TotalTo(bob).Dec())
	assert.True(t, r.TotalTo(thor.Address{}).IsZero())
}
