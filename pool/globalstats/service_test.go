// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pool/reverts"
	"github.com/vechain/stakepool/pool/sharemath"
)

var fee = sharemath.Fraction{Numerator: 10, Denominator: 100}

func newSvc(t *testing.T) (*Service, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc, err := New(db, fee, 3)
	require.NoError(t, err)
	return svc, db
}

func commit(t *testing.T, svc *Service, db *lvldb.LevelDB) {
	bulk := db.Bulk()
	require.NoError(t, svc.Commit(bulk))
	require.NoError(t, bulk.Write())
	svc.Committed()
}

func TestService_Init(t *testing.T) {
	svc, _ := newSvc(t)

	st := svc.Get()
	assert.True(t, st.TotalStakedBalance.IsZero())
	assert.True(t, st.TotalShares.IsZero())
	assert.True(t, st.LastTotalBalance.IsZero())
	assert.Equal(t, uint64(3), st.LastEpoch)
	assert.Equal(t, fee, st.RewardFee)
	assert.False(t, svc.Dirty())
}

func TestService_InvalidFee(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, sharemath.Fraction{Numerator: 2, Denominator: 1}, 0)
	assert.ErrorIs(t, err, reverts.ErrInvalidFeeFraction)
}

func TestService_StakeUnstake(t *testing.T) {
	svc, _ := newSvc(t)

	require.NoError(t, svc.ApplyDeposit(uint256.NewInt(1000)))
	require.NoError(t, svc.ApplyStake(uint256.NewInt(1000), uint256.NewInt(1000)))
	require.NoError(t, svc.ApplyUnstake(uint256.NewInt(400), uint256.NewInt(400)))

	totals := svc.Totals()
	assert.Equal(t, "600", totals.StakedBalance.Dec())
	assert.Equal(t, "600", totals.Shares.Dec())
	assert.Equal(t, "1000", svc.Get().LastTotalBalance.Dec())

	require.NoError(t, svc.ApplyWithdraw(uint256.NewInt(400)))
	assert.Equal(t, "600", svc.Get().LastTotalBalance.Dec())

	err := svc.ApplyUnstake(uint256.NewInt(601), uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrOverflow)
}

func TestService_Reward(t *testing.T) {
	svc, _ := newSvc(t)

	require.NoError(t, svc.ApplyDeposit(uint256.NewInt(1000)))
	require.NoError(t, svc.ApplyStake(uint256.NewInt(1000), uint256.NewInt(1000)))
	require.NoError(t, svc.ApplyReward(uint256.NewInt(100), uint256.NewInt(9)))

	st := svc.Get()
	assert.Equal(t, "1100", st.TotalStakedBalance.Dec())
	assert.Equal(t, "1009", st.TotalShares.Dec())
	assert.Equal(t, "1100", st.LastTotalBalance.Dec())
}

func TestService_CommitRollback(t *testing.T) {
	svc, db := newSvc(t)

	require.NoError(t, svc.ApplyDeposit(uint256.NewInt(10)))
	svc.SetLastEpoch(4)
	assert.Equal(t, uint64(1), svc.NextNonce())
	assert.True(t, svc.Dirty())
	commit(t, svc, db)
	assert.False(t, svc.Dirty())

	require.NoError(t, svc.ApplyDeposit(uint256.NewInt(5)))
	svc.SetLastEpoch(9)
	svc.Rollback()
	assert.Equal(t, "10", svc.Get().LastTotalBalance.Dec())
	assert.Equal(t, uint64(4), svc.LastEpoch())

	reopened, err := New(db, sharemath.Fraction{Numerator: 0, Denominator: 1}, 100)
	require.NoError(t, err)
	st := reopened.Get()
	assert.Equal(t, "10", st.LastTotalBalance.Dec())
	assert.Equal(t, uint64(4), st.LastEpoch)
	assert.Equal(t, uint64(1), st.Nonce)
	// a stored state wins over the init arguments
	assert.Equal(t, fee, st.RewardFee)
	assert.Equal(t, uint64(2), reopened.NextNonce())
}

func TestService_GetReturnsCopy(t *testing.T) {
	svc, _ := newSvc(t)
	st := svc.Get()
	st.TotalShares.SetUint64(5)
	assert.True(t, svc.Totals().Shares.IsZero())
}
