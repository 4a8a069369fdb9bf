// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/thor"
)

func newLedger(t *testing.T) (*Ledger, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l, err := New(db, 16)
	require.NoError(t, err)
	return l, db
}

func commit(t *testing.T, l *Ledger, db *lvldb.LevelDB) {
	bulk := db.Bulk()
	require.NoError(t, l.Commit(bulk))
	require.NoError(t, bulk.Write())
}

func TestLedger_GetOrDefault(t *testing.T) {
	l, _ := newLedger(t)

	acc, err := l.GetOrDefault(thor.BytesToAddress([]byte("alice")))
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())
	assert.Equal(t, uint64(0), acc.UnstakedAvailableEpoch)
	assert.True(t, acc.StakePrincipal.IsZero())
}

func TestLedger_SaveCommit(t *testing.T) {
	l, db := newLedger(t)
	alice := thor.BytesToAddress([]byte("alice"))

	acc := NewAccount()
	acc.Unstaked = uint256.NewInt(1000)
	acc.UnstakedAvailableEpoch = 7
	acc.StakeShares = uint256.NewInt(50)
	acc.StakePrincipal = uint256.NewInt(55)
	l.Save(alice, acc)
	assert.True(t, l.Dirty())

	// staged values are visible before commit
	got, err := l.GetOrDefault(alice)
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	commit(t, l, db)
	assert.False(t, l.Dirty())

	// fresh ledger reads from the store
	reopened, err := New(db, 16)
	require.NoError(t, err)
	got, err = reopened.GetOrDefault(alice)
	require.NoError(t, err)
	assert.Equal(t, "1000", got.Unstaked.Dec())
	assert.Equal(t, uint64(7), got.UnstakedAvailableEpoch)
	assert.Equal(t, "50", got.StakeShares.Dec())
	assert.Equal(t, "55", got.StakePrincipal.Dec())
}

func TestLedger_ReturnsCopies(t *testing.T) {
	l, db := newLedger(t)
	alice := thor.BytesToAddress([]byte("alice"))

	acc := NewAccount()
	acc.Unstaked = uint256.NewInt(10)
	l.Save(alice, acc)
	commit(t, l, db)

	got, err := l.GetOrDefault(alice)
	require.NoError(t, err)
	got.Unstaked.SetUint64(99)

	again, err := l.GetOrDefault(alice)
	require.NoError(t, err)
	assert.Equal(t, "10", again.Unstaked.Dec())
}

func TestLedger_Rollback(t *testing.T) {
	l, db := newLedger(t)
	alice := thor.BytesToAddress([]byte("alice"))

	acc := NewAccount()
	acc.Unstaked = uint256.NewInt(10)
	l.Save(alice, acc)
	commit(t, l, db)

	acc.Unstaked = uint256.NewInt(20)
	l.Save(alice, acc)
	l.Rollback()

	got, err := l.GetOrDefault(alice)
	require.NoError(t, err)
	assert.Equal(t, "10", got.Unstaked.Dec())
}

func TestLedger_EmptyAccountRemoved(t *testing.T) {
	l, db := newLedger(t)
	alice := thor.BytesToAddress([]byte("alice"))

	acc := NewAccount()
	acc.Unstaked = uint256.NewInt(10)
	l.Save(alice, acc)
	commit(t, l, db)

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	l.Save(alice, NewAccount())
	commit(t, l, db)

	n, err = l.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	has, err := db.Has(append([]byte(accountBucket), alice.Bytes()...))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestLedger_PrincipalClearedWithShares(t *testing.T) {
	l, _ := newLedger(t)
	alice := thor.BytesToAddress([]byte("alice"))

	acc := NewAccount()
	acc.Unstaked = uint256.NewInt(10)
	acc.StakePrincipal = uint256.NewInt(3)
	l.Save(alice, acc)

	got, err := l.GetOrDefault(alice)
	require.NoError(t, err)
	assert.True(t, got.StakePrincipal.IsZero())
}

func TestLedger_Iterate(t *testing.T) {
	l, db := newLedger(t)

	addrs := []thor.Address{
		thor.BytesToAddress([]byte{3}),
		thor.BytesToAddress([]byte{1}),
		thor.BytesToAddress([]byte{2}),
	}
	for i, addr := range addrs {
		acc := NewAccount()
		acc.Unstaked = uint256.NewInt(uint64(i + 1))
		l.Save(addr, acc)
	}
	commit(t, l, db)

	all, err := l.Iterate(0, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, thor.BytesToAddress([]byte{1}), all[0].Address)
	assert.Equal(t, "2", all[0].Account.Unstaked.Dec())
	assert.Equal(t, thor.BytesToAddress([]byte{2}), all[1].Address)
	assert.Equal(t, thor.BytesToAddress([]byte{3}), all[2].Address)

	page, err := l.Iterate(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, thor.BytesToAddress([]byte{2}), page[0].Address)

	none, err := l.Iterate(3, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	none, err = l.Iterate(0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
