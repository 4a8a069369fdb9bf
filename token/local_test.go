// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/thor"
)

func newIssuer(t *testing.T) (*Local, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	issuer, err := NewLocal(db)
	require.NoError(t, err)
	return issuer, db
}

func balanceOf(t *testing.T, l *Local, addr thor.Address) string {
	bal, err := l.BalanceOf(addr)
	require.NoError(t, err)
	return bal.Dec()
}

type collector struct {
	mu       sync.Mutex
	receipts []*Receipt
}

func (c *collector) add(r *Receipt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receipts = append(c.receipts, r)
}

func (c *collector) all() []*Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Receipt(nil), c.receipts...)
}

func newRequest(kind Kind, nonce uint64, acc thor.Address, amount uint64) *Request {
	return &Request{
		ID:      thor.RequestID(kind.String(), acc, nonce),
		Kind:    kind,
		Account: acc,
		Amount:  uint256.NewInt(amount),
		Shares:  uint256.NewInt(amount),
	}
}

func TestLocal_MintBurn(t *testing.T) {
	issuer, _ := newIssuer(t)
	c := &collector{}
	issuer.Start(c.add)
	defer issuer.Stop()

	alice := thor.BytesToAddress([]byte("alice"))
	require.NoError(t, issuer.RequestMint(newRequest(KindMint, 1, alice, 100)))
	require.NoError(t, issuer.RequestBurn(newRequest(KindBurn, 2, alice, 40)))
	require.NoError(t, issuer.RequestBurn(newRequest(KindBurn, 3, alice, 61)))
	issuer.WaitIdle()

	receipts := c.all()
	require.Len(t, receipts, 3)
	assert.True(t, receipts[0].Success)
	assert.Equal(t, KindMint, receipts[0].Kind)
	assert.True(t, receipts[1].Success)
	assert.False(t, receipts[2].Success)
	assert.Equal(t, errInsufficientBalance.Error(), receipts[2].Reason)
	assert.Equal(t, "61", receipts[2].Amount.Dec())

	assert.Equal(t, "60", balanceOf(t, issuer, alice))
	assert.Equal(t, "60", issuer.TotalSupply().Dec())
}

func TestLocal_Policy(t *testing.T) {
	issuer, _ := newIssuer(t)
	c := &collector{}
	issuer.Start(c.add)
	defer issuer.Stop()

	issuer.SetPolicy(func(req *Request) error {
		if req.Kind == KindMint {
			return errors.New("mint paused")
		}
		return nil
	})

	alice := thor.BytesToAddress([]byte("alice"))
	require.NoError(t, issuer.RequestMint(newRequest(KindMint, 1, alice, 100)))
	issuer.WaitIdle()

	receipts := c.all()
	require.Len(t, receipts, 1)
	assert.False(t, receipts[0].Success)
	assert.Equal(t, "mint paused", receipts[0].Reason)
	assert.Equal(t, "0", balanceOf(t, issuer, alice))
}

func TestLocal_KindMismatch(t *testing.T) {
	issuer, _ := newIssuer(t)
	alice := thor.BytesToAddress([]byte("alice"))
	assert.Error(t, issuer.RequestMint(newRequest(KindBurn, 1, alice, 1)))
	assert.Error(t, issuer.RequestBurn(newRequest(KindMint, 1, alice, 1)))
}

func TestLocal_Stop(t *testing.T) {
	issuer, _ := newIssuer(t)
	alice := thor.BytesToAddress([]byte("alice"))

	// not started, the request stays queued until stop drops it
	require.NoError(t, issuer.RequestMint(newRequest(KindMint, 1, alice, 1)))
	issuer.Stop()
	issuer.WaitIdle()
	issuer.Stop()

	assert.ErrorIs(t, issuer.RequestMint(newRequest(KindMint, 2, alice, 1)), errStopped)
}

func TestLocal_OneReceiptPerRequest(t *testing.T) {
	issuer, _ := newIssuer(t)
	c := &collector{}
	issuer.Start(c.add)
	defer issuer.Stop()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := thor.BytesToAddress([]byte{byte(i)})
			assert.NoError(t, issuer.RequestMint(newRequest(KindMint, uint64(i), acc, 1)))
		}()
	}
	wg.Wait()
	issuer.WaitIdle()

	seen := make(map[thor.Bytes32]bool)
	for _, r := range c.all() {
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
	}
	assert.Len(t, seen, 50)
	assert.Equal(t, "50", issuer.TotalSupply().Dec())
}

func TestLocal_BalancesSurviveRestart(t *testing.T) {
	issuer, db := newIssuer(t)
	c := &collector{}
	issuer.Start(c.add)

	alice := thor.BytesToAddress([]byte("alice"))
	bob := thor.BytesToAddress([]byte("bob"))
	require.NoError(t, issuer.RequestMint(newRequest(KindMint, 1, alice, 100)))
	require.NoError(t, issuer.RequestMint(newRequest(KindMint, 2, bob, 30)))
	require.NoError(t, issuer.RequestBurn(newRequest(KindBurn, 3, bob, 30)))
	issuer.WaitIdle()
	issuer.Stop()

	reopened, err := NewLocal(db)
	require.NoError(t, err)
	assert.Equal(t, "100", balanceOf(t, reopened, alice))
	assert.Equal(t, "0", balanceOf(t, reopened, bob))
	assert.Equal(t, "100", reopened.TotalSupply().Dec())

	c = &collector{}
	reopened.Start(c.add)
	defer reopened.Stop()
	require.NoError(t, reopened.RequestBurn(newRequest(KindBurn, 4, alice, 40)))
	reopened.WaitIdle()

	receipts := c.all()
	require.Len(t, receipts, 1)
	assert.True(t, receipts[0].Success, receipts[0].Reason)
	assert.Equal(t, "60", balanceOf(t, reopened, alice))
	assert.Equal(t, "60", reopened.TotalSupply().Dec())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "mint", KindMint.String())
	assert.Equal(t, "burn", KindBurn.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
