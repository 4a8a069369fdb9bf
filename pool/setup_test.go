// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pool/epoch"
	"github.com/vechain/stakepool/pool/sharemath"
	"github.com/vechain/stakepool/reward"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/token"
	"github.com/vechain/stakepool/transfer"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
	owner = thor.BytesToAddress([]byte("owner"))
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

type PoolTest struct {
	*Pool
	t       *testing.T
	db      *lvldb.LevelDB
	clock   *epoch.Manual
	issuer  *token.Local
	payer   *transfer.Recorder
	rewards *reward.Fixed
}

func newTest(t *testing.T, fee sharemath.Fraction) *PoolTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	issuer, err := token.NewLocal(db)
	require.NoError(t, err)

	ts := &PoolTest{
		t:       t,
		db:      db,
		clock:   epoch.NewManual(1),
		issuer:  issuer,
		payer:   transfer.NewRecorder(),
		rewards: reward.NewFixed(),
	}
	ts.Pool, err = New(db, Config{Owner: owner, RewardFee: fee}, ts.clock, ts.issuer, ts.payer, ts.rewards)
	require.NoError(t, err)
	ts.issuer.Start(ts.Pool.Callback())
	t.Cleanup(ts.issuer.Stop)
	return ts
}

func (ts *PoolTest) tokenBalance(acc thor.Address) string {
	bal, err := ts.issuer.BalanceOf(acc)
	require.NoError(ts.t, err)
	return bal.Dec()
}

func noFee() sharemath.Fraction {
	return sharemath.Fraction{Numerator: 0, Denominator: 1}
}

func (ts *PoolTest) Deposit(acc thor.Address, amount uint64) *PoolTest {
	_, err := ts.Pool.Deposit(acc, u(amount))
	require.NoError(ts.t, err, "deposit failed")
	return ts
}

// Stake stakes and waits for the confirmation.
func (ts *PoolTest) Stake(acc thor.Address, amount uint64) *PoolTest {
	rec, err := ts.Pool.Stake(acc, u(amount))
	require.NoError(ts.t, err, "stake failed")
	ts.issuer.WaitIdle()
	ts.AssertStatus(rec.ID, StatusConfirmed)
	return ts
}

// Unstake unstakes and waits for the confirmation, if any.
func (ts *PoolTest) Unstake(acc thor.Address, amount uint64) *PoolTest {
	rec, err := ts.Pool.Unstake(acc, u(amount))
	require.NoError(ts.t, err, "unstake failed")
	ts.issuer.WaitIdle()
	ts.AssertStatus(rec.ID, StatusConfirmed)
	return ts
}

// Reward schedules amount for the next epoch and moves the clock there.
func (ts *PoolTest) Reward(amount uint64) *PoolTest {
	next := ts.clock.CurrentEpoch() + 1
	ts.rewards.Set(next, u(amount))
	ts.clock.Set(next)
	changed, err := ts.Ping()
	require.NoError(ts.t, err)
	assert.True(ts.t, changed)
	return ts
}

func (ts *PoolTest) Advance(n uint64) *PoolTest {
	ts.clock.Advance(n)
	return ts
}

func (ts *PoolTest) AssertStatus(id thor.Bytes32, status Status) *PoolTest {
	rec, err := ts.RequestStatus(id)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, status, rec.Status, "status mismatch, reason %q", rec.Reason)
	return ts
}

func (ts *PoolTest) AssertAccount(acc thor.Address, unstaked, shares, principal uint64) *PoolTest {
	h, err := ts.GetAccount(acc)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, unstaked, h.Unstaked.Uint64(), "unstaked mismatch")
	assert.Equal(ts.t, shares, h.Shares.Uint64(), "shares mismatch")
	assert.Equal(ts.t, principal, h.Principal.Uint64(), "principal mismatch")
	return ts
}

func (ts *PoolTest) AssertTotals(staked, shares uint64) *PoolTest {
	assert.Equal(ts.t, staked, ts.TotalStakedBalance().Uint64(), "total staked mismatch")
	assert.Equal(ts.t, shares, ts.TotalShares().Uint64(), "total shares mismatch")
	return ts
}

// manualIssuer records requests and never settles them.
type manualIssuer struct {
	mu   sync.Mutex
	reqs []*token.Request
	err  error
}

func (m *manualIssuer) RequestMint(req *token.Request) error { return m.add(req) }
func (m *manualIssuer) RequestBurn(req *token.Request) error { return m.add(req) }

func (m *manualIssuer) add(req *token.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reqs = append(m.reqs, req)
	return nil
}

func (m *manualIssuer) last() *token.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reqs[len(m.reqs)-1]
}

func newManualPool(t *testing.T) (*Pool, *manualIssuer, *epoch.Manual) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	issuer := &manualIssuer{}
	clock := epoch.NewManual(1)
	p, err := New(db, Config{RewardFee: noFee()}, clock, issuer, nil, nil)
	require.NoError(t, err)
	return p, issuer, clock
}

func ok(req *token.Request) *token.Receipt {
	return token.NewReceipt(req, nil)
}
