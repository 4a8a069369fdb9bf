// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/api/summary"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pool"
	"github.com/vechain/stakepool/pool/epoch"
	"github.com/vechain/stakepool/pool/sharemath"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/token"
)

var alice = thor.BytesToAddress([]byte("alice"))

type testServer struct {
	*httptest.Server
	pool   *pool.Pool
	issuer *token.Local
}

func newTestServer(t *testing.T, start bool) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	issuer, err := token.NewLocal(db)
	require.NoError(t, err)
	p, err := pool.New(db, pool.Config{RewardFee: sharemath.Fraction{Denominator: 1}}, epoch.NewManual(1), issuer, nil, nil)
	require.NoError(t, err)
	if start {
		issuer.Start(p.Callback())
	}

	ts := httptest.NewServer(New(p, Options{AllowedOrigins: "*", EnableMetrics: true, EnableReqLogger: true}))
	t.Cleanup(func() {
		ts.Close()
		issuer.Stop()
		db.Close()
	})
	return &testServer{ts, p, issuer}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, []byte) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func (ts *testServer) action(t *testing.T, name string, amount string) (int, *accounts.Request, string) {
	var body any
	if amount != "" {
		body = map[string]string{"amount": amount}
	}
	code, data := ts.do(t, http.MethodPost, "/accounts/"+alice.String()+"/"+name, body)
	if code != http.StatusOK {
		return code, nil, string(data)
	}
	var rec accounts.Request
	require.NoError(t, json.Unmarshal(data, &rec))
	return code, &rec, ""
}

func TestStakeFlow(t *testing.T) {
	ts := newTestServer(t, true)

	code, rec, _ := ts.action(t, "deposit", "1000")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "confirmed", rec.Status)
	assert.Equal(t, "deposit", rec.Action)

	code, rec, _ = ts.action(t, "stake", "0x258") // 600
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "stake", rec.Action)
	assert.Equal(t, "600", rec.Amount)
	ts.issuer.WaitIdle()

	code, data := ts.do(t, http.MethodGet, "/requests/"+rec.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	var settled accounts.Request
	require.NoError(t, json.Unmarshal(data, &settled))
	assert.Equal(t, "confirmed", settled.Status)
	assert.Equal(t, "600", settled.Shares)

	code, data = ts.do(t, http.MethodGet, "/accounts/"+alice.String(), nil)
	require.Equal(t, http.StatusOK, code)
	var acc accounts.Account
	require.NoError(t, json.Unmarshal(data, &acc))
	assert.Equal(t, alice, acc.Address)
	assert.Equal(t, "400", acc.Unstaked)
	assert.Equal(t, "600", acc.Staked)
	assert.Equal(t, "600", acc.Shares)
	assert.Equal(t, "600", acc.Principal)
	assert.Equal(t, "0", acc.Reward)

	code, data = ts.do(t, http.MethodGet, "/pool", nil)
	require.Equal(t, http.StatusOK, code)
	var sum summary.Pool
	require.NoError(t, json.Unmarshal(data, &sum))
	assert.Equal(t, "600", sum.TotalStakedBalance)
	assert.Equal(t, "600", sum.TotalShares)
	assert.Equal(t, "1.000000000000000000", sum.SharePrice)
	assert.Equal(t, uint64(1), sum.CurrentEpoch)
	assert.Equal(t, 0, sum.Pending)

	code, data = ts.do(t, http.MethodGet, "/accounts?offset=0&limit=10", nil)
	require.Equal(t, http.StatusOK, code)
	var list accounts.AccountList
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, uint64(1), list.Total)
	assert.Len(t, list.Accounts, 1)
}

func TestActionErrors(t *testing.T) {
	ts := newTestServer(t, true)

	code, _, msg := ts.action(t, "deposit", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, msg, "amount: required")

	code, _, _ = ts.action(t, "deposit", "-1")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.action(t, "stake", "0")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.action(t, "withdraw", "1")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.action(t, "unstake", "1")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.action(t, "lend", "1")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(t, http.MethodGet, "/accounts/not-an-address", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.do(t, http.MethodGet, "/accounts?limit=100000", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.do(t, http.MethodGet, "/requests/"+thor.Bytes32{1}.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(t, http.MethodGet, "/requests/0x01", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPendingConflict(t *testing.T) {
	// issuer never started, the mint stays pending
	ts := newTestServer(t, false)

	code, _, _ := ts.action(t, "deposit", "1000")
	require.Equal(t, http.StatusOK, code)

	code, rec, _ := ts.action(t, "stake", "100")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "awaiting-confirmation", rec.Status)

	code, _, _ = ts.action(t, "stake", "100")
	assert.Equal(t, http.StatusConflict, code)

	code, _, _ = ts.action(t, "withdraw", "100")
	assert.Equal(t, http.StatusConflict, code)

	code, _, _ = ts.action(t, "deposit", "1")
	assert.Equal(t, http.StatusOK, code)

	code, data := ts.do(t, http.MethodGet, "/pool", nil)
	require.Equal(t, http.StatusOK, code)
	var sum summary.Pool
	require.NoError(t, json.Unmarshal(data, &sum))
	assert.Equal(t, 1, sum.Pending)
	assert.Equal(t, "1", sum.SharePrice)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/pool", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.org")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}
