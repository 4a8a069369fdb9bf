// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package summary

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/pool"
)

// Pool for marshal the pool summary
type Pool struct {
	TotalStakedBalance string `json:"totalStakedBalance"`
	TotalShares        string `json:"totalShares"`
	LastTotalBalance   string `json:"lastTotalBalance"`
	SharePrice         string `json:"sharePrice"`
	RewardFee          string `json:"rewardFee"`
	LastEpoch          uint64 `json:"lastEpoch"`
	CurrentEpoch       uint64 `json:"currentEpoch"`
	UnlockDelay        uint64 `json:"unlockDelay"`
	Pending            int    `json:"pending"`
}

// sharePrice renders staked/shares with 18 decimals, "1" for an empty pool.
func sharePrice(s *pool.Summary) string {
	if s.TotalShares.IsZero() {
		return "1"
	}
	r := new(big.Rat).SetFrac(s.TotalStakedBalance.ToBig(), s.TotalShares.ToBig())
	return r.FloatString(18)
}

type Summary struct {
	pool *pool.Pool
}

func New(p *pool.Pool) *Summary {
	return &Summary{p}
}

func (s *Summary) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	sum := s.pool.Summary()
	return utils.WriteJSON(w, &Pool{
		TotalStakedBalance: sum.TotalStakedBalance.Dec(),
		TotalShares:        sum.TotalShares.Dec(),
		LastTotalBalance:   sum.LastTotalBalance.Dec(),
		SharePrice:         sharePrice(sum),
		RewardFee:          sum.RewardFee.String(),
		LastEpoch:          sum.LastEpoch,
		CurrentEpoch:       sum.CurrentEpoch,
		UnlockDelay:        sum.UnlockDelay,
		Pending:            sum.Pending,
	})
}

func (s *Summary) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
}
