// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/pool"
)

const (
	defaultMaxEpochLag = 1
	defaultMaxPending  = 1000
)

type Status struct {
	Healthy      bool   `json:"healthy"`
	CurrentEpoch uint64 `json:"currentEpoch"`
	LastEpoch    uint64 `json:"lastEpoch"`
	Pending      int    `json:"pending"`
}

type API struct {
	pool *pool.Pool
}

func New(p *pool.Pool) *API {
	return &API{pool: p}
}

// status reports the pool unhealthy when pings fall behind the clock or
// confirmations stop arriving and intents pile up.
func (h *API) status(maxEpochLag uint64, maxPending int) *Status {
	s := h.pool.Summary()
	lag := uint64(0)
	if s.CurrentEpoch > s.LastEpoch {
		lag = s.CurrentEpoch - s.LastEpoch
	}
	return &Status{
		Healthy:      lag <= maxEpochLag && s.Pending <= maxPending,
		CurrentEpoch: s.CurrentEpoch,
		LastEpoch:    s.LastEpoch,
		Pending:      s.Pending,
	}
}

func (h *API) handleGetHealth(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()

	maxEpochLag := uint64(defaultMaxEpochLag)
	if v := query.Get("maxEpochLag"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return utils.BadRequest(err)
		}
		maxEpochLag = parsed
	}
	maxPending := defaultMaxPending
	if v := query.Get("maxPending"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return utils.BadRequest(err)
		}
		maxPending = parsed
	}

	st := h.status(maxEpochLag, maxPending)
	if !st.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, st)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
