// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/pool"
	"github.com/vechain/stakepool/thor"
)

type Requests struct {
	pool *pool.Pool
}

func New(p *pool.Pool) *Requests {
	return &Requests{p}
}

func (r *Requests) handleGetRequest(w http.ResponseWriter, req *http.Request) error {
	id, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	rec, err := r.pool.RequestStatus(id)
	if err != nil {
		if errors.Is(err, pool.ErrRequestNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, accounts.ConvertRecord(rec))
}

func (r *Requests) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /requests/{id}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRequest))
}
