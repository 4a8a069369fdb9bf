// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/pool"
	"github.com/vechain/stakepool/thor"
)

const defaultLimit = 100

type Accounts struct {
	pool     *pool.Pool
	maxLimit uint64
}

func New(p *pool.Pool, maxLimit uint64) *Accounts {
	if maxLimit == 0 {
		maxLimit = 1000
	}
	return &Accounts{pool: p, maxLimit: maxLimit}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	h, err := a.pool.GetAccount(*addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(h))
}

func parseUint(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

func (a *Accounts) handleGetAccounts(w http.ResponseWriter, req *http.Request) error {
	offset, err := parseUint(req, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := parseUint(req, "limit", defaultLimit)
	if err != nil {
		return err
	}
	if limit > a.maxLimit {
		return utils.BadRequest(errors.Errorf("limit exceeds the maximum of %d", a.maxLimit))
	}

	total, err := a.pool.GetNumberOfAccounts()
	if err != nil {
		return err
	}
	list, err := a.pool.GetAccounts(offset, limit)
	if err != nil {
		return err
	}
	accounts := make([]*Account, 0, len(list))
	for _, h := range list {
		accounts = append(accounts, convertAccount(h))
	}
	return utils.WriteJSON(w, &AccountList{Total: total, Accounts: accounts})
}

type action struct {
	withAmount func(thor.Address, *uint256.Int) (*pool.Record, error)
	all        func(thor.Address) (*pool.Record, error)
}

func (a *Accounts) actions() map[string]action {
	p := a.pool
	return map[string]action{
		"deposit":           {withAmount: p.Deposit},
		"deposit-and-stake": {withAmount: p.DepositAndStake},
		"stake":             {withAmount: p.Stake},
		"stake-all":         {all: p.StakeAll},
		"unstake":           {withAmount: p.Unstake},
		"unstake-all":       {all: p.UnstakeAll},
		"unstake-reward":    {all: p.UnstakeReward},
		"withdraw":          {withAmount: p.Withdraw},
		"withdraw-all":      {all: p.WithdrawAll},
	}
}

func parseAmount(body *ActionBody) (*uint256.Int, error) {
	if body.Amount == nil {
		return nil, errors.New("amount: required")
	}
	b := (*big.Int)(body.Amount)
	if b.Sign() < 0 {
		return nil, errors.New("amount: negative")
	}
	amount, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("amount: exceeds 256 bits")
	}
	return amount, nil
}

func (a *Accounts) handleAction(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	addr, err := thor.ParseAddress(vars["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	act, ok := a.actions()[vars["action"]]
	if !ok {
		return utils.NotFound(errors.Errorf("unknown action %q", vars["action"]))
	}

	var rec *pool.Record
	if act.withAmount != nil {
		var body ActionBody
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		amount, err := parseAmount(&body)
		if err != nil {
			return utils.BadRequest(err)
		}
		rec, err = act.withAmount(*addr, amount)
		if err != nil {
			return utils.PoolError(err)
		}
	} else {
		rec, err = act.all(*addr)
		if err != nil {
			return utils.PoolError(err)
		}
	}
	return utils.WriteJSON(w, ConvertRecord(rec))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /accounts").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccounts))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/{action}").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/{action}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleAction))
}
