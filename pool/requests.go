// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/pool/reverts"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/token"
)

// ErrRequestNotFound is returned by RequestStatus for ids the pool does not remember.
var ErrRequestNotFound = errors.New("request not found")

func (p *Pool) newRecord(action string, account thor.Address) *Record {
	return &Record{
		ID:      thor.RequestID(action, account, p.stats.NextNonce()),
		Action:  action,
		Account: account,
		Status:  StatusRequested,
	}
}

// checkIdle rejects accounts with an outstanding intent.
func (p *Pool) checkIdle(account thor.Address) error {
	if _, ok := p.byAccount[account]; ok {
		return reverts.ErrPendingAction
	}
	return nil
}

func (p *Pool) remember(rec *Record) {
	p.history.Add(rec.ID, rec.clone())
}

func (p *Pool) track(in *intent) {
	id := in.record.ID
	p.pending[id] = in
	p.byAccount[in.account] = id
	p.remember(in.record)
	metricPending().Set(int64(len(p.pending)))
	logger.Debug("request pending", "id", id, "action", in.record.Action, "account", in.account, "amount", in.amount())
}

func (p *Pool) settle(in *intent, status Status, reason string) {
	id := in.record.ID
	delete(p.pending, id)
	delete(p.byAccount, in.account)

	in.record.Status = status
	in.record.Reason = reason
	p.remember(in.record)
	metricPending().Set(int64(len(p.pending)))
}

// dispatch hands the intent to the issuer. It must be called without holding p.mu since the
// issuer may settle the request on another goroutine right away.
func (p *Pool) dispatch(in *intent) (*Record, error) {
	req := in.request()
	var err error
	if in.kind == token.KindMint {
		err = p.issuer.RequestMint(req)
	} else {
		err = p.issuer.RequestBurn(req)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cur, ok := p.pending[req.ID]
	if err != nil {
		if ok {
			p.settle(cur, StatusRolledBack, err.Error())
		}
		sentinel := reverts.ErrMintFailed
		if in.kind == token.KindBurn {
			sentinel = reverts.ErrBurnFailed
		}
		logger.Warn("token request rejected", "id", req.ID, "kind", req.Kind, "err", err)
		return in.record.clone(), errors.WithMessage(sentinel, err.Error())
	}
	if ok && cur.record.Status == StatusRequested {
		cur.record.Status = StatusAwaitingConfirmation
		p.remember(cur.record)
	}
	return in.record.clone(), nil
}

// RequestStatus returns the record of a request.
func (p *Pool) RequestStatus(id thor.Bytes32) (*Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if in, ok := p.pending[id]; ok {
		return in.record.clone(), nil
	}
	if v, ok := p.history.Get(id); ok {
		return v.(*Record).clone(), nil
	}
	return nil, ErrRequestNotFound
}

// Pending returns the id of the outstanding request of account, if any.
func (p *Pool) Pending(account thor.Address) (thor.Bytes32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.byAccount[account]
	return id, ok
}
