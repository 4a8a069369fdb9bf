// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/stakepool/pool/reverts"
	"github.com/vechain/stakepool/token"
)

// Confirm settles an outstanding request with the issuer's receipt.
//
// A receipt is accepted once, and only when it matches the request it names. A successful
// receipt applies the stake or unstake; a failed one abandons it with no state change.
// When the local application is rejected the request is abandoned and the error returned.
// Storage failures leave the request outstanding so the receipt can be delivered again.
func (p *Pool) Confirm(r *token.Receipt) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	in, ok := p.pending[r.ID]
	if !ok {
		logger.Debug("receipt for unknown request", "id", r.ID)
		return reverts.ErrUnknownRequest
	}
	if !in.matches(r) {
		logger.Warn("receipt does not match request", "id", r.ID, "kind", r.Kind, "account", r.Account, "amount", r.Amount)
		return reverts.ErrRequestMismatch
	}

	label := map[string]string{"kind": in.kind.String()}
	if !r.Success {
		// nothing to undo, only the epoch is synchronised
		if err := p.execute("confirm-"+in.kind.String(), func(uint64) error { return nil }); err != nil {
			return err
		}
		p.settle(in, StatusRolledBack, r.Reason)
		label["outcome"] = "failed"
		metricConfirmations().AddWithLabel(1, label)
		logger.Info("request rolled back", "id", r.ID, "action", in.record.Action, "account", in.account, "reason", r.Reason)
		return nil
	}

	err := p.execute("confirm-"+in.kind.String(), func(epoch uint64) error {
		if in.kind == token.KindMint {
			return p.applyMint(in)
		}
		return p.applyBurn(in, epoch)
	})
	if err != nil {
		if reverts.IsRevertErr(err) {
			p.settle(in, StatusRolledBack, err.Error())
			label["outcome"] = "rejected"
			metricConfirmations().AddWithLabel(1, label)
			logger.Error("confirmed request could not be applied", "id", r.ID, "action", in.record.Action, "account", in.account, "err", err)
		}
		return err
	}
	p.settle(in, StatusConfirmed, "")
	label["outcome"] = "confirmed"
	metricConfirmations().AddWithLabel(1, label)
	return nil
}

// OnMintResult settles a stake request.
func (p *Pool) OnMintResult(r *token.Receipt) error {
	if r.Kind != token.KindMint {
		return reverts.ErrRequestMismatch
	}
	return p.Confirm(r)
}

// OnBurnResult settles an unstake request.
func (p *Pool) OnBurnResult(r *token.Receipt) error {
	if r.Kind != token.KindBurn {
		return reverts.ErrRequestMismatch
	}
	return p.Confirm(r)
}

// Callback adapts Confirm to the issuer's receipt callback. Rejections are logged.
func (p *Pool) Callback() token.Callback {
	return func(r *token.Receipt) {
		if err := p.Confirm(r); err != nil {
			logger.Warn("receipt rejected", "id", r.ID, "err", err)
		}
	}
}
