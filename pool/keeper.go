// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"context"
	"time"
)

// Run pings the pool every interval until ctx is done, so rewards are distributed even
// when no delegator calls in. Ping failures are logged and retried on the next tick.
func (p *Pool) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			changed, err := p.Ping()
			if err != nil {
				logger.Warn("failed to ping pool", "err", err)
				continue
			}
			if changed {
				s := p.Summary()
				logger.Info("entered new epoch",
					"epoch", s.LastEpoch,
					"staked", s.TotalStakedBalance,
					"shares", s.TotalShares,
				)
			}
		}
	}
}
