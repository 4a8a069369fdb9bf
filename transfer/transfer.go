// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "transfer")

// Transferrer pays base asset out of the pool. Calls must not block.
type Transferrer interface {
	Transfer(to thor.Address, amount *uint256.Int)
}

// Payout is one recorded transfer.
type Payout struct {
	To     thor.Address `json:"to"`
	Amount *uint256.Int `json:"amount"`
}

// Recorder keeps every payout in memory.
type Recorder struct {
	mu      sync.Mutex
	payouts []Payout
	totals  map[thor.Address]*uint256.Int
}

var _ Transferrer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{totals: make(map[thor.Address]*uint256.Int)}
}

func (r *Recorder) Transfer(to thor.Address, amount *uint256.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payouts = append(r.payouts, Payout{To: to, Amount: amount.Clone()})
	total, ok := r.totals[to]
	if !ok {
		total = new(uint256.Int)
		r.totals[to] = total
	}
	total.Add(total, amount)
	logger.Debug("payout", "to", to, "amount", amount)
}

// Payouts returns the recorded payouts in order.
func (r *Recorder) Payouts() []Payout {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Payout(nil), r.payouts...)
}

// TotalTo returns the sum paid to addr.
func (r *Recorder) TotalTo(addr thor.Address) *uint256.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if total, ok := r.totals[addr]; ok {
		return total.Clone()
	}
	return new(uint256.Int)
}
