// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"sync/atomic"
	"time"
)

// Clock reports the current epoch height. It must never go backwards.
type Clock interface {
	CurrentEpoch() uint64
}

// Manual is a clock advanced by hand.
type Manual struct {
	epoch atomic.Uint64
}

func NewManual(epoch uint64) *Manual {
	m := &Manual{}
	m.epoch.Store(epoch)
	return m
}

func (m *Manual) CurrentEpoch() uint64 {
	return m.epoch.Load()
}

// Advance moves the clock forward by n epochs and returns the new height.
func (m *Manual) Advance(n uint64) uint64 {
	return m.epoch.Add(n)
}

// Set moves the clock to epoch. Values below the current height are ignored.
func (m *Manual) Set(epoch uint64) {
	for {
		cur := m.epoch.Load()
		if epoch <= cur || m.epoch.CompareAndSwap(cur, epoch) {
			return
		}
	}
}

// Timed derives the epoch from wall time: epoch n starts at genesis + n*duration.
type Timed struct {
	genesis  time.Time
	duration time.Duration
	now      func() time.Time
}

func NewTimed(genesis time.Time, duration time.Duration) *Timed {
	if duration <= 0 {
		panic("epoch duration must be positive")
	}
	return &Timed{genesis: genesis, duration: duration, now: time.Now}
}

func (t *Timed) CurrentEpoch() uint64 {
	elapsed := t.now().Sub(t.genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / t.duration)
}

// Duration returns the length of one epoch.
func (t *Timed) Duration() time.Duration {
	return t.duration
}
