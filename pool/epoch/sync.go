// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

// Tracker stores the last synchronised epoch.
type Tracker interface {
	LastEpoch() uint64
	SetLastEpoch(epoch uint64)
}

// Hook runs once per epoch change, with the previous and the new epoch.
type Hook func(prev, cur uint64) error

// Sync advances a Tracker to the clock and runs hooks on change.
type Sync struct {
	clock Clock
	hooks []Hook
}

func NewSync(clock Clock, hooks ...Hook) *Sync {
	return &Sync{clock: clock, hooks: hooks}
}

func (s *Sync) Clock() Clock {
	return s.clock
}

// Ping records the current epoch in tr. It returns whether the epoch changed.
// When a hook fails the tracker is left advanced; callers drop the pending changes.
func (s *Sync) Ping(tr Tracker) (bool, error) {
	prev, cur := tr.LastEpoch(), s.clock.CurrentEpoch()
	if cur <= prev {
		return false, nil
	}
	tr.SetLastEpoch(cur)
	for _, hook := range s.hooks {
		if err := hook(prev, cur); err != nil {
			return true, err
		}
	}
	return true, nil
}
