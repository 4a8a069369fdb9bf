// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward provides the staking reward credited to the pool on every new epoch.
package reward

import (
	"sync"

	"github.com/holiman/uint256"
)

// Source returns the reward accrued between two epochs.
//
// EpochReward only quotes the reward. The pool calls Distributed once the reward is credited
// and persisted, so a quote for a failed epoch change is asked again on the next ping.
type Source interface {
	EpochReward(prev, cur uint64) (*uint256.Int, error)
	Distributed(cur uint64, amount *uint256.Int)
}

// Schedule pays a fixed amount per elapsed epoch out of a finite budget.
type Schedule struct {
	mu            sync.Mutex
	perEpoch      *uint256.Int
	undistributed *uint256.Int
	genesis       uint64
	last          uint64
}

var _ Source = (*Schedule)(nil)

// NewSchedule creates a schedule which starts paying after the genesis epoch.
func NewSchedule(perEpoch, budget *uint256.Int, genesis uint64) *Schedule {
	return &Schedule{
		perEpoch:      perEpoch.Clone(),
		undistributed: budget.Clone(),
		genesis:       genesis,
		last:          genesis,
	}
}

// EpochReward returns perEpoch times the epochs elapsed since the last payment, capped by the
// remaining budget. Epochs at or before the last payment yield zero.
func (s *Schedule) EpochReward(_, cur uint64) (*uint256.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur <= s.last {
		return new(uint256.Int), nil
	}
	r, overflow := new(uint256.Int).MulOverflow(s.perEpoch, uint256.NewInt(cur-s.last))
	if overflow || r.Gt(s.undistributed) {
		r = s.undistributed.Clone()
	}
	return r, nil
}

// Distributed takes amount out of the budget and marks cur as paid.
func (s *Schedule) Distributed(cur uint64, amount *uint256.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur > s.last {
		s.last = cur
	}
	if amount.Gt(s.undistributed) {
		s.undistributed.Clear()
	} else {
		s.undistributed.Sub(s.undistributed, amount)
	}
}

// Fund adds amount to the budget.
func (s *Schedule) Fund(amount *uint256.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undistributed.Add(s.undistributed, amount)
}

// Undistributed returns the remaining budget.
func (s *Schedule) Undistributed() *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undistributed.Clone()
}

// Fixed returns a preset reward for each epoch change. Used to script rewards in tests and
// demos.
type Fixed struct {
	mu      sync.Mutex
	rewards map[uint64]*uint256.Int
}

func NewFixed() *Fixed {
	return &Fixed{rewards: make(map[uint64]*uint256.Int)}
}

// Set schedules amount to be paid when the pool first observes epoch.
func (f *Fixed) Set(epoch uint64, amount *uint256.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewards[epoch] = amount.Clone()
}

func (f *Fixed) EpochReward(_, cur uint64) (*uint256.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rewards[cur]; ok {
		return r.Clone(), nil
	}
	return new(uint256.Int), nil
}

func (f *Fixed) Distributed(cur uint64, _ *uint256.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rewards, cur)
}
