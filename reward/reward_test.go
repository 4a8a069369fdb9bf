// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule(t *testing.T) {
	s := NewSchedule(uint256.NewInt(10), uint256.NewInt(45), 2)

	tests := []struct {
		epoch  uint64
		reward uint64
		left   uint64
	}{
		{1, 0, 45},  // before genesis
		{2, 0, 45},  // genesis
		{3, 10, 35}, // one epoch
		{3, 0, 35},  // already paid
		{6, 30, 5},  // three epochs
		{9, 5, 0},   // capped by budget
		{10, 0, 0},
	}
	for _, tt := range tests {
		r, err := s.EpochReward(0, tt.epoch)
		require.NoError(t, err)
		assert.Equal(t, tt.reward, r.Uint64(), "epoch %d", tt.epoch)
		s.Distributed(tt.epoch, r)
		assert.Equal(t, tt.left, s.Undistributed().Uint64(), "epoch %d", tt.epoch)
	}

	s.Fund(uint256.NewInt(100))
	r, err := s.EpochReward(0, 11)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), r.Uint64())
	s.Distributed(11, r)
	assert.Equal(t, uint64(90), s.Undistributed().Uint64())
}

func TestSchedule_QuoteKeepsBudget(t *testing.T) {
	s := NewSchedule(uint256.NewInt(10), uint256.NewInt(100), 0)

	// quoted twice without being distributed
	for range 2 {
		r, err := s.EpochReward(0, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(20), r.Uint64())
		assert.Equal(t, uint64(100), s.Undistributed().Uint64())
	}

	s.Distributed(2, uint256.NewInt(20))
	r, err := s.EpochReward(2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), r.Uint64())
	assert.Equal(t, uint64(80), s.Undistributed().Uint64())
}

func TestSchedule_Overflow(t *testing.T) {
	maxU := new(uint256.Int).SetAllOne()
	s := NewSchedule(maxU, uint256.NewInt(7), 0)

	r, err := s.EpochReward(0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), r.Uint64())
}

func TestFixed(t *testing.T) {
	f := NewFixed()
	f.Set(3, uint256.NewInt(100))

	r, err := f.EpochReward(0, 2)
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	r, err = f.EpochReward(2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), r.Uint64())

	// still due until distributed
	r, err = f.EpochReward(2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), r.Uint64())

	f.Distributed(3, r)
	r, err = f.EpochReward(2, 3)
	require.NoError(t, err)
	assert.True(t, r.IsZero())
}
