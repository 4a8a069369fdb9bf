// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/pool/reverts"
	"github.com/vechain/stakepool/pool/sharemath"
)

var stateKey = []byte("pool-state")

const stateBucket = kv.Bucket("g")

// State is the pool-wide aggregate.
type State struct {
	TotalStakedBalance *uint256.Int
	TotalShares        *uint256.Int
	LastTotalBalance   *uint256.Int // staked plus every unstaked balance, as of the last mutation
	LastEpoch          uint64
	RewardFee          sharemath.Fraction
	Nonce              uint64
}

func (s *State) clone() *State {
	return &State{
		TotalStakedBalance: s.TotalStakedBalance.Clone(),
		TotalShares:        s.TotalShares.Clone(),
		LastTotalBalance:   s.LastTotalBalance.Clone(),
		LastEpoch:          s.LastEpoch,
		RewardFee:          s.RewardFee,
		Nonce:              s.Nonce,
	}
}

// Totals returns the staked balance and shares as a price pair.
func (s *State) Totals() sharemath.Totals {
	return sharemath.NewTotals(s.TotalStakedBalance, s.TotalShares)
}

// Service manages the pool totals.
// Mutations apply to a working copy until Commit.
type Service struct {
	store     kv.Store
	committed *State
	working   *State
}

// New loads the state from db, initializing it with fee and epoch when absent.
func New(db kv.Store, fee sharemath.Fraction, epoch uint64) (*Service, error) {
	svc := &Service{store: stateBucket.NewStore(db)}

	data, err := svc.store.Get(stateKey)
	switch {
	case err == nil:
		var st State
		if err := rlp.DecodeBytes(data, &st); err != nil {
			return nil, errors.Wrap(err, "decode pool state")
		}
		svc.committed = &st
	case svc.store.IsNotFound(err):
		if err := fee.Validate(); err != nil {
			return nil, err
		}
		svc.committed = &State{
			TotalStakedBalance: new(uint256.Int),
			TotalShares:        new(uint256.Int),
			LastTotalBalance:   new(uint256.Int),
			LastEpoch:          epoch,
			RewardFee:          fee,
		}
		if err := svc.store.Put(stateKey, mustEncode(svc.committed)); err != nil {
			return nil, errors.Wrap(err, "init pool state")
		}
	default:
		return nil, errors.Wrap(err, "get pool state")
	}
	svc.working = svc.committed.clone()
	return svc, nil
}

func mustEncode(st *State) []byte {
	data, err := rlp.EncodeToBytes(st)
	if err != nil {
		panic(err)
	}
	return data
}

// Get returns a copy of the working state.
func (s *Service) Get() *State {
	return s.working.clone()
}

func (s *Service) Totals() sharemath.Totals {
	return s.working.Totals()
}

func (s *Service) LastEpoch() uint64 {
	return s.working.LastEpoch
}

func (s *Service) SetLastEpoch(epoch uint64) {
	s.working.LastEpoch = epoch
}

func (s *Service) RewardFee() sharemath.Fraction {
	return s.working.RewardFee
}

// NextNonce returns a fresh request nonce.
func (s *Service) NextNonce() uint64 {
	s.working.Nonce++
	return s.working.Nonce
}

// ApplyDeposit accounts newly held unstaked funds.
func (s *Service) ApplyDeposit(amount *uint256.Int) error {
	return add(s.working.LastTotalBalance, amount)
}

// ApplyWithdraw accounts funds leaving the pool.
func (s *Service) ApplyWithdraw(amount *uint256.Int) error {
	return sub(s.working.LastTotalBalance, amount)
}

// ApplyStake adds a confirmed stake position. The staked value was already held as unstaked.
func (s *Service) ApplyStake(charge, shares *uint256.Int) error {
	if err := add(s.working.TotalStakedBalance, charge); err != nil {
		return err
	}
	return add(s.working.TotalShares, shares)
}

// ApplyUnstake removes a stake position. The released value stays held as unstaked.
func (s *Service) ApplyUnstake(released, shares *uint256.Int) error {
	if err := sub(s.working.TotalStakedBalance, released); err != nil {
		return err
	}
	return sub(s.working.TotalShares, shares)
}

// ApplyReward adds an epoch reward to the staked balance and mints the fee shares.
func (s *Service) ApplyReward(reward, feeShares *uint256.Int) error {
	if err := add(s.working.TotalStakedBalance, reward); err != nil {
		return err
	}
	if err := add(s.working.LastTotalBalance, reward); err != nil {
		return err
	}
	return add(s.working.TotalShares, feeShares)
}

// Dirty returns whether the working state differs from the committed one.
func (s *Service) Dirty() bool {
	w, c := s.working, s.committed
	return !w.TotalStakedBalance.Eq(c.TotalStakedBalance) ||
		!w.TotalShares.Eq(c.TotalShares) ||
		!w.LastTotalBalance.Eq(c.LastTotalBalance) ||
		w.LastEpoch != c.LastEpoch ||
		w.RewardFee != c.RewardFee ||
		w.Nonce != c.Nonce
}

// Commit writes the working state into w. Call Committed once w has been persisted.
func (s *Service) Commit(w kv.Putter) error {
	data, err := rlp.EncodeToBytes(s.working)
	if err != nil {
		return errors.Wrap(err, "encode pool state")
	}
	return stateBucket.NewPutter(w).Put(stateKey, data)
}

// Committed promotes the working state.
func (s *Service) Committed() {
	s.committed = s.working.clone()
}

// Rollback discards the working state.
func (s *Service) Rollback() {
	s.working = s.committed.clone()
}

func add(dst, v *uint256.Int) error {
	if _, overflow := dst.AddOverflow(dst, v); overflow {
		return reverts.ErrOverflow
	}
	return nil
}

func sub(dst, v *uint256.Int) error {
	if dst.Lt(v) {
		return errors.Wrapf(reverts.ErrOverflow, "underflow %s - %s", dst.Dec(), v.Dec())
	}
	dst.Sub(dst, v)
	return nil
}
