// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool implements a delegated staking pool.
//
// Delegators deposit a base asset and convert it into shares of the pool's staked balance.
// Staking and the slow unstake path are confirmed asynchronously by a derivative token issuer;
// nothing is mutated locally until the confirmation arrives. Every entry point first
// synchronises the pool with the epoch clock.
package pool

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/pool/epoch"
	"github.com/vechain/stakepool/pool/globalstats"
	"github.com/vechain/stakepool/pool/ledger"
	"github.com/vechain/stakepool/pool/reverts"
	"github.com/vechain/stakepool/pool/sharemath"
	"github.com/vechain/stakepool/reward"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/token"
	"github.com/vechain/stakepool/transfer"
)

var logger = log.WithContext("pkg", "pool")

func SetLogger(l log.Logger) {
	logger = l
}

// DefaultUnlockDelay is the number of epochs unstaked funds stay locked.
const DefaultUnlockDelay = 4

// Config holds the pool parameters.
type Config struct {
	Owner        thor.Address // receives the reward fee shares, zero disables the fee payout
	RewardFee    sharemath.Fraction
	UnlockDelay  uint64
	CacheSize    int // ledger read cache entries
	HistoryLimit int // request records kept after settlement
}

// Pool is the staking pool aggregate. All methods are safe for concurrent use.
type Pool struct {
	mu sync.Mutex

	db      kv.Store
	ledger  *ledger.Ledger
	stats   *globalstats.Service
	sync    *epoch.Sync
	issuer  token.Issuer
	payer   transfer.Transferrer
	rewards reward.Source
	due     *dueReward // quoted by the epoch hook, acknowledged on commit
	cfg     Config

	pending   map[thor.Bytes32]*intent
	byAccount map[thor.Address]thor.Bytes32
	history   *cache.LRU
}

// New opens the pool stored in db. rewards may be nil.
func New(
	db kv.Store,
	cfg Config,
	clock epoch.Clock,
	issuer token.Issuer,
	payer transfer.Transferrer,
	rewards reward.Source,
) (*Pool, error) {
	if cfg.UnlockDelay == 0 {
		cfg.UnlockDelay = DefaultUnlockDelay
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 4096
	}
	if err := cfg.RewardFee.Validate(); err != nil {
		return nil, err
	}
	if issuer == nil {
		return nil, errors.New("token issuer required")
	}
	if payer == nil {
		payer = transfer.NewRecorder()
	}

	l, err := ledger.New(db, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	stats, err := globalstats.New(db, cfg.RewardFee, clock.CurrentEpoch())
	if err != nil {
		return nil, err
	}
	history, err := cache.NewLRU(cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		db:        db,
		ledger:    l,
		stats:     stats,
		issuer:    issuer,
		payer:     payer,
		rewards:   rewards,
		cfg:       cfg,
		pending:   make(map[thor.Bytes32]*intent),
		byAccount: make(map[thor.Address]thor.Bytes32),
		history:   history,
	}
	p.sync = epoch.NewSync(clock, p.distributeReward)
	p.updateGauges()
	return p, nil
}

// Config returns the pool parameters. The reward fee is the stored one.
func (p *Pool) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg := p.cfg
	cfg.RewardFee = p.stats.RewardFee()
	return cfg
}

// Ping synchronises the pool with the epoch clock. It returns whether the epoch changed.
func (p *Pool) Ping() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ping()
}

// ping runs the epoch hooks on a new epoch and persists their effects on its own, so a
// rejected entry point does not undo them.
func (p *Pool) ping() (bool, error) {
	before := p.stats.Totals()
	changed, err := p.sync.Ping(p.stats)
	if err != nil {
		p.rollback()
		return false, err
	}
	if !changed {
		return false, nil
	}
	p.assertPrice("ping", before)
	if err := p.commit(); err != nil {
		return false, err
	}
	logger.Debug("epoch synchronised", "epoch", p.stats.LastEpoch())
	return true, nil
}

type dueReward struct {
	epoch  uint64
	amount *uint256.Int
}

// distributeReward credits the epoch reward to the staked balance and mints the owner's fee
// shares at the post-reward price.
func (p *Pool) distributeReward(prev, cur uint64) error {
	if p.rewards == nil {
		return nil
	}
	totals := p.stats.Totals()
	// no shares to attribute a reward to
	if totals.Shares.IsZero() {
		return nil
	}
	r, err := p.rewards.EpochReward(prev, cur)
	if err != nil {
		return errors.WithMessage(err, "epoch reward")
	}
	if r == nil {
		r = new(uint256.Int)
	}
	p.due = &dueReward{cur, r}
	if r.IsZero() {
		return nil
	}

	feeShares := new(uint256.Int)
	fee := p.stats.RewardFee().Multiply(r)
	if !fee.IsZero() && !p.cfg.Owner.IsZero() {
		staked, overflow := new(uint256.Int).AddOverflow(totals.StakedBalance, r)
		if overflow {
			return reverts.ErrOverflow
		}
		feeShares, err = sharemath.NewTotals(staked, totals.Shares).SharesFromAmountRoundDown(fee)
		if err != nil {
			return err
		}
	}
	if err := p.stats.ApplyReward(r, feeShares); err != nil {
		return err
	}
	if !feeShares.IsZero() {
		owner, err := p.ledger.GetOrDefault(p.cfg.Owner)
		if err != nil {
			return err
		}
		owner.StakeShares.Add(owner.StakeShares, feeShares)
		p.ledger.Save(p.cfg.Owner, owner)
	}

	metricRewardTotal().Add(saturate(r))
	logger.Info("epoch reward distributed",
		"epoch", cur,
		"reward", r,
		"fee", fee,
		"feeShares", feeShares,
	)
	return nil
}

// execute runs fn as one atomic step after synchronising the epoch. Changes staged by fn are
// committed in a single batch when it succeeds and dropped when it fails.
func (p *Pool) execute(action string, fn func(epoch uint64) error) error {
	if _, err := p.ping(); err != nil {
		metricActions().AddWithLabel(1, map[string]string{"action": action, "outcome": "error"})
		return err
	}
	before := p.stats.Totals()
	if err := fn(p.stats.LastEpoch()); err != nil {
		p.rollback()
		metricActions().AddWithLabel(1, map[string]string{"action": action, "outcome": "rejected"})
		return err
	}
	p.assertPrice(action, before)
	if err := p.commit(); err != nil {
		metricActions().AddWithLabel(1, map[string]string{"action": action, "outcome": "error"})
		return err
	}
	metricActions().AddWithLabel(1, map[string]string{"action": action, "outcome": "ok"})
	return nil
}

func (p *Pool) commit() error {
	bulk := p.db.Bulk()
	if err := p.ledger.Commit(bulk); err != nil {
		p.rollback()
		return err
	}
	if err := p.stats.Commit(bulk); err != nil {
		p.rollback()
		return err
	}
	if err := bulk.Write(); err != nil {
		p.rollback()
		return errors.Wrap(err, "write pool batch")
	}
	p.stats.Committed()
	if p.due != nil {
		p.rewards.Distributed(p.due.epoch, p.due.amount)
		p.due = nil
	}
	p.updateGauges()
	return nil
}

func (p *Pool) rollback() {
	p.ledger.Rollback()
	p.stats.Rollback()
	p.due = nil
}

// assertPrice panics when the share price went down since before.
func (p *Pool) assertPrice(action string, before sharemath.Totals) {
	after := p.stats.Totals()
	if !sharemath.PriceNotBelow(before, after) {
		logger.Error("share price decreased",
			"action", action,
			"stakedBefore", before.StakedBalance,
			"sharesBefore", before.Shares,
			"stakedAfter", after.StakedBalance,
			"sharesAfter", after.Shares,
		)
		panic("share price decreased after " + action)
	}
}

func (p *Pool) updateGauges() {
	totals := p.stats.Totals()
	metricTotals().SetWithLabel(saturate(totals.StakedBalance), map[string]string{"total": "staked"})
	metricTotals().SetWithLabel(saturate(totals.Shares), map[string]string{"total": "shares"})
	metricPending().Set(int64(len(p.pending)))
}

// saturate converts v for int64 meters.
func saturate(v *uint256.Int) int64 {
	if v.IsUint64() && v.Uint64() <= 1<<63-1 {
		return int64(v.Uint64())
	}
	return 1<<63 - 1
}
