// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/pool"
	"github.com/vechain/stakepool/pool/sharemath"
	"github.com/vechain/stakepool/thor"
)

const defaultEpochDuration = 10 * time.Minute

// Config is the pool configuration file.
type Config struct {
	Owner          string             `yaml:"owner"`
	RewardFee      sharemath.Fraction `yaml:"rewardFee"`
	UnlockDelay    uint64             `yaml:"unlockDelay"`
	EpochDuration  time.Duration      `yaml:"epochDuration"`
	Genesis        time.Time          `yaml:"genesis"`
	RewardPerEpoch string             `yaml:"rewardPerEpoch"`
	RewardBudget   string             `yaml:"rewardBudget"`
	CacheSize      int                `yaml:"cacheSize"`
	HistoryLimit   int                `yaml:"historyLimit"`
}

func defaultConfig() *Config {
	return &Config{
		RewardFee:     sharemath.Fraction{Numerator: 0, Denominator: 1},
		UnlockDelay:   pool.DefaultUnlockDelay,
		EpochDuration: defaultEpochDuration,
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// applyFlags overrides config values with the flags explicitly set.
func (c *Config) applyFlags(ctx *cli.Context) error {
	if ctx.IsSet(ownerFlag.Name) {
		c.Owner = ctx.String(ownerFlag.Name)
	}
	if ctx.IsSet(rewardFeeFlag.Name) {
		f, err := parseFraction(ctx.String(rewardFeeFlag.Name))
		if err != nil {
			return errors.WithMessage(err, rewardFeeFlag.Name)
		}
		c.RewardFee = f
	}
	if ctx.IsSet(unlockDelayFlag.Name) {
		c.UnlockDelay = ctx.Uint64(unlockDelayFlag.Name)
	}
	if ctx.IsSet(epochDurationFlag.Name) {
		c.EpochDuration = ctx.Duration(epochDurationFlag.Name)
	}
	if ctx.IsSet(rewardPerEpochFlag.Name) {
		c.RewardPerEpoch = ctx.String(rewardPerEpochFlag.Name)
	}
	if ctx.IsSet(rewardBudgetFlag.Name) {
		c.RewardBudget = ctx.String(rewardBudgetFlag.Name)
	}
	return nil
}

// parseFraction parses "n/d", or a bare "n" meaning n/1.
func parseFraction(s string) (sharemath.Fraction, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		den = "1"
	}
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 32)
	if err != nil {
		return sharemath.Fraction{}, errors.Wrap(err, "numerator")
	}
	d, err := strconv.ParseUint(strings.TrimSpace(den), 10, 32)
	if err != nil {
		return sharemath.Fraction{}, errors.Wrap(err, "denominator")
	}
	f := sharemath.Fraction{Numerator: uint32(n), Denominator: uint32(d)}
	return f, f.Validate()
}

func parseAmount(name, s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %q", name, s)
	}
	return v, nil
}

// poolParams is the validated form of Config.
type poolParams struct {
	pool           pool.Config
	epochDuration  time.Duration
	genesis        time.Time
	rewardPerEpoch *uint256.Int
	rewardBudget   *uint256.Int
}

func (c *Config) params() (*poolParams, error) {
	var owner thor.Address
	if c.Owner != "" {
		addr, err := thor.ParseAddress(c.Owner)
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		owner = *addr
	}
	if err := c.RewardFee.Validate(); err != nil {
		return nil, errors.WithMessage(err, "rewardFee")
	}
	if c.EpochDuration <= 0 {
		return nil, errors.New("epochDuration: must be positive")
	}
	perEpoch, err := parseAmount("rewardPerEpoch", c.RewardPerEpoch)
	if err != nil {
		return nil, err
	}
	budget, err := parseAmount("rewardBudget", c.RewardBudget)
	if err != nil {
		return nil, err
	}
	return &poolParams{
		pool: pool.Config{
			Owner:        owner,
			RewardFee:    c.RewardFee,
			UnlockDelay:  c.UnlockDelay,
			CacheSize:    c.CacheSize,
			HistoryLimit: c.HistoryLimit,
		},
		epochDuration:  c.EpochDuration,
		genesis:        c.Genesis,
		rewardPerEpoch: perEpoch,
		rewardBudget:   budget,
	}, nil
}
