// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger keeps one record per delegator.
//
// Writes are staged in memory and reach the store only through Commit, which lets a pool
// entry point apply all of its changes in a single batch or drop them with Rollback.
package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/thor"
)

const accountBucket = kv.Bucket("a")

// Entry is an account paired with its owner.
type Entry struct {
	Address thor.Address
	Account *Account
}

type Ledger struct {
	store  kv.Store
	cache  *cache.LRU
	staged map[thor.Address]*Account
}

// New creates a ledger on top of db.
func New(db kv.Store, cacheSize int) (*Ledger, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	c, err := cache.NewLRU(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		store:  accountBucket.NewStore(db),
		cache:  c,
		staged: make(map[thor.Address]*Account),
	}, nil
}

// GetOrDefault returns a copy of the account, or a zero account if there is none.
func (l *Ledger) GetOrDefault(addr thor.Address) (*Account, error) {
	if acc, ok := l.staged[addr]; ok {
		return acc.Clone(), nil
	}
	v, err := l.cache.GetOrLoad(addr, func(any) (any, error) {
		return l.load(addr)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Account).Clone(), nil
}

func (l *Ledger) load(addr thor.Address) (*Account, error) {
	data, err := l.store.Get(addr.Bytes())
	if err != nil {
		if l.store.IsNotFound(err) {
			return NewAccount(), nil
		}
		return nil, errors.Wrap(err, "get account")
	}
	var acc Account
	if err := rlp.DecodeBytes(data, &acc); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return acc.normalize(), nil
}

// Save stages the account. Empty accounts are staged for removal.
func (l *Ledger) Save(addr thor.Address, acc *Account) {
	l.staged[addr] = acc.Clone().normalize()
}

// Dirty returns whether there are staged changes.
func (l *Ledger) Dirty() bool {
	return len(l.staged) > 0
}

// Commit writes staged changes into w and clears them.
// Cached entries for the written accounts are dropped, so a failed batch write
// leaves readers with the previously stored values.
func (l *Ledger) Commit(w kv.Putter) error {
	putter := accountBucket.NewPutter(w)
	for addr, acc := range l.staged {
		l.cache.Remove(addr)
		if acc.IsEmpty() {
			if err := putter.Delete(addr.Bytes()); err != nil {
				return errors.Wrap(err, "delete account")
			}
			continue
		}
		data, err := rlp.EncodeToBytes(acc)
		if err != nil {
			return errors.Wrap(err, "encode account")
		}
		if err := putter.Put(addr.Bytes(), data); err != nil {
			return errors.Wrap(err, "put account")
		}
	}
	l.staged = make(map[thor.Address]*Account)
	return nil
}

// Rollback drops staged changes.
func (l *Ledger) Rollback() {
	l.staged = make(map[thor.Address]*Account)
}

// Iterate returns up to limit committed accounts, skipping the first offset, in address order.
func (l *Ledger) Iterate(offset, limit uint64) ([]Entry, error) {
	iter := l.store.Iterate(kv.Range{})
	defer iter.Release()

	var (
		entries []Entry
		index   uint64
	)
	for uint64(len(entries)) < limit && iter.Next() {
		if index < offset {
			index++
			continue
		}
		index++
		var acc Account
		if err := rlp.DecodeBytes(iter.Value(), &acc); err != nil {
			return nil, errors.Wrap(err, "decode account")
		}
		entries = append(entries, Entry{
			Address: thor.BytesToAddress(iter.Key()),
			Account: acc.normalize(),
		})
	}
	return entries, iter.Error()
}

// Count returns the number of committed accounts.
func (l *Ledger) Count() (uint64, error) {
	iter := l.store.Iterate(kv.Range{})
	defer iter.Release()

	var n uint64
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}
