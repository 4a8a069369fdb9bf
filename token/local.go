// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/co"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "token")

// balances are keyed by address, the supply by a key no address can collide with
const tokenBucket = kv.Bucket("t")

var supplyKey = []byte("supply")

var (
	errStopped             = errors.New("issuer stopped")
	errInsufficientBalance = errors.New("insufficient token balance")
)

// Policy decides whether a request fails before it is applied. A nil Policy never fails.
type Policy func(req *Request) error

// Local is an in-process issuer. Requests are queued and settled in order by a worker goroutine.
// Balances and supply are persisted, each settlement in one batch.
type Local struct {
	mu       sync.Mutex
	queue    []*Request
	inflight int
	store    kv.Store
	balances map[thor.Address]*uint256.Int // loaded balances
	supply   *uint256.Int
	policy   Policy
	started  bool
	stopped  bool

	wake co.Signal
	idle co.Signal
	quit chan struct{}
	wg   sync.WaitGroup
}

var _ Issuer = (*Local)(nil)

// NewLocal creates an issuer keeping its balances in db.
func NewLocal(db kv.Store) (*Local, error) {
	l := &Local{
		store:    tokenBucket.NewStore(db),
		balances: make(map[thor.Address]*uint256.Int),
		quit:     make(chan struct{}),
	}
	supply, err := l.load(supplyKey)
	if err != nil {
		return nil, errors.WithMessage(err, "token supply")
	}
	l.supply = supply
	return l, nil
}

// load reads an amount, missing keys are zero.
func (l *Local) load(key []byte) (*uint256.Int, error) {
	data, err := l.store.Get(key)
	if err != nil {
		if l.store.IsNotFound(err) {
			return new(uint256.Int), nil
		}
		return nil, errors.Wrap(err, "get")
	}
	v := new(uint256.Int)
	if err := rlp.DecodeBytes(data, v); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return v, nil
}

// balance must be called with l.mu held.
func (l *Local) balance(addr thor.Address) (*uint256.Int, error) {
	if bal, ok := l.balances[addr]; ok {
		return bal, nil
	}
	bal, err := l.load(addr.Bytes())
	if err != nil {
		return nil, errors.WithMessagef(err, "token balance %v", addr)
	}
	l.balances[addr] = bal
	return bal, nil
}

// SetPolicy replaces the failure policy.
func (l *Local) SetPolicy(p Policy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy = p
}

// Start launches the worker which delivers receipts to cb.
func (l *Local) Start(cb Callback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	l.wg.Go(func() { l.loop(cb) })
}

// Stop terminates the worker. Queued requests are dropped without receipts.
func (l *Local) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	dropped := len(l.queue)
	l.queue = nil
	l.inflight -= dropped
	l.mu.Unlock()

	close(l.quit)
	l.wg.Wait()
	l.idle.Broadcast()
	if dropped > 0 {
		logger.Warn("dropped queued token requests", "count", dropped)
	}
}

func (l *Local) RequestMint(req *Request) error {
	return l.enqueue(KindMint, req)
}

func (l *Local) RequestBurn(req *Request) error {
	return l.enqueue(KindBurn, req)
}

func (l *Local) enqueue(kind Kind, req *Request) error {
	if req.Kind != kind {
		return errors.Errorf("unexpected request kind %v", req.Kind)
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return errStopped
	}
	l.queue = append(l.queue, req)
	l.inflight++
	l.mu.Unlock()

	l.wake.Notify()
	return nil
}

func (l *Local) pop() *Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	req := l.queue[0]
	l.queue = l.queue[1:]
	return req
}

func (l *Local) loop(cb Callback) {
	for {
		for req := l.pop(); req != nil; req = l.pop() {
			receipt := NewReceipt(req, l.settle(req))
			logger.Debug("token request settled", "id", req.ID, "kind", req.Kind, "amount", req.Amount, "success", receipt.Success)
			cb(receipt)
			l.done()
		}
		select {
		case <-l.quit:
			return
		case <-l.wake.Notified():
		}
	}
}

func (l *Local) done() {
	l.mu.Lock()
	l.inflight--
	idle := l.inflight == 0
	l.mu.Unlock()
	if idle {
		l.idle.Broadcast()
	}
}

func (l *Local) settle(req *Request) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.policy != nil {
		if err := l.policy(req); err != nil {
			return err
		}
	}
	bal, err := l.balance(req.Account)
	if err != nil {
		return err
	}
	var newBal, newSupply uint256.Int
	switch req.Kind {
	case KindMint:
		if _, overflow := newSupply.AddOverflow(l.supply, req.Amount); overflow {
			return errors.New("token supply overflow")
		}
		newBal.Add(bal, req.Amount)
	case KindBurn:
		if bal.Lt(req.Amount) {
			return errInsufficientBalance
		}
		newBal.Sub(bal, req.Amount)
		newSupply.Sub(l.supply, req.Amount)
	default:
		return errors.Errorf("unexpected request kind %v", req.Kind)
	}

	bulk := l.store.Bulk()
	if newBal.IsZero() {
		err = bulk.Delete(req.Account.Bytes())
	} else {
		err = bulk.Put(req.Account.Bytes(), mustEncode(&newBal))
	}
	if err == nil {
		err = bulk.Put(supplyKey, mustEncode(&newSupply))
	}
	if err == nil {
		err = bulk.Write()
	}
	if err != nil {
		logger.Error("failed to persist token balance", "id", req.ID, "err", err)
		return errors.Wrap(err, "persist token balance")
	}

	l.balances[req.Account] = &newBal
	l.supply = &newSupply
	return nil
}

func mustEncode(v *uint256.Int) []byte {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		panic(err)
	}
	return data
}

// WaitIdle blocks until every queued request has been settled and delivered.
func (l *Local) WaitIdle() {
	for {
		released := l.idle.Released()
		l.mu.Lock()
		n := l.inflight
		l.mu.Unlock()
		if n == 0 {
			return
		}
		<-released
	}
}

// BalanceOf returns the token balance of addr.
func (l *Local) BalanceOf(addr thor.Address) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bal, err := l.balance(addr)
	if err != nil {
		return nil, err
	}
	return bal.Clone(), nil
}

// TotalSupply returns the sum of all balances.
func (l *Local) TotalSupply() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.supply.Clone()
}
