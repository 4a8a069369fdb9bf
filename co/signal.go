// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co holds small concurrency helpers.
package co

import (
	"sync"
)

// Signal is a channel based rendezvous point, usable in select statements where sync.Cond is not.
//
// Notify wakes one receiver of Notified. It is remembered when nobody is receiving, and
// repeated notifies collapse into one. Broadcast closes the channel returned by Released,
// releasing everyone who obtained it before the call.
// The zero value is ready to use.
type Signal struct {
	mu      sync.Mutex
	notify  chan struct{}
	release chan struct{}
}

func (s *Signal) lazyInit() {
	if s.notify == nil {
		s.notify = make(chan struct{}, 1)
	}
	if s.release == nil {
		s.release = make(chan struct{})
	}
}

// Notify wakes one receiver of Notified.
func (s *Signal) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lazyInit()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Notified returns the channel delivering Notify events.
func (s *Signal) Notified() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lazyInit()
	return s.notify
}

// Released returns a channel closed by the next Broadcast. Obtain it before checking the
// condition being waited for, or a broadcast in between is missed.
func (s *Signal) Released() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lazyInit()
	return s.release
}

// Broadcast releases every holder of the current Released channel.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lazyInit()
	close(s.release)
	s.release = make(chan struct{})
}
