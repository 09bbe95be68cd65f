// Copyright 2024 The walletkit Authors
// This file is part of the walletkit library.
//
// The walletkit library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The walletkit library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the walletkit library. If not, see <http://www.gnu.org/licenses/>.

// Package handlers is the generic multi-currency handler registry named as
// an external collaborator of the sync core (spec.md §1, §2): a mapping
// from a currency code to the pair of things a Sync Dispatcher needs to
// operate on that currency's wallet — its chain parameter table and its
// wallet collaborator.
package handlers

import (
	"fmt"
	"sort"
	stdsync "sync"

	"github.com/brdwallet/walletkit/sync"
)

// Handler bundles the two collaborators a Sync Dispatcher consumes for one
// currency (spec.md §4.E): chain parameters and a wallet.
type Handler struct {
	Currency    string
	ChainParams sync.ChainParams
	Wallet      sync.Wallet
}

// Registry maps a currency code (e.g. "btc", "eth") to its Handler. Safe
// for concurrent use.
type Registry struct {
	mu       stdsync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for a currency code.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Currency] = h
}

// Get returns the handler registered for currency, or (Handler{}, false)
// if none is registered.
func (r *Registry) Get(currency string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[currency]
	return h, ok
}

// MustGet is Get, panicking if currency is unregistered. Intended for
// startup wiring (cmd/walletsyncd), not for steady-state request handling.
func (r *Registry) MustGet(currency string) Handler {
	h, ok := r.Get(currency)
	if !ok {
		panic(fmt.Sprintf("handlers: no handler registered for currency %q", currency))
	}
	return h
}

// Currencies returns every registered currency code, sorted.
func (r *Registry) Currencies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for c := range r.handlers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
