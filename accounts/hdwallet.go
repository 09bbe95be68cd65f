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

package accounts

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil/hdkeychain"
	"github.com/tyler-smith/go-bip39"

	"github.com/brdwallet/walletkit/common"
	"github.com/brdwallet/walletkit/crypto"
)

// hdChain derives accounts along a single HD sequence (external or
// internal), caching every derived Account so re-deriving index i twice
// yields identical bytes.
type hdChain struct {
	key      *hdkeychain.ExtendedKey // m/0'/chain
	accounts []Account               // accounts[i] is index i on this chain
}

// Transaction is the minimal record package sync needs back from a wallet:
// a hash to dedupe on, a height/timestamp pair to update in place, and the
// per-tx predicates spec.md §4.E names ("amount-sent and validity").
type Transaction struct {
	Hash        common.Hash
	BlockHeight uint64 // 0 means unconfirmed
	Timestamp   uint64
	AmountSent  int64 // net value the wallet's own addresses sent, <=0 if none
	Valid       bool
}

// RawTransaction is the wire shape HDWallet expects from RegisterTransaction.
// Real address/script parsing is an out-of-scope external collaborator
// (spec.md §1); a deployed wallet would recover Touches/AmountSent/Valid by
// parsing the chain's native transaction format. This JSON envelope stands
// in for that parser so the wallet contract has a concrete, testable
// implementation.
type RawTransaction struct {
	Hash        common.Hash      `json:"hash"`
	Touches     []common.Address `json:"touches"`
	AmountSent  int64            `json:"amountSent"`
	Valid       bool             `json:"valid"`
}

// EncodeRawTransaction is the inverse of HDWallet's internal decode step;
// test fixtures and cmd/walletsyncd's demo indexer use it to build the
// []byte payloads that flow through announceGetTransactionsItem.
func EncodeRawTransaction(tx RawTransaction) []byte {
	b, _ := json.Marshal(tx)
	return b
}

// HDWallet derives addresses on demand from a BIP39 mnemonic along the
// breadwallet-style m/0'/chain/index hierarchy. It is not a production
// key-management implementation (no on-disk keystore, no mnemonic locking)
// — it exists so ClientSyncManager's gap-limit pre-roll step (spec.md §4.B
// step 2) has a real deterministic collaborator, and so cmd/walletsyncd has
// something runnable to drive. It satisfies package sync's Wallet contract.
type HDWallet struct {
	mu     sync.RWMutex
	params *chaincfg.Params
	chains map[Chain]*hdChain

	used map[common.Address]bool
	txs  map[common.Hash]*Transaction
}

// NewHDWallet derives the master key from mnemonic and returns a wallet
// ready to pre-roll addresses on both chains.
func NewHDWallet(mnemonic, passphrase string, params *chaincfg.Params) (*HDWallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("accounts: invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("accounts: derive master key: %w", err)
	}
	account, err := master.Derive(hdkeychain.HardenedKeyStart) // m/0'
	if err != nil {
		return nil, fmt.Errorf("accounts: derive account key: %w", err)
	}

	w := &HDWallet{
		params: params,
		chains: make(map[Chain]*hdChain, 2),
		used:   make(map[common.Address]bool),
		txs:    make(map[common.Hash]*Transaction),
	}
	for _, c := range []Chain{ExternalChain, InternalChain} {
		chainKey, err := account.Derive(uint32(c)) // m/0'/chain
		if err != nil {
			return nil, fmt.Errorf("accounts: derive %s chain key: %w", c, err)
		}
		w.chains[c] = &hdChain{key: chainKey}
	}
	return w, nil
}

// deriveIndex returns (deriving if necessary) the Account at the given
// index on chain c. Caller must hold w.mu.
func (w *HDWallet) deriveIndex(c Chain, index uint32) (Account, error) {
	tree := w.chains[c]
	for uint32(len(tree.accounts)) <= index {
		child, err := tree.key.Derive(uint32(len(tree.accounts)))
		if err != nil {
			return Account{}, fmt.Errorf("accounts: derive %s/%d: %w", c, len(tree.accounts), err)
		}
		pub, err := child.ECPubKey()
		if err != nil {
			return Account{}, fmt.Errorf("accounts: derive %s/%d pubkey: %w", c, len(tree.accounts), err)
		}
		var hash160 [20]byte
		copy(hash160[:], crypto.Hash160(pub.SerializeCompressed()))
		tree.accounts = append(tree.accounts, Account{
			Hash160: hash160,
			Chain:   c,
			Index:   uint32(len(tree.accounts)),
			params:  w.params,
		})
	}
	return tree.accounts[index], nil
}

// Addresses returns every address derived so far on both chains.
func (w *HDWallet) Addresses() []Account {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Account, 0)
	for _, c := range []Chain{ExternalChain, InternalChain} {
		out = append(out, w.chains[c].accounts...)
	}
	return out
}

// UnusedAddresses ensures gapLimit consecutive unused addresses exist at the
// tail of chain c's derivation sequence (pre-rolling new ones as needed)
// and returns them, in index order (spec.md §4.B step 2).
func (w *HDWallet) UnusedAddresses(c Chain, gapLimit int) ([]Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tree := w.chains[c]
	// Walk backward from the current tail counting consecutive unused
	// addresses; derive more until the tail holds gapLimit unused ones.
	for {
		unused := 0
		for i := len(tree.accounts) - 1; i >= 0; i-- {
			if w.used[tree.accounts[i].CommonAddress()] {
				break
			}
			unused++
		}
		if unused >= gapLimit {
			break
		}
		if _, err := w.deriveIndex(c, uint32(len(tree.accounts))); err != nil {
			return nil, err
		}
	}

	unused := make([]Account, 0, gapLimit)
	for i := len(tree.accounts) - 1; i >= 0 && len(unused) < gapLimit; i-- {
		if w.used[tree.accounts[i].CommonAddress()] {
			break
		}
		unused = append(unused, tree.accounts[i])
	}
	// Restore ascending index order.
	for i, j := 0, len(unused)-1; i < j; i, j = i+1, j-1 {
		unused[i], unused[j] = unused[j], unused[i]
	}
	return unused, nil
}

// FirstUnused returns the lowest-index unused address on chain c, deriving
// one if every address derived so far is used. Its identity across two
// scan checkpoints is what ClientSyncManager compares to detect that the
// gap-limit window needs to widen (spec.md §4.B, §9).
func (w *HDWallet) FirstUnused(c Chain) (Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tree := w.chains[c]
	i := len(tree.accounts)
	for i > 0 && !w.used[tree.accounts[i-1].CommonAddress()] {
		i--
	}
	return w.deriveIndex(c, uint32(i))
}

// HasTransaction reports whether hash is already known to the wallet.
func (w *HDWallet) HasTransaction(hash common.Hash) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.txs[hash]
	return ok
}

// RegisterTransaction decodes raw (a RawTransaction envelope) and records
// it, marking every touched address used. Registration is idempotent: a
// second registration of the same hash only updates height/timestamp.
func (w *HDWallet) RegisterTransaction(raw []byte, blockHeight, timestamp uint64) (common.Hash, error) {
	var rt RawTransaction
	if err := json.Unmarshal(raw, &rt); err != nil {
		return common.Hash{}, fmt.Errorf("accounts: decode transaction: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, addr := range rt.Touches {
		w.used[addr] = true
	}
	if tx, ok := w.txs[rt.Hash]; ok {
		tx.BlockHeight = blockHeight
		tx.Timestamp = timestamp
		return rt.Hash, nil
	}
	w.txs[rt.Hash] = &Transaction{
		Hash:        rt.Hash,
		BlockHeight: blockHeight,
		Timestamp:   timestamp,
		AmountSent:  rt.AmountSent,
		Valid:       rt.Valid,
	}
	return rt.Hash, nil
}

// UpdateTransaction updates the height/timestamp of an already-known
// transaction in place.
func (w *HDWallet) UpdateTransaction(hash common.Hash, blockHeight, timestamp uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, ok := w.txs[hash]
	if !ok {
		return fmt.Errorf("accounts: unknown transaction %s", hash)
	}
	tx.BlockHeight = blockHeight
	tx.Timestamp = timestamp
	return nil
}

// Transactions returns every transaction the wallet currently knows about,
// in no particular order.
func (w *HDWallet) Transactions() []*Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Transaction, 0, len(w.txs))
	for _, tx := range w.txs {
		out = append(out, tx)
	}
	return out
}
