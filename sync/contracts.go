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

package sync

import (
	"github.com/brdwallet/walletkit/accounts"
	"github.com/brdwallet/walletkit/chainparams"
	"github.com/brdwallet/walletkit/common"
)

// Wallet is the borrowed collaborator a ClientSyncManager or
// PeerSyncManager reconciles against. It is never owned by the manager
// (spec.md §3): the manager only ever reads addresses and writes
// transactions through this interface. accounts.HDWallet satisfies it
// structurally.
type Wallet interface {
	Addresses() []accounts.Account
	UnusedAddresses(chain accounts.Chain, gapLimit int) ([]accounts.Account, error)
	FirstUnused(chain accounts.Chain) (accounts.Account, error)
	HasTransaction(hash common.Hash) bool
	RegisterTransaction(raw []byte, blockHeight, timestamp uint64) (common.Hash, error)
	UpdateTransaction(hash common.Hash, blockHeight, timestamp uint64) error
	Transactions() []*accounts.Transaction
}

// ChainParams supplies the checkpoint lookups a manager consults to derive
// initBlockHeight and to implement Medium-depth rescans (spec.md §4.E).
// chainparams.Params satisfies it structurally.
type ChainParams interface {
	CheckpointBefore(unixTime int64) (chainparams.Checkpoint, bool)
	CheckpointBeforeBlockNumber(blockNumber uint64) (chainparams.Checkpoint, bool)
}

// ClientCallbacks is the cooperative remote indexer a ClientSyncManager
// drives. Calls are fire-and-forget from the manager's perspective: the
// indexer answers asynchronously through the manager's Announce* methods,
// which may arrive on any goroutine.
type ClientCallbacks interface {
	GetBlockNumber(requestID uint64)
	// GetTransactions is given addresses rendered as strings: the union of
	// native and legacy encodings of the wallet's known addresses (spec.md
	// §9 — "the same address in two encodings counts as two entries to be
	// queried").
	GetTransactions(addresses []string, begHeight, endHeight uint64, requestID uint64)
	SubmitTransaction(raw []byte, hash common.Hash, requestID uint64)
}

// PeerCallbacks is the set of seven translations a PeerManager drives back
// into a PeerSyncManager (spec.md §4.C). Each field is optional from the
// peer manager's point of view — NewPeerSyncManager wires all seven through
// PeerManager.Bind.
type PeerCallbacks struct {
	SyncStarted        func()
	SyncStopped        func(reason int32)
	TxStatusUpdate     func()
	SaveBlocks         func(replace bool, blocks [][]byte)
	SavePeers          func(replace bool, peers [][]byte)
	NetworkIsReachable func() bool
	ThreadCleanup      func()
}

// PeerManager is the P2P collaborator a PeerSyncManager adapts (spec.md
// §4.E). It is exclusively owned by the PeerSyncManager that binds it.
type PeerManager interface {
	Connect() error
	Disconnect()
	Rescan()
	RescanFromBlockNumber(height uint64)
	RescanFromLastHardcodedCheckpoint()
	PublishTx(tx []byte, cb func(err error))
	LastBlockHeight() uint64
	LastBlockTimestamp() uint64
	SyncProgress() float64 // 0..100
	ConnectStatus() bool

	// Bind registers the seven callback translations described in §4.C.
	// Implementations must invoke them asynchronously, never from within
	// a call the PeerSyncManager is still making (spec.md §9, "Sinks must
	// not call back into the manager synchronously").
	Bind(cb PeerCallbacks)
}
