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

import "github.com/brdwallet/walletkit/common"

// Manager is a mode-polymorphic facade over the two concrete sync
// managers. Mode is fixed at construction and never changes; it is the
// stable external surface a wallet holds for its lifetime (spec.md §4.A).
type Manager struct {
	mode   Mode
	client *ClientSyncManager
	peer   *PeerSyncManager
}

// NewClientManager constructs a Manager in BrdOnly mode.
func NewClientManager(wallet Wallet, chainParams ChainParams, client ClientCallbacks, sink Sink, earliestKeyTime int64, blockHeight uint64) *Manager {
	return &Manager{
		mode:   BrdOnly,
		client: NewClientSyncManager(wallet, chainParams, client, sink, earliestKeyTime, blockHeight),
	}
}

// NewPeerManager constructs a Manager in P2POnly mode.
func NewPeerManager(wallet Wallet, peers PeerManager, sink Sink) *Manager {
	return &Manager{
		mode: P2POnly,
		peer: NewPeerSyncManager(wallet, peers, sink),
	}
}

// Mode reports the manager's fixed mode.
func (m *Manager) Mode() Mode { return m.mode }

// GetBlockHeight dispatches to the concrete variant.
func (m *Manager) GetBlockHeight() uint64 {
	if m.mode == BrdOnly {
		return m.client.GetBlockHeight()
	}
	return m.peer.GetBlockHeight()
}

// Connect dispatches to the concrete variant.
func (m *Manager) Connect() {
	if m.mode == BrdOnly {
		m.client.Connect()
		return
	}
	if err := m.peer.Connect(); err != nil {
		return
	}
}

// Disconnect dispatches to the concrete variant.
func (m *Manager) Disconnect() {
	if m.mode == BrdOnly {
		m.client.Disconnect()
		return
	}
	m.peer.Disconnect()
}

// ScanToDepth dispatches to the concrete variant. lastConfirmedSend is only
// consulted in P2P mode's DepthLow path; client mode derives it internally
// from the wallet.
func (m *Manager) ScanToDepth(depth Depth, lastConfirmedSend uint64) {
	if m.mode == BrdOnly {
		m.client.ScanToDepth(depth)
		return
	}
	m.peer.ScanToDepth(depth, lastConfirmedSend)
}

// Submit dispatches to the concrete variant.
func (m *Manager) Submit(tx []byte, hash common.Hash) {
	if m.mode == BrdOnly {
		m.client.Submit(tx, hash)
		return
	}
	m.peer.Submit(tx)
}

// TickTock dispatches to the concrete variant.
func (m *Manager) TickTock() {
	if m.mode == BrdOnly {
		m.client.TickTock()
		return
	}
	m.peer.TickTock()
}

// Free dispatches to the concrete variant.
func (m *Manager) Free() {
	if m.mode == BrdOnly {
		m.client.Free()
		return
	}
	m.peer.Free()
}

// Scan triggers a scan of the concrete variant: in BrdOnly mode this is the
// same updateBlockNumber+updateTransactions trigger TickTock uses, which
// starts no new scan while one is in progress, and in P2POnly mode it is
// the peer manager's unconditional full rescan (spec.md §4.A, §6).
func (m *Manager) Scan() {
	if m.mode == BrdOnly {
		m.client.updateBlockNumber()
		m.client.updateTransactions()
		return
	}
	m.peer.Rescan()
}

// P2PFullScanReport surfaces the P2P-mode manager's full-scan state and last
// sampled progress (spec.md §6, "p2pFullScanReport"). In BrdOnly mode it
// always reports no scan in progress; client mode's scan state is observed
// through its own events instead.
func (m *Manager) P2PFullScanReport() (fullScan bool, progress float64) {
	if m.mode != P2POnly {
		return false, 0
	}
	return m.peer.FullScanReport()
}

// AnnounceGetBlockNumber is a client-only callback passthrough; it is
// silently ignored in P2POnly mode (spec.md §4.A).
func (m *Manager) AnnounceGetBlockNumber(requestID uint64, height uint64) {
	if m.mode != BrdOnly {
		return
	}
	m.client.AnnounceGetBlockNumber(requestID, height)
}

// AnnounceGetTransactionsItem is a client-only callback passthrough; it is
// silently ignored in P2POnly mode (spec.md §4.A).
func (m *Manager) AnnounceGetTransactionsItem(requestID uint64, raw []byte, blockHeight, timestamp uint64) {
	if m.mode != BrdOnly {
		return
	}
	m.client.AnnounceGetTransactionsItem(requestID, raw, blockHeight, timestamp)
}

// AnnounceGetTransactionsDone is a client-only callback passthrough; it is
// silently ignored in P2POnly mode (spec.md §4.A).
func (m *Manager) AnnounceGetTransactionsDone(requestID uint64, success bool) {
	if m.mode != BrdOnly {
		return
	}
	m.client.AnnounceGetTransactionsDone(requestID, success)
}

// AnnounceSubmitTransaction is a client-only callback passthrough; it is
// silently ignored in P2POnly mode (spec.md §4.A).
func (m *Manager) AnnounceSubmitTransaction(requestID uint64, tx []byte, err error) {
	if m.mode != BrdOnly {
		return
	}
	m.client.AnnounceSubmitTransaction(requestID, tx, err)
}

// Client returns the BrdOnly-mode callback surface (AnnounceGetBlockNumber,
// AnnounceGetTransactionsItem, AnnounceGetTransactionsDone,
// AnnounceSubmitTransaction). It returns nil in P2POnly mode: per spec.md
// §4.A, client-only announce calls made after a mode change are legal and
// silently ignored by a caller checking for nil here, rather than panicking
// — only an outright wrong-variant *construction* (§7) is a programming
// fault.
func (m *Manager) Client() *ClientSyncManager {
	if m.mode != BrdOnly {
		return nil
	}
	return m.client
}
