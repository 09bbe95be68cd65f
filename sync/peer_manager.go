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
	stdsync "sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/brdwallet/walletkit/log"
)

// recentSetCacheSize bounds the recently-seen block/peer digest caches so a
// burst of identical saveBlocks/savePeers callbacks from the P2P manager
// collapses to a single AddBlocks/AddPeers event instead of re-emitting
// unchanged state on every callback (spec.md §4.C).
const recentSetCacheSize = 4096

// PeerSyncManager is a thin adapter translating a PeerManager's seven
// callbacks into the unified event model (spec.md §4.C).
type PeerSyncManager struct {
	mu stdsync.Mutex

	wallet Wallet
	peers  PeerManager
	sink   Sink

	networkBlockHeight uint64
	isConnected        bool
	isFullScan         bool

	seenBlocks *lru.Cache
	seenPeers  *lru.Cache

	pendingPublishes map[uuid.UUID]publishContext
}

// publishContext is the move-once message a Submit call hands to the peer
// manager; PublishTx returns it exactly once via its completion callback
// (spec.md §9, "Callback context lifetime").
type publishContext struct {
	tx []byte
}

// NewPeerSyncManager constructs a manager bound to peers, wiring the seven
// PeerManager callback translations immediately.
func NewPeerSyncManager(wallet Wallet, peers PeerManager, sink Sink) *PeerSyncManager {
	seenBlocks, _ := lru.New(recentSetCacheSize)
	seenPeers, _ := lru.New(recentSetCacheSize)

	m := &PeerSyncManager{
		wallet:           wallet,
		peers:            peers,
		sink:             sink,
		seenBlocks:       seenBlocks,
		seenPeers:        seenPeers,
		pendingPublishes: make(map[uuid.UUID]publishContext),
	}
	peers.Bind(PeerCallbacks{
		SyncStarted:        m.onSyncStarted,
		SyncStopped:        m.onSyncStopped,
		TxStatusUpdate:     m.onTxStatusUpdate,
		SaveBlocks:         m.onSaveBlocks,
		SavePeers:          m.onSavePeers,
		NetworkIsReachable: m.onNetworkIsReachable,
		ThreadCleanup:      m.onThreadCleanup,
	})
	return m
}

func (m *PeerSyncManager) emit(e Event) {
	if m.sink != nil {
		m.sink.Notify(e)
	}
}

// GetBlockHeight returns the last known networkBlockHeight.
func (m *PeerSyncManager) GetBlockHeight() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.networkBlockHeight
}

// Connect delegates to the peer manager; connection-state events arrive
// through the onSyncStarted/onSyncStopped/onTxStatusUpdate translations.
func (m *PeerSyncManager) Connect() error {
	return m.peers.Connect()
}

// Disconnect delegates to the peer manager.
func (m *PeerSyncManager) Disconnect() {
	m.peers.Disconnect()
}

// ScanToDepth rescans via the peer manager's three rescan primitives,
// mirroring client-mode depth semantics (spec.md §4.C, §6).
func (m *PeerSyncManager) ScanToDepth(depth Depth, lastConfirmedSend uint64) {
	switch depth {
	case DepthLow:
		m.peers.RescanFromBlockNumber(lastConfirmedSend)
	case DepthMedium:
		m.peers.RescanFromLastHardcodedCheckpoint()
	default: // DepthHigh
		m.peers.Rescan()
	}
}

// Submit copies tx (ownership passes to the peer manager) and publishes it,
// reporting completion via TxnSubmitted.
func (m *PeerSyncManager) Submit(tx []byte) {
	cp := make([]byte, len(tx))
	copy(cp, tx)

	id := uuid.New()
	m.mu.Lock()
	m.pendingPublishes[id] = publishContext{tx: cp}
	m.mu.Unlock()

	m.peers.PublishTx(cp, func(err error) {
		m.mu.Lock()
		ctx, ok := m.pendingPublishes[id]
		delete(m.pendingPublishes, id)
		m.mu.Unlock()
		if !ok {
			return
		}
		reason := int32(0)
		if err != nil {
			reason = ErrTransportFailure
		}
		m.emit(Event{Kind: TxnSubmitted, Tx: ctx.tx, Reason: reason})
	})
}

// TickTock samples the peer manager's sync progress, emitting SyncProgress
// strictly on (0, 100) while connected and mid full-scan (spec.md §4.C,
// §9: endpoints 0 and 100 are encoded by SyncStarted/SyncStopped{0}).
func (m *PeerSyncManager) TickTock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isConnected || !m.isFullScan {
		return
	}

	pct := m.peers.SyncProgress()
	if pct <= 0 || pct >= 100 {
		return
	}
	m.emit(Event{Kind: SyncProgress, Timestamp: m.peers.LastBlockTimestamp(), Percent: pct})
}

// Free disconnects the peer manager, releasing its handle.
func (m *PeerSyncManager) Free() {
	m.peers.Disconnect()
}

// Rescan triggers an unconditional full rescan via the peer manager, the
// P2P-mode counterpart of the client manager's scan operation (spec.md §6).
func (m *PeerSyncManager) Rescan() {
	m.peers.Rescan()
}

// FullScanReport reports whether a full scan is currently in progress and,
// if so, the peer manager's last sampled progress percentage (spec.md §6,
// "p2pFullScanReport"). progress is only meaningful when fullScan is true.
func (m *PeerSyncManager) FullScanReport() (fullScan bool, progress float64) {
	m.mu.Lock()
	fullScan = m.isFullScan
	m.mu.Unlock()
	if !fullScan {
		return false, 0
	}
	return true, m.peers.SyncProgress()
}

func (m *PeerSyncManager) onSyncStarted() {
	m.mu.Lock()
	if !m.isConnected {
		m.isConnected = true
		m.emit(Event{Kind: Connected})
	}
	if m.isFullScan {
		m.emit(Event{Kind: SyncStopped, Reason: ErrTransportFailure})
	}
	m.isFullScan = true
	m.emit(Event{Kind: SyncStarted})
	m.mu.Unlock()
}

func (m *PeerSyncManager) onSyncStopped(reason int32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	connected := m.peers.ConnectStatus()
	if m.isFullScan {
		m.emit(Event{Kind: SyncStopped, Reason: reason})
		m.isFullScan = false
	}
	if m.isConnected && !connected {
		m.isConnected = false
		m.emit(Event{Kind: Disconnected})
	}
}

func (m *PeerSyncManager) onTxStatusUpdate() {
	m.mu.Lock()
	height := m.peers.LastBlockHeight()
	advanced := height > m.networkBlockHeight
	if advanced {
		m.networkBlockHeight = height
	}

	connected := m.peers.ConnectStatus()
	if !connected && m.isConnected {
		if m.isFullScan {
			m.emit(Event{Kind: SyncStopped, Reason: ErrTransportFailure})
			m.isFullScan = false
		}
		m.isConnected = false
		m.emit(Event{Kind: Disconnected})
	}
	if advanced {
		m.emit(Event{Kind: BlockHeightUpdated, Height: height})
	}
	m.mu.Unlock()

	m.emit(Event{Kind: TxnsUpdated})
}

func (m *PeerSyncManager) onSaveBlocks(replace bool, blocks [][]byte) {
	kind := AddBlocks
	if replace {
		kind = SetBlocks
		m.seenBlocks.Purge()
	}

	fresh := make([][]byte, 0, len(blocks))
	for _, b := range blocks {
		key := string(b)
		if _, ok := m.seenBlocks.Get(key); ok {
			continue
		}
		m.seenBlocks.Add(key, struct{}{})
		fresh = append(fresh, b)
	}
	if !replace && len(fresh) == 0 {
		return
	}
	if replace {
		fresh = blocks
	}
	m.emit(Event{Kind: kind, Blocks: fresh})
}

func (m *PeerSyncManager) onSavePeers(replace bool, peers [][]byte) {
	kind := AddPeers
	if replace {
		kind = SetPeers
		m.seenPeers.Purge()
	}

	fresh := make([][]byte, 0, len(peers))
	for _, p := range peers {
		key := string(p)
		if _, ok := m.seenPeers.Get(key); ok {
			continue
		}
		m.seenPeers.Add(key, struct{}{})
		fresh = append(fresh, p)
	}
	if !replace && len(fresh) == 0 {
		return
	}
	if replace {
		fresh = peers
	}
	m.emit(Event{Kind: kind, Peers: fresh})
}

// onNetworkIsReachable always answers true; the embedding host supplies the
// real network-reachability signal (spec.md §4.C).
func (m *PeerSyncManager) onNetworkIsReachable() bool { return true }

func (m *PeerSyncManager) onThreadCleanup() {
	log.Debug("sync: peer manager thread cleanup")
}
