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

	"github.com/brdwallet/walletkit/accounts"
	"github.com/brdwallet/walletkit/common"
	"github.com/brdwallet/walletkit/log"
)

// ClientSyncManager discovers transactions by polling an external indexer,
// advancing the wallet's address gap-limit window as new transactions
// surface on previously-last-unused addresses (spec.md §4.B).
//
// All mutable state is protected by mu. State-transition events are
// notified to sink while mu is held; every other event, and all I/O to
// client, is performed after releasing it (spec.md §5).
type ClientSyncManager struct {
	mu stdsync.Mutex

	wallet      Wallet
	chainParams ChainParams
	client      ClientCallbacks
	sink        Sink

	initBlockHeight    uint64
	networkBlockHeight uint64
	syncedBlockHeight  uint64

	isConnected bool
	scan        *scanState

	requestIDCounter uint64 // getBlockNumber / submitTransaction ids
	scanIDCounter    uint64 // getTransactions / scanState.requestID ids

	destroyed bool
}

// NewClientSyncManager constructs a manager in the disconnected state.
// initBlockHeight is derived once from the chain parameter table's
// checkpoint immediately preceding (earliestKeyTime - OneWeekInSeconds)
// (spec.md §3), or zero if no such checkpoint exists.
func NewClientSyncManager(wallet Wallet, chainParams ChainParams, client ClientCallbacks, sink Sink, earliestKeyTime int64, blockHeight uint64) *ClientSyncManager {
	var init uint64
	if cp, ok := chainParams.CheckpointBefore(earliestKeyTime - OneWeekInSeconds); ok {
		init = uint64(cp.Height)
	}
	return &ClientSyncManager{
		wallet:             wallet,
		chainParams:        chainParams,
		client:             client,
		sink:               sink,
		initBlockHeight:    init,
		syncedBlockHeight:  init,
		networkBlockHeight: blockHeight,
	}
}

// emit notifies sink. Callers emitting a state-transition Kind must hold mu;
// callers emitting any other Kind must not (spec.md §5).
func (m *ClientSyncManager) emit(e Event) {
	if m.sink != nil {
		m.sink.Notify(e)
	}
}

func (m *ClientSyncManager) nextRequestID() uint64 {
	m.requestIDCounter++
	return m.requestIDCounter
}

func (m *ClientSyncManager) nextScanID() uint64 {
	m.scanIDCounter++
	return m.scanIDCounter
}

// GetBlockHeight returns the last known networkBlockHeight.
func (m *ClientSyncManager) GetBlockHeight() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.networkBlockHeight
}

// Connect is a no-op if already connected; otherwise it marks the manager
// connected, emits Connected, and kicks off the first block-number and
// transaction polls (spec.md §4.B).
func (m *ClientSyncManager) Connect() {
	m.mu.Lock()
	if m.isConnected {
		m.mu.Unlock()
		return
	}
	m.isConnected = true
	m.emit(Event{Kind: Connected})
	m.mu.Unlock()

	m.updateBlockNumber()
	m.updateTransactions()
}

// Disconnect is a no-op if already disconnected; otherwise it clears the
// connection, stops any in-flight full scan, and wipes scan state.
func (m *ClientSyncManager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isConnected {
		return
	}
	wasFullScan := m.scan != nil && m.scan.isFullScan
	m.isConnected = false
	m.scan = nil
	if wasFullScan {
		m.emit(Event{Kind: SyncStopped, Reason: ErrTransportFailure})
	}
	m.emit(Event{Kind: Disconnected})
}

// ScanToDepth forces a reconnect cycle the indexer must observe, rewinds
// syncedBlockHeight per depth, then restarts polling (spec.md §4.B, §6).
// It is a no-op while disconnected.
func (m *ClientSyncManager) ScanToDepth(depth Depth) {
	m.mu.Lock()
	if !m.isConnected {
		m.mu.Unlock()
		return
	}
	if m.scan != nil && m.scan.isFullScan {
		m.emit(Event{Kind: SyncStopped, Reason: ErrTransportFailure})
	}
	m.scan = nil
	m.emit(Event{Kind: Disconnected})
	m.emit(Event{Kind: Connected})

	switch depth {
	case DepthLow:
		if h := lastConfirmedSendHeight(m.wallet, m.networkBlockHeight); h != 0 {
			m.syncedBlockHeight = h
		} else {
			m.syncedBlockHeight = m.initBlockHeight
		}
	case DepthMedium:
		if cp, ok := m.chainParams.CheckpointBeforeBlockNumber(m.networkBlockHeight); ok {
			m.syncedBlockHeight = uint64(cp.Height)
		} else {
			m.syncedBlockHeight = m.initBlockHeight
		}
	default: // DepthHigh
		m.syncedBlockHeight = m.initBlockHeight
	}
	m.mu.Unlock()

	m.updateBlockNumber()
	m.updateTransactions()
}

// Submit serializes tx and invokes the client's submitTransaction callback
// under a fresh request id; while disconnected it synthesizes a failed
// TxnSubmitted immediately and never calls the client (spec.md §4.B, §7).
func (m *ClientSyncManager) Submit(tx []byte, hash common.Hash) {
	m.mu.Lock()
	if !m.isConnected {
		m.mu.Unlock()
		m.emit(Event{Kind: TxnSubmitted, Tx: tx, Reason: ErrTransportFailure})
		return
	}
	rid := m.nextRequestID()
	m.mu.Unlock()

	m.client.SubmitTransaction(tx, hash, rid)
}

// AnnounceSubmitTransaction completes a Submit call; err is nil on success.
func (m *ClientSyncManager) AnnounceSubmitTransaction(requestID uint64, tx []byte, err error) {
	reason := int32(0)
	if err != nil {
		reason = ErrTransportFailure
	}
	m.emit(Event{Kind: TxnSubmitted, Tx: tx, Reason: reason})
}

// TickTock lets an external timer drive progress without an explicit
// connect/disconnect cycle.
func (m *ClientSyncManager) TickTock() {
	m.updateBlockNumber()
	m.updateTransactions()
}

// Free releases the manager's scan state. Safe to call more than once.
func (m *ClientSyncManager) Free() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scan = nil
	m.destroyed = true
}

func (m *ClientSyncManager) updateBlockNumber() {
	m.mu.Lock()
	if !m.isConnected {
		m.mu.Unlock()
		return
	}
	rid := m.nextRequestID()
	m.mu.Unlock()

	m.client.GetBlockNumber(rid)
}

// AnnounceGetBlockNumber accepts height only if strictly greater than the
// currently known networkBlockHeight and only while connected (spec.md
// §4.B, invariant 2).
func (m *ClientSyncManager) AnnounceGetBlockNumber(requestID uint64, height uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isConnected || height <= m.networkBlockHeight {
		return
	}
	m.networkBlockHeight = height
	m.emit(Event{Kind: BlockHeightUpdated, Height: height})
}

// updateTransactions constructs and issues a new scan window if connected
// and no scan is already in progress (spec.md §4.B).
func (m *ClientSyncManager) updateTransactions() {
	m.mu.Lock()
	if !m.isConnected || m.scan != nil {
		m.mu.Unlock()
		return
	}

	end := m.networkBlockHeight + 1
	if m.syncedBlockHeight+1 > end {
		end = m.syncedBlockHeight + 1
	}
	var endMinusOffset uint64
	if end > BrdSyncStartBlockOffset {
		endMinusOffset = end - BrdSyncStartBlockOffset
	}
	beg := m.syncedBlockHeight
	if endMinusOffset < beg {
		beg = endMinusOffset
	}
	wallet := m.wallet
	m.mu.Unlock()

	if _, err := wallet.UnusedAddresses(accounts.ExternalChain, SequenceGapLimitExternal); err != nil {
		log.Error("sync: pre-roll external addresses", "err", err)
		return
	}
	if _, err := wallet.UnusedAddresses(accounts.InternalChain, SequenceGapLimitInternal); err != nil {
		log.Error("sync: pre-roll internal addresses", "err", err)
		return
	}
	lastExternal, err := wallet.FirstUnused(accounts.ExternalChain)
	if err != nil {
		log.Error("sync: derive first-unused external address", "err", err)
		return
	}
	lastInternal, err := wallet.FirstUnused(accounts.InternalChain)
	if err != nil {
		log.Error("sync: derive first-unused internal address", "err", err)
		return
	}
	known, err := knownAddressesForScan(wallet.Addresses())
	if err != nil {
		log.Error("sync: encode known addresses", "err", err)
		return
	}

	m.mu.Lock()
	if !m.isConnected || m.scan != nil {
		m.mu.Unlock()
		return
	}
	width := end - beg
	isFull := width > BrdSyncStartBlockOffset
	rid := m.nextScanID()
	m.scan = &scanState{
		phase:               phaseAwaiting,
		requestID:           rid,
		knownAddresses:      known,
		lastExternalAddress: lastExternal,
		lastInternalAddress: lastInternal,
		begBlockNumber:      beg,
		endBlockNumber:      end,
		isFullScan:          isFull,
	}
	if isFull {
		m.emit(Event{Kind: SyncStarted})
	}
	addrs := known.slice()
	m.mu.Unlock()

	m.client.GetTransactions(addrs, beg, end, rid)
}

// AnnounceGetTransactionsItem registers or updates a single transaction
// returned by the current scan. Wrong-rid or post-disconnect calls are
// dropped silently (spec.md §4.B, §7).
func (m *ClientSyncManager) AnnounceGetTransactionsItem(requestID uint64, raw []byte, blockHeight, timestamp uint64) {
	m.mu.Lock()
	if !m.isConnected || m.scan == nil || m.scan.requestID != requestID {
		m.mu.Unlock()
		return
	}
	wallet := m.wallet
	m.mu.Unlock()

	// RegisterTransaction is idempotent: registers a new hash, or updates
	// height/timestamp in place if already known (spec.md §4.E).
	if _, err := wallet.RegisterTransaction(raw, blockHeight, timestamp); err != nil {
		log.Warn("sync: register transaction", "err", err)
	}
}

// AnnounceGetTransactionsDone completes a scan. On failure it stops the
// scan (emitting SyncStopped if it was a full scan). On success it
// re-derives the first-unused addresses: if either changed, it widens the
// address set and re-issues getTransactions with the same rid and window
// (the Extending state); otherwise the scan is Done and
// syncedBlockHeight advances to end-1 (spec.md §4.B, §4.D).
func (m *ClientSyncManager) AnnounceGetTransactionsDone(requestID uint64, success bool) {
	m.mu.Lock()
	if !m.isConnected || m.scan == nil || m.scan.requestID != requestID {
		m.mu.Unlock()
		return
	}
	if !success {
		if m.scan.isFullScan {
			m.emit(Event{Kind: SyncStopped, Reason: ErrTransportFailure})
		}
		m.scan = nil
		m.mu.Unlock()
		return
	}
	wallet := m.wallet
	m.mu.Unlock()

	// Re-roll to the gap limits before re-checking first-unused: a
	// transaction landing on the previously-last-unused address consumes
	// one slot of the pre-rolled window, so it must be topped back up
	// before the comparison below can detect stability (spec.md §4.B
	// step 2, §9).
	if _, err := wallet.UnusedAddresses(accounts.ExternalChain, SequenceGapLimitExternal); err != nil {
		log.Error("sync: pre-roll external addresses", "err", err)
		return
	}
	if _, err := wallet.UnusedAddresses(accounts.InternalChain, SequenceGapLimitInternal); err != nil {
		log.Error("sync: pre-roll internal addresses", "err", err)
		return
	}
	newExternal, err := wallet.FirstUnused(accounts.ExternalChain)
	if err != nil {
		log.Error("sync: re-derive external address", "err", err)
		return
	}
	newInternal, err := wallet.FirstUnused(accounts.InternalChain)
	if err != nil {
		log.Error("sync: re-derive internal address", "err", err)
		return
	}

	m.mu.Lock()
	if !m.isConnected || m.scan == nil || m.scan.requestID != requestID {
		m.mu.Unlock()
		return
	}
	scan := m.scan
	changed := newExternal.CommonAddress() != scan.lastExternalAddress.CommonAddress() ||
		newInternal.CommonAddress() != scan.lastInternalAddress.CommonAddress()

	if !changed {
		m.syncedBlockHeight = scan.endBlockNumber - 1
		if scan.isFullScan {
			m.emit(Event{Kind: SyncStopped, Reason: 0})
		}
		m.scan = nil
		m.mu.Unlock()
		return
	}

	scan.phase = phaseExtending
	scan.lastExternalAddress = newExternal
	scan.lastInternalAddress = newInternal
	beg, end := scan.begBlockNumber, scan.endBlockNumber
	m.mu.Unlock()

	known, err := knownAddressesForScan(wallet.Addresses())
	if err != nil {
		log.Error("sync: encode known addresses", "err", err)
		return
	}

	m.mu.Lock()
	if !m.isConnected || m.scan == nil || m.scan.requestID != requestID {
		m.mu.Unlock()
		return
	}
	m.scan.knownAddresses = known
	m.scan.phase = phaseAwaiting
	addrs := known.slice()
	m.mu.Unlock()

	m.client.GetTransactions(addrs, beg, end, requestID)
}

// lastConfirmedSendHeight returns the height of the most recent confirmed
// (>= ConfirmationBlockCount deep) outbound transaction, or 0 if none
// qualifies (spec.md §6, DepthLow).
func lastConfirmedSendHeight(w Wallet, networkHeight uint64) uint64 {
	var best uint64
	for _, tx := range w.Transactions() {
		if !tx.Valid || tx.AmountSent <= 0 || tx.BlockHeight == 0 {
			continue
		}
		if tx.BlockHeight > networkHeight {
			continue
		}
		confirmations := networkHeight - tx.BlockHeight + 1
		if confirmations < ConfirmationBlockCount {
			continue
		}
		if tx.BlockHeight > best {
			best = tx.BlockHeight
		}
	}
	return best
}
