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
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"

	"github.com/brdwallet/walletkit/accounts"
)

// fakePeerManager is a controllable PeerManager stub: tests flip its
// fields and invoke the captured callbacks directly to drive
// PeerSyncManager the way a real P2P stack would, asynchronously.
type fakePeerManager struct {
	cb PeerCallbacks

	connected   bool
	blockHeight uint64
	blockTime   uint64
	progress    float64

	connectCalls    int
	rescanCalls     int
	rescanFromBlock []uint64
	rescanFromCkpt  int
	publishedTx     []byte
	publishCb       func(error)
}

func (f *fakePeerManager) Connect() error      { f.connectCalls++; return nil }
func (f *fakePeerManager) Disconnect()         { f.connected = false }
func (f *fakePeerManager) Rescan()             { f.rescanCalls++ }
func (f *fakePeerManager) RescanFromBlockNumber(h uint64) {
	f.rescanFromBlock = append(f.rescanFromBlock, h)
}
func (f *fakePeerManager) RescanFromLastHardcodedCheckpoint() { f.rescanFromCkpt++ }
func (f *fakePeerManager) PublishTx(tx []byte, cb func(error)) {
	f.publishedTx = tx
	f.publishCb = cb
}
func (f *fakePeerManager) LastBlockHeight() uint64    { return f.blockHeight }
func (f *fakePeerManager) LastBlockTimestamp() uint64 { return f.blockTime }
func (f *fakePeerManager) SyncProgress() float64      { return f.progress }
func (f *fakePeerManager) ConnectStatus() bool         { return f.connected }
func (f *fakePeerManager) Bind(cb PeerCallbacks)       { f.cb = cb }

func newTestPeerManager(t *testing.T) (*PeerSyncManager, *fakePeerManager, *fakeSink) {
	t.Helper()
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)
	peers := &fakePeerManager{}
	sink := &fakeSink{}
	mgr := NewPeerSyncManager(w, peers, sink)
	return mgr, peers, sink
}

func TestPeerSyncStartedEmitsConnectedThenStarted(t *testing.T) {
	_, peers, sink := newTestPeerManager(t)

	peers.cb.SyncStarted()
	require.Equal(t, []Kind{Connected, SyncStarted}, sink.kinds())
}

func TestPeerSyncStoppedEmitsSyncStoppedThenDisconnected(t *testing.T) {
	_, peers, sink := newTestPeerManager(t)

	peers.cb.SyncStarted()
	peers.connected = false
	peers.cb.SyncStopped(0)

	require.Equal(t, []Kind{Connected, SyncStarted, SyncStopped, Disconnected}, sink.kinds())
	require.Equal(t, int32(0), sink.last().Reason)
}

func TestPeerTxStatusUpdateEmitsBlockHeightAndTxnsUpdated(t *testing.T) {
	_, peers, sink := newTestPeerManager(t)

	peers.cb.SyncStarted()
	peers.connected = true
	peers.blockHeight = 500
	peers.cb.TxStatusUpdate()

	kinds := sink.kinds()
	require.Contains(t, kinds, BlockHeightUpdated)
	require.Contains(t, kinds, TxnsUpdated)
}

func TestPeerSaveBlocksDedupes(t *testing.T) {
	mgr, peers, sink := newTestPeerManager(t)
	_ = mgr

	peers.cb.SaveBlocks(true, [][]byte{[]byte("a"), []byte("b")})
	peers.cb.SaveBlocks(false, [][]byte{[]byte("b"), []byte("c")})

	var adds, sets int
	for _, e := range sink.events {
		switch e.Kind {
		case SetBlocks:
			sets++
			require.Len(t, e.Blocks, 2)
		case AddBlocks:
			adds++
			require.Len(t, e.Blocks, 1)
			require.Equal(t, []byte("c"), e.Blocks[0])
		}
	}
	require.Equal(t, 1, sets)
	require.Equal(t, 1, adds)
}

func TestPeerSubmitPublishesAndReportsCompletion(t *testing.T) {
	mgr, peers, sink := newTestPeerManager(t)

	mgr.Submit([]byte("raw-tx"))
	require.Equal(t, []byte("raw-tx"), peers.publishedTx)
	require.NotNil(t, peers.publishCb)

	peers.publishCb(nil)
	require.Equal(t, []Kind{TxnSubmitted}, sink.kinds())
	require.Equal(t, int32(0), sink.last().Reason)
}

func TestPeerTickTockGating(t *testing.T) {
	mgr, peers, sink := newTestPeerManager(t)

	peers.cb.SyncStarted()
	peers.connected = true

	peers.progress = 0
	mgr.TickTock()
	peers.progress = 100
	mgr.TickTock()
	require.Equal(t, []Kind{Connected, SyncStarted}, sink.kinds(), "0 and 100 are encoded by SyncStarted/SyncStopped, not SyncProgress")

	peers.progress = 42
	peers.blockTime = 999
	mgr.TickTock()
	require.Equal(t, []Kind{Connected, SyncStarted, SyncProgress}, sink.kinds())
	require.InDelta(t, 42, sink.last().Percent, 0.001)
	require.Equal(t, uint64(999), sink.last().Timestamp)
}
