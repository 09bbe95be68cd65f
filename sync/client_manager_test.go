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
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/brdwallet/walletkit/accounts"
	"github.com/brdwallet/walletkit/chainparams"
	"github.com/brdwallet/walletkit/common"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// fakeSink records every event notified to it, in order, safe for
// concurrent use by the manager's callback goroutines.
type fakeSink struct {
	mu     stdsync.Mutex
	events []Event
}

func (s *fakeSink) Notify(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *fakeSink) kinds() []Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Kind, len(s.events))
	for i, e := range s.events {
		out[i] = e.Kind
	}
	return out
}

func (s *fakeSink) last() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}

// dump renders the recorded event sequence for failure messages — cheaper
// to read than %+v on a slice of structs once Blocks/Peers payloads appear.
func (s *fakeSink) dump() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spew.Sdump(s.events)
}

// fakeChainParams is a fixed-answer ChainParams stub.
type fakeChainParams struct {
	before      chainparams.Checkpoint
	hasBefore   bool
	beforeBlock chainparams.Checkpoint
	hasBlock    bool
}

func (f fakeChainParams) CheckpointBefore(int64) (chainparams.Checkpoint, bool) {
	return f.before, f.hasBefore
}

func (f fakeChainParams) CheckpointBeforeBlockNumber(uint64) (chainparams.Checkpoint, bool) {
	return f.beforeBlock, f.hasBlock
}

// getTransactionsCall records a single getTransactions invocation observed
// by fakeClient.
type getTransactionsCall struct {
	addrs []string
	beg   uint64
	end   uint64
	rid   uint64
}

// fakeClient is a ClientCallbacks stub. GetBlockNumber auto-responds
// inline with blockHeight (modeling a synchronous test indexer);
// GetTransactions just records the call so the test can drive the
// manager's Announce* methods explicitly.
type fakeClient struct {
	mgr         *ClientSyncManager
	blockHeight uint64

	mu                   stdsync.Mutex
	blockNumberRIDs      []uint64
	getTransactionsCalls []getTransactionsCall
	submitCalls          int
}

func (c *fakeClient) GetBlockNumber(rid uint64) {
	c.mu.Lock()
	c.blockNumberRIDs = append(c.blockNumberRIDs, rid)
	c.mu.Unlock()
	c.mgr.AnnounceGetBlockNumber(rid, c.blockHeight)
}

func (c *fakeClient) GetTransactions(addrs []string, beg, end uint64, rid uint64) {
	c.mu.Lock()
	c.getTransactionsCalls = append(c.getTransactionsCalls, getTransactionsCall{addrs, beg, end, rid})
	c.mu.Unlock()
}

func (c *fakeClient) SubmitTransaction(raw []byte, hash common.Hash, rid uint64) {
	c.mu.Lock()
	c.submitCalls++
	c.mu.Unlock()
}

func (c *fakeClient) calls() []getTransactionsCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]getTransactionsCall, len(c.getTransactionsCalls))
	copy(out, c.getTransactionsCalls)
	return out
}

func newTestManager(t *testing.T, initHeight int32, networkHeight uint64) (*ClientSyncManager, *fakeClient, *fakeSink, *accounts.HDWallet) {
	t.Helper()
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	params := fakeChainParams{before: chainparams.Checkpoint{Height: initHeight}, hasBefore: true}
	sink := &fakeSink{}
	client := &fakeClient{blockHeight: networkHeight}

	mgr := NewClientSyncManager(w, params, client, sink, 0, 0)
	client.mgr = mgr
	return mgr, client, sink, w
}

// S1 — simple catch-up.
func TestScenarioSimpleCatchUp(t *testing.T) {
	mgr, client, sink, _ := newTestManager(t, 100, 244)

	mgr.Connect()

	calls := client.calls()
	require.Len(t, calls, 1)
	require.Equal(t, uint64(100), calls[0].beg)
	require.Equal(t, uint64(245), calls[0].end)
	require.Equal(t, uint64(1), calls[0].rid)

	mgr.AnnounceGetTransactionsDone(calls[0].rid, true)

	require.Equal(t, []Kind{Connected, BlockHeightUpdated, SyncStarted, SyncStopped}, sink.kinds())
	require.Equal(t, int32(0), sink.last().Reason)
	require.Equal(t, uint64(244), mgr.GetBlockHeight())
}

// S2 — gap-limit extension: a transaction lands on the captured
// last-unused external address, so the first Done triggers a re-issue with
// the same rid and window but a widened address set.
func TestScenarioGapLimitExtension(t *testing.T) {
	mgr, client, sink, w := newTestManager(t, 100, 244)

	mgr.Connect()
	calls := client.calls()
	require.Len(t, calls, 1)
	rid := calls[0].rid

	first, err := w.FirstUnused(accounts.ExternalChain)
	require.NoError(t, err)
	raw := accounts.EncodeRawTransaction(accounts.RawTransaction{
		Hash:    common.Hash{1},
		Touches: []common.Address{first.CommonAddress()},
		Valid:   true,
	})
	mgr.AnnounceGetTransactionsItem(rid, raw, 150, 1_600_000_000)

	mgr.AnnounceGetTransactionsDone(rid, true)

	calls = client.calls()
	require.Len(t, calls, 2, "expected a re-issued getTransactions call")
	require.Equal(t, calls[0].beg, calls[1].beg)
	require.Equal(t, calls[0].end, calls[1].end)
	require.Equal(t, rid, calls[1].rid)
	require.Greater(t, len(calls[1].addrs), len(calls[0].addrs))

	mgr.AnnounceGetTransactionsDone(rid, true)
	require.Contains(t, sink.kinds(), SyncStopped)
	require.Equal(t, int32(0), sink.last().Reason)
}

// S3 — disconnect during scan.
func TestScenarioDisconnectDuringScan(t *testing.T) {
	mgr, client, sink, _ := newTestManager(t, 100, 244)

	mgr.Connect()
	calls := client.calls()
	require.Len(t, calls, 1)
	rid := calls[0].rid

	mgr.Disconnect()
	require.Equal(t, []Kind{Connected, BlockHeightUpdated, SyncStarted, SyncStopped, Disconnected}, sink.kinds())
	require.Equal(t, ErrTransportFailure, sink.events[3].Reason)

	before := len(sink.kinds())
	mgr.AnnounceGetTransactionsDone(rid, true)
	require.Len(t, sink.kinds(), before, "stale callback after disconnect must be dropped silently")
}

// S4 — submit while disconnected.
func TestScenarioSubmitWhileDisconnected(t *testing.T) {
	mgr, client, sink, _ := newTestManager(t, 100, 0)

	mgr.Submit([]byte("tx-bytes"), common.Hash{})

	require.Equal(t, []Kind{TxnSubmitted}, sink.kinds())
	require.Equal(t, ErrTransportFailure, sink.last().Reason)
	require.Equal(t, 0, client.submitCalls)
}

// S5 — non-advancing block height.
func TestScenarioNonAdvancingBlockHeight(t *testing.T) {
	mgr, _, sink, _ := newTestManager(t, 100, 244)

	mgr.Connect()
	before := len(sink.kinds())

	mgr.AnnounceGetBlockNumber(999, 200) // <= current 244
	require.Len(t, sink.kinds(), before, "no BlockHeightUpdated for a non-advancing height")
	require.Equal(t, uint64(244), mgr.GetBlockHeight())
}

// S6 — depth-Low rescan.
func TestScenarioDepthLowRescan(t *testing.T) {
	mgr, client, _, w := newTestManager(t, 100, 1000)

	mgr.Connect()
	calls := client.calls()
	require.Len(t, calls, 1)
	mgr.AnnounceGetTransactionsDone(calls[0].rid, true)

	raw := accounts.EncodeRawTransaction(accounts.RawTransaction{
		Hash:       common.Hash{2},
		AmountSent: 500,
		Valid:      true,
	})
	_, err := w.RegisterTransaction(raw, 200, 1_600_000_000)
	require.NoError(t, err)

	mgr.ScanToDepth(DepthLow)

	calls = client.calls()
	last := calls[len(calls)-1]
	require.LessOrEqual(t, last.beg, uint64(200))
}

func TestInvariantConnectedDisconnectedAlternate(t *testing.T) {
	mgr, client, sink, _ := newTestManager(t, 100, 244)

	mgr.Connect()
	calls := client.calls()
	mgr.AnnounceGetTransactionsDone(calls[0].rid, true)
	mgr.Disconnect()
	mgr.Connect()
	mgr.Disconnect()

	var sawConnect bool
	for _, k := range sink.kinds() {
		switch k {
		case Connected:
			require.False(t, sawConnect, "two Connected in a row\n%s", sink.dump())
			sawConnect = true
		case Disconnected:
			require.True(t, sawConnect, "Disconnected without a preceding Connected\n%s", sink.dump())
			sawConnect = false
		}
	}
	_ = client
}

func TestInvariantSyncStartedStoppedPairing(t *testing.T) {
	mgr, client, sink, _ := newTestManager(t, 100, 244)

	mgr.Connect()
	calls := client.calls()
	mgr.AnnounceGetTransactionsDone(calls[0].rid, true)

	var open bool
	for _, k := range sink.kinds() {
		switch k {
		case SyncStarted:
			require.False(t, open, "SyncStarted while another is still open")
			open = true
		case SyncStopped:
			require.True(t, open, "SyncStopped without an open SyncStarted")
			open = false
		}
	}
	require.False(t, open, "SyncStarted left unbalanced")
	_ = client
}

// A gap-limit re-issue repeats its scan's rid, so consecutive
// getTransactions rids are compared non-strictly.
func TestInvariantRequestIDsNonDecreasing(t *testing.T) {
	mgr, client, _, w := newTestManager(t, 100, 244)

	mgr.Connect()
	calls := client.calls()
	require.Len(t, calls, 1)
	rid := calls[0].rid

	first, err := w.FirstUnused(accounts.ExternalChain)
	require.NoError(t, err)
	raw := accounts.EncodeRawTransaction(accounts.RawTransaction{
		Hash:    common.Hash{3},
		Touches: []common.Address{first.CommonAddress()},
		Valid:   true,
	})
	mgr.AnnounceGetTransactionsItem(rid, raw, 150, 1_600_000_000)
	mgr.AnnounceGetTransactionsDone(rid, true)

	calls = client.calls()
	for i := 1; i < len(calls); i++ {
		require.GreaterOrEqual(t, calls[i].rid, calls[i-1].rid)
	}
}

func TestInvariantBlockHeightMonotone(t *testing.T) {
	mgr, _, _, _ := newTestManager(t, 100, 244)

	mgr.Connect()
	require.Equal(t, uint64(244), mgr.GetBlockHeight())

	mgr.AnnounceGetBlockNumber(42, 100) // stale, below current
	require.Equal(t, uint64(244), mgr.GetBlockHeight())

	mgr.AnnounceGetBlockNumber(43, 300)
	require.Equal(t, uint64(300), mgr.GetBlockHeight())
}

func TestInvariantSyncedHeightAfterStableScan(t *testing.T) {
	mgr, client, _, _ := newTestManager(t, 100, 244)

	mgr.Connect()
	calls := client.calls()
	mgr.AnnounceGetTransactionsDone(calls[0].rid, true)

	require.Equal(t, uint64(244), mgr.GetBlockHeight())
	require.Equal(t, calls[0].end-1, mgr.syncedBlockHeight)
}
