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
	"github.com/brdwallet/walletkit/chainparams"
)

func TestDispatcherBrdOnlyExposesClient(t *testing.T) {
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	sink := &fakeSink{}
	client := &fakeClient{blockHeight: 100}
	params := fakeChainParams{before: chainparams.Checkpoint{Height: 50}, hasBefore: true}
	m := NewClientManager(w, params, client, sink, 0, 0)
	client.mgr = m.Client()

	require.Equal(t, BrdOnly, m.Mode())
	require.NotNil(t, m.Client())

	m.Connect()
	require.Equal(t, uint64(100), m.GetBlockHeight())
}

func TestDispatcherP2POnlyHidesClient(t *testing.T) {
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	peers := &fakePeerManager{}
	sink := &fakeSink{}
	m := NewPeerManager(w, peers, sink)

	require.Equal(t, P2POnly, m.Mode())
	require.Nil(t, m.Client())

	m.Connect()
	require.Equal(t, 1, peers.connectCalls)
}

func TestDispatcherScanBrdOnlyTriggersClientUpdate(t *testing.T) {
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	sink := &fakeSink{}
	client := &fakeClient{blockHeight: 244}
	params := fakeChainParams{before: chainparams.Checkpoint{Height: 100}, hasBefore: true}
	m := NewClientManager(w, params, client, sink, 0, 0)
	client.mgr = m.Client()

	m.Connect()
	require.Len(t, client.calls(), 1, "Connect already triggers one updateTransactions")

	m.Scan()
	require.Len(t, client.calls(), 1, "Scan must not start a second scan while one is outstanding")
	require.GreaterOrEqual(t, len(client.blockNumberRIDs), 2, "Scan must still re-trigger updateBlockNumber")
}

func TestDispatcherScanP2POnlyTriggersRescan(t *testing.T) {
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	peers := &fakePeerManager{}
	sink := &fakeSink{}
	m := NewPeerManager(w, peers, sink)

	m.Scan()
	require.Equal(t, 1, peers.rescanCalls)
}

func TestDispatcherP2PFullScanReport(t *testing.T) {
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	peers := &fakePeerManager{progress: 42}
	sink := &fakeSink{}
	m := NewPeerManager(w, peers, sink)

	fullScan, progress := m.P2PFullScanReport()
	require.False(t, fullScan)
	require.Zero(t, progress)

	peers.cb.SyncStarted()
	fullScan, progress = m.P2PFullScanReport()
	require.True(t, fullScan)
	require.Equal(t, float64(42), progress)
}

func TestDispatcherP2PFullScanReportBrdOnlyAlwaysFalse(t *testing.T) {
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	sink := &fakeSink{}
	client := &fakeClient{blockHeight: 100}
	params := fakeChainParams{before: chainparams.Checkpoint{Height: 50}, hasBefore: true}
	m := NewClientManager(w, params, client, sink, 0, 0)
	client.mgr = m.Client()

	fullScan, progress := m.P2PFullScanReport()
	require.False(t, fullScan)
	require.Zero(t, progress)
}

func TestDispatcherAnnouncePassthroughsBrdOnly(t *testing.T) {
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	sink := &fakeSink{}
	client := &fakeClient{blockHeight: 100}
	params := fakeChainParams{before: chainparams.Checkpoint{Height: 50}, hasBefore: true}
	m := NewClientManager(w, params, client, sink, 0, 0)
	client.mgr = m.Client()

	// Block numbers are only accepted while connected.
	m.Connect()
	m.AnnounceGetBlockNumber(999, 500)
	require.Equal(t, uint64(500), m.GetBlockHeight())
}

func TestDispatcherAnnouncePassthroughsP2POnlyAreNoOps(t *testing.T) {
	w, err := accounts.NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)

	peers := &fakePeerManager{}
	sink := &fakeSink{}
	m := NewPeerManager(w, peers, sink)

	require.NotPanics(t, func() {
		m.AnnounceGetBlockNumber(1, 100)
		m.AnnounceGetTransactionsItem(1, nil, 0, 0)
		m.AnnounceGetTransactionsDone(1, true)
		m.AnnounceSubmitTransaction(1, nil, nil)
	})
	require.Empty(t, sink.kinds())
}
