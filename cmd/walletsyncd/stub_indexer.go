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

package main

import (
	"github.com/brdwallet/walletkit/common"
	"github.com/brdwallet/walletkit/log"
	"github.com/brdwallet/walletkit/sync"
)

// stubIndexer is a trivial in-process sync.ClientCallbacks: it reports a
// fixed chain tip and an always-empty transaction history, answering every
// call synchronously so this command demonstrates the manager's state
// machine without requiring a real BRD-style indexer endpoint.
type stubIndexer struct {
	blockHeight uint64
	client      *sync.ClientSyncManager
}

func newStubIndexer(blockHeight uint64) *stubIndexer {
	return &stubIndexer{blockHeight: blockHeight}
}

func (s *stubIndexer) GetBlockNumber(requestID uint64) {
	log.Debug("stub indexer: getBlockNumber", "rid", requestID)
	s.client.AnnounceGetBlockNumber(requestID, s.blockHeight)
}

func (s *stubIndexer) GetTransactions(addresses []string, begHeight, endHeight uint64, requestID uint64) {
	log.Debug("stub indexer: getTransactions", "rid", requestID, "addrs", len(addresses), "beg", begHeight, "end", endHeight)
	s.client.AnnounceGetTransactionsDone(requestID, true)
}

func (s *stubIndexer) SubmitTransaction(raw []byte, hash common.Hash, requestID uint64) {
	log.Debug("stub indexer: submitTransaction", "rid", requestID, "hash", hash, "raw", log.Hex(raw))
	s.client.AnnounceSubmitTransaction(requestID, raw, nil)
}
