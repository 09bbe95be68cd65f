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

// Package chainparams supplies the checkpoint tables the sync core consults
// to derive initBlockHeight and to implement Medium-depth rescans (spec.md
// §4.B, §6). It is the "chain parameter table" collaborator of spec.md §4.E.
package chainparams

import (
	"sort"

	"github.com/btcsuite/btcd/chaincfg"
)

// Checkpoint is a trusted (height, time) anchor. Time is a Unix timestamp.
// It keeps chaincfg.Checkpoint's Height (not its Hash) and adds the
// timestamp the sync core needs to compare against earliestKeyTime.
type Checkpoint struct {
	Height int32
	Time   int64
}

// Params is the chain parameter table borrowed (never owned, per spec.md §3)
// by a ClientSyncManager or PeerSyncManager. Checkpoints must be sorted by
// ascending Height.
type Params struct {
	Name        string
	Checkpoints []Checkpoint
}

// CheckpointBefore returns the latest checkpoint whose Time is <= unixTime,
// or (Checkpoint{}, false) if none qualifies (spec.md §4.E).
func (p *Params) CheckpointBefore(unixTime int64) (Checkpoint, bool) {
	var best Checkpoint
	found := false
	for _, cp := range p.Checkpoints {
		if cp.Time <= unixTime && (!found || cp.Height > best.Height) {
			best, found = cp, true
		}
	}
	return best, found
}

// CheckpointBeforeBlockNumber returns the latest checkpoint whose Height is
// < blockNumber, or (Checkpoint{}, false) if none qualifies. Used by
// scanToDepth(Medium) to rescan from "the previous hardcoded checkpoint"
// (spec.md §6).
func (p *Params) CheckpointBeforeBlockNumber(blockNumber uint64) (Checkpoint, bool) {
	var best Checkpoint
	found := false
	for _, cp := range p.Checkpoints {
		if uint64(cp.Height) < blockNumber && (!found || cp.Height > best.Height) {
			best, found = cp, true
		}
	}
	return best, found
}

// fromBtcdCheckpoints adapts btcsuite/btcd's chaincfg.Checkpoint table
// (Height + block Hash, no timestamp) into this package's Checkpoint,
// backfilling Time by assuming BWM_MINUTES_PER_BLOCK-spaced blocks counting
// forward from the chain's genesis time. Real deployments should prefer a
// checkpoint table carrying authentic timestamps; this helper exists so the
// mainnet/testnet tables below can be grounded directly on btcd's own data
// instead of a hand-maintained duplicate.
func fromBtcdCheckpoints(genesisUnix int64, secondsPerBlock int64, cps []chaincfg.Checkpoint) []Checkpoint {
	out := make([]Checkpoint, len(cps))
	for i, cp := range cps {
		out[i] = Checkpoint{
			Height: cp.Height,
			Time:   genesisUnix + int64(cp.Height)*secondsPerBlock,
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Height < out[j].Height })
	return out
}
