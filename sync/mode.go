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

// Mode selects which concrete manager a SyncManager dispatches to. It is
// fixed at construction time and never changes over the manager's life
// (spec.md §4.A).
type Mode int

const (
	// BrdOnly drives sync through a cooperative remote indexer.
	BrdOnly Mode = iota
	// P2POnly drives sync through a P2P peer manager.
	P2POnly
)

func (m Mode) String() string {
	if m == P2POnly {
		return "p2p"
	}
	return "brd"
}

// Depth selects how far scanToDepth rewinds syncedBlockHeight (spec.md §6).
type Depth int

const (
	// DepthLow rewinds to the height of the most recent confirmed send.
	DepthLow Depth = iota
	// DepthMedium rewinds to the previous hardcoded checkpoint.
	DepthMedium
	// DepthHigh rewinds all the way to initBlockHeight.
	DepthHigh
)

func (d Depth) String() string {
	switch d {
	case DepthMedium:
		return "medium"
	case DepthHigh:
		return "high"
	default:
		return "low"
	}
}
