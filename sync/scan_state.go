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

import "github.com/brdwallet/walletkit/accounts"

// phase names the scan state machine's position (spec.md §4.D): Idle ->
// Requesting -> Awaiting -> (Extending | Done | Failed) -> Idle.
type phase int

const (
	phaseRequesting phase = iota
	phaseAwaiting
	phaseExtending
)

// scanState tracks a single in-flight range query. A nil *scanState on
// ClientSyncManager means Idle: no scan in progress (spec.md §3 invariant
// 3, "scanState.requestId != 0 iff a scan is in progress").
type scanState struct {
	phase     phase
	requestID uint64

	knownAddresses *addressSet

	// lastExternalAddress/lastInternalAddress are the first-unused
	// addresses captured at the last completion checkpoint; used to
	// detect gap-limit expansion (spec.md §3).
	lastExternalAddress accounts.Account
	lastInternalAddress accounts.Account

	begBlockNumber uint64
	endBlockNumber uint64 // half-open: window is [beg, end)

	isFullScan bool
}

// width is the half-open window's size in blocks.
func (s *scanState) width() uint64 { return s.endBlockNumber - s.begBlockNumber }
