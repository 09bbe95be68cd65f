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

// Package sync is the wallet sync manager: a dual-mode engine that
// reconciles a wallet's transaction set with an external blockchain, either
// through a cooperative remote indexer ("client mode") or a P2P peer
// manager ("P2P mode"), emitting a totally ordered stream of lifecycle
// events (spec.md §1).
package sync

import "time"

const (
	// ConfirmationBlockCount is the depth at which a send is considered
	// confirmed for scanToDepth(Low) purposes.
	ConfirmationBlockCount = 6

	// BwmMinutesPerBlock is Bitcoin's target block interval.
	BwmMinutesPerBlock = 10

	// BwmBrdSyncDaysOffset is the width, in days, of the window treated as
	// an "incremental" (non-full) scan.
	BwmBrdSyncDaysOffset = 1

	// BrdSyncStartBlockOffset is BwmBrdSyncDaysOffset converted to blocks:
	// one day of Bitcoin blocks at BwmMinutesPerBlock spacing.
	BrdSyncStartBlockOffset = BwmBrdSyncDaysOffset * 24 * 60 / BwmMinutesPerBlock

	// OneWeekInSeconds bounds how far before a wallet's earliest key time
	// initBlockHeight is allowed to look back.
	OneWeekInSeconds = 7 * 24 * 60 * 60

	// SequenceGapLimitExternal/Internal are the breadwallet-style gap
	// limits for the receive and change HD chains respectively: the
	// number of consecutive unused addresses updateTransactions pre-rolls
	// before constructing a scan window (spec.md §4.B step 2).
	SequenceGapLimitExternal = 10
	SequenceGapLimitInternal = 5
)

// oneWeek is OneWeekInSeconds as a time.Duration, for callers working in
// Unix-time arithmetic.
const oneWeek = OneWeekInSeconds * time.Second
