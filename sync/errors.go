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

import "errors"

// ErrTransportFailure is the placeholder reason carried by SyncStopped and
// TxnSubmitted events on an indexer/peer-manager failure (spec.md §7, §9
// Open Questions: "the error codes ... are placeholder"). 0 always means
// success; this is the one non-zero value this package emits.
const ErrTransportFailure int32 = -1

// ErrWrongVariant names the fault of operating a dispatcher in a mode it
// was not constructed with. No function in this package returns it:
// Manager dispatches on its fixed mode, and Client returns nil outside
// BrdOnly mode.
var ErrWrongVariant = errors.New("sync: dispatcher called with wrong mode variant")

// ErrDestroyed names the condition of operating on a manager after Free.
// No function in this package returns it; operations after Free are not
// rejected.
var ErrDestroyed = errors.New("sync: manager already destroyed")
