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

package chainparams

import "github.com/btcsuite/btcd/chaincfg"

// secondsPerBlock matches spec.md's BWM_MINUTES_PER_BLOCK constant (10
// minutes), used only to backfill checkpoint timestamps from btcd's
// hash-only checkpoint tables.
const secondsPerBlock = 10 * 60

// MainNet is the Bitcoin mainnet chain parameter table, its checkpoints
// sourced directly from btcsuite/btcd's chaincfg.MainNetParams.
var MainNet = &Params{
	Name:        "mainnet",
	Checkpoints: fromBtcdCheckpoints(chaincfg.MainNetParams.GenesisBlock.Header.Timestamp.Unix(), secondsPerBlock, chaincfg.MainNetParams.Checkpoints),
}

// TestNet3 is the Bitcoin testnet3 chain parameter table.
var TestNet3 = &Params{
	Name:        "testnet3",
	Checkpoints: fromBtcdCheckpoints(chaincfg.TestNet3Params.GenesisBlock.Header.Timestamp.Unix(), secondsPerBlock, chaincfg.TestNet3Params.Checkpoints),
}
