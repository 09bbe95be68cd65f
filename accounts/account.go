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

// Package accounts derives wallet addresses along the gap-limit-aware HD
// chains that package sync's ClientSyncManager pre-rolls before issuing a
// getTransactions call (spec.md §4.B step 2). It mirrors the classic
// breadwallet derivation scheme: m/0'/chain/index, where chain is 0 for the
// external (receive) sequence and 1 for the internal (change) sequence.
package accounts

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"

	"github.com/brdwallet/walletkit/common"
)

// Chain distinguishes the external (receive) and internal (change) address
// sequences named by spec.md's SEQUENCE_GAP_LIMIT_EXTERNAL / _INTERNAL.
type Chain uint32

const (
	ExternalChain Chain = 0
	InternalChain Chain = 1
)

func (c Chain) String() string {
	if c == InternalChain {
		return "internal"
	}
	return "external"
}

// Account is one derived address: its canonical hash160, its position in
// the HD tree, and a cached handle on the network parameters needed to
// render it in either encoding spec.md §9 calls for ("native and legacy
// encoded forms").
type Account struct {
	Hash160 [20]byte
	Chain   Chain
	Index   uint32

	params *chaincfg.Params
}

// CommonAddress returns the chain-agnostic 20-byte identifier that keys
// HDWallet's used-address map and that package sync compares to detect a
// changed first-unused address.
func (a Account) CommonAddress() common.Address {
	return common.BytesToAddress(a.Hash160[:])
}

// Legacy renders the address as a base58check P2PKH string — the "legacy
// encoded form" spec.md §9 requires alongside the native encoding.
func (a Account) Legacy() (string, error) {
	addr, err := btcutil.NewAddressPubKeyHash(a.Hash160[:], a.params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// Native renders the address as a bech32 P2WPKH string.
func (a Account) Native() (string, error) {
	addr, err := btcutil.NewAddressWitnessPubKeyHash(a.Hash160[:], a.params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}
