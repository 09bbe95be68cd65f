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

package accounts

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"

	"github.com/brdwallet/walletkit/common"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestWallet(t *testing.T) *HDWallet {
	t.Helper()
	w, err := NewHDWallet(testMnemonic, "", &chaincfg.MainNetParams)
	require.NoError(t, err)
	return w
}

func TestDeriveIsDeterministic(t *testing.T) {
	w := newTestWallet(t)

	a1, err := w.deriveIndex(ExternalChain, 0)
	require.NoError(t, err)
	a2, err := w.deriveIndex(ExternalChain, 0)
	require.NoError(t, err)
	require.Equal(t, a1.Hash160, a2.Hash160)

	a3, err := w.deriveIndex(ExternalChain, 1)
	require.NoError(t, err)
	require.NotEqual(t, a1.Hash160, a3.Hash160)
}

func TestAccountEncodings(t *testing.T) {
	w := newTestWallet(t)

	a, err := w.deriveIndex(ExternalChain, 0)
	require.NoError(t, err)

	legacy, err := a.Legacy()
	require.NoError(t, err)
	require.NotEmpty(t, legacy)

	native, err := a.Native()
	require.NoError(t, err)
	require.NotEmpty(t, native)
	require.NotEqual(t, legacy, native)
}

func TestUnusedAddressesPreRolls(t *testing.T) {
	w := newTestWallet(t)

	unused, err := w.UnusedAddresses(ExternalChain, 5)
	require.NoError(t, err)
	require.Len(t, unused, 5)
	for i, a := range unused {
		require.Equal(t, uint32(i), a.Index)
	}
}

func TestUnusedAddressesWidensAfterUse(t *testing.T) {
	w := newTestWallet(t)

	first, err := w.FirstUnused(ExternalChain)
	require.NoError(t, err)
	require.Equal(t, uint32(0), first.Index)

	raw := EncodeRawTransaction(RawTransaction{
		Hash:       [32]byte{1},
		Touches:    []common.Address{first.CommonAddress()},
		AmountSent: 0,
		Valid:      true,
	})
	_, err = w.RegisterTransaction(raw, 100, 1_600_000_000)
	require.NoError(t, err)

	next, err := w.FirstUnused(ExternalChain)
	require.NoError(t, err)
	require.Equal(t, uint32(1), next.Index)
}

func TestRegisterTransactionIsIdempotent(t *testing.T) {
	w := newTestWallet(t)

	hash := [32]byte{9}
	raw := EncodeRawTransaction(RawTransaction{Hash: hash, AmountSent: 5, Valid: true})

	h1, err := w.RegisterTransaction(raw, 10, 111)
	require.NoError(t, err)
	h2, err := w.RegisterTransaction(raw, 20, 222)
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	require.Len(t, w.Transactions(), 1)
	require.Equal(t, uint64(20), w.Transactions()[0].BlockHeight)
}

func TestUpdateTransactionRequiresExisting(t *testing.T) {
	w := newTestWallet(t)
	err := w.UpdateTransaction([32]byte{1}, 5, 5)
	require.Error(t, err)
}
