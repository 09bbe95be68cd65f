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

package common

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HashLength is the expected length of the common Hash type.
const HashLength = chainhash.HashSize

// Hash is a canonical 32-byte identifier shared by block hashes and
// transaction hashes across both sync modes. It wraps chainhash.Hash rather
// than redefining a parallel [32]byte type, so chain-parameter checkpoint
// tables and wallet transaction lookups speak the same currency.
type Hash chainhash.Hash

// BytesToHash sets the last HashLength bytes of b (big-endian, like the
// upstream chainhash convention) into a Hash, truncating from the left if
// b is longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToHash parses a hex-encoded (optionally 0x-prefixed) hash string.
func HexToHash(s string) (Hash, error) {
	s = trim0x(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, err
	}
	if len(b) != HashLength {
		return Hash{}, ErrInvalidHashLength
	}
	return BytesToHash(b), nil
}

// Bytes returns the raw bytes of h.
func (h Hash) Bytes() []byte { return h[:] }

// String implements fmt.Stringer, emitting the 0x-prefixed hex form.
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

var _ fmt.Stringer = Hash{}
