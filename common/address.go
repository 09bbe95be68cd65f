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

import "encoding/hex"

// AddressLength is the length, in bytes, of the canonical (non-legacy)
// address encoding used as the map/set key throughout this package.
const AddressLength = 20

// Address is a chain-agnostic 20-byte account identifier. Bitcoin-style
// consumers populate it from a hash160 script digest; Ethereum-style
// consumers populate it from the low 20 bytes of a Keccak256 hash. Either
// way it hashes and compares by value, so it can key maps directly. The
// address sets of package sync hold encoded address strings instead, since
// one Address has two encodings there.
type Address [AddressLength]byte

// BytesToAddress right-aligns b into an Address, truncating from the left
// if b is longer than AddressLength.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress parses a hex-encoded (optionally 0x-prefixed) address.
func HexToAddress(s string) (Address, error) {
	s = trim0x(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, err
	}
	if len(b) != AddressLength {
		return Address{}, ErrInvalidAddressLength
	}
	return BytesToAddress(b), nil
}

// Bytes returns the raw bytes of a.
func (a Address) Bytes() []byte { return a[:] }

// String implements fmt.Stringer, emitting the 0x-prefixed hex form.
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == Address{} }
