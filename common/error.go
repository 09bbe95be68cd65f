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
	"errors"
)

var (
	// ErrIndexOutOfBounds is returned if an address index is out of bounds.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrInvalidAddressLength is returned when decoding an address of the wrong size.
	ErrInvalidAddressLength = errors.New("invalid address length")

	// ErrInvalidHashLength is returned when decoding a hash of the wrong size.
	ErrInvalidHashLength = errors.New("invalid hash length")
)