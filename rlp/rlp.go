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

// Package rlp implements the subset of Ethereum's Recursive Length Prefix
// encoding the les package needs for its request/response messages:
// unsigned integers, byte strings, and ordered-field structs built from
// them. It is not a general-purpose codec — no interface types, no map
// support, no streaming decoder — scoped to what §1's "Ethereum LES/RLP
// encoding" facet actually exercises.
package rlp

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
)

// ErrUnsupportedType is returned by Encode/Decode for any Go type outside
// the supported subset (uint64-ish integers, bool, []byte, string,
// *big.Int, slices, and ordered-field structs of the above).
var ErrUnsupportedType = errors.New("rlp: unsupported type")

// ErrTruncatedInput is returned by Decode when data ends before a length
// header says it should.
var ErrTruncatedInput = errors.New("rlp: truncated input")

// EncodeToBytes returns the RLP encoding of val.
func EncodeToBytes(val interface{}) ([]byte, error) {
	return encodeValue(reflect.ValueOf(val))
}

func encodeValue(v reflect.Value) ([]byte, error) {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return encodeUint(v.Uint()), nil
	case reflect.Bool:
		if v.Bool() {
			return encodeBytes([]byte{1}), nil
		}
		return encodeBytes(nil), nil
	case reflect.String:
		return encodeBytes([]byte(v.String())), nil
	case reflect.Ptr:
		if v.IsNil() {
			return encodeBytes(nil), nil
		}
		if bi, ok := v.Interface().(*big.Int); ok {
			return encodeBytes(bi.Bytes()), nil
		}
		return encodeValue(v.Elem())
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return encodeBytes(v.Bytes()), nil
		}
		items := make([][]byte, v.Len())
		for i := 0; i < v.Len(); i++ {
			enc, err := encodeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			items[i] = enc
		}
		return encodeList(items...), nil
	case reflect.Struct:
		items := make([][]byte, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			enc, err := encodeValue(v.Field(i))
			if err != nil {
				return nil, err
			}
			items[i] = enc
		}
		return encodeList(items...), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, v.Kind())
	}
}

// encodeUint returns the minimal big-endian encoding of x as an RLP string
// (leading zero bytes stripped, matching the Ethereum canonical form).
func encodeUint(x uint64) []byte {
	if x == 0 {
		return encodeBytes(nil)
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(x)
		x >>= 8
	}
	i := 0
	for i < 8 && buf[i] == 0 {
		i++
	}
	return encodeBytes(buf[i:])
}

// encodeBytes wraps b in an RLP string header.
func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(lengthHeader(0x80, 0xb7, len(b)), b...)
}

// encodeList wraps the already-encoded items in an RLP list header.
func encodeList(items ...[]byte) []byte {
	var body []byte
	for _, it := range items {
		body = append(body, it...)
	}
	return append(lengthHeader(0xc0, 0xf7, len(body)), body...)
}

// lengthHeader builds the RLP prefix for a payload of n bytes: shortBase+n
// for n<56, or longBase+lenOfLen followed by the big-endian length for
// longer payloads.
func lengthHeader(shortBase, longBase byte, n int) []byte {
	if n < 56 {
		return []byte{shortBase + byte(n)}
	}
	lenBytes := big.NewInt(int64(n)).Bytes()
	return append([]byte{longBase + byte(len(lenBytes))}, lenBytes...)
}

// DecodeBytes parses data as the RLP encoding of val, which must be a
// pointer to a supported type.
func DecodeBytes(data []byte, val interface{}) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("rlp: Decode requires a non-nil pointer, got %T", val)
	}
	consumed, err := decodeValue(data, rv.Elem())
	if err != nil {
		return err
	}
	if consumed != len(data) {
		return fmt.Errorf("rlp: %d trailing bytes after decode", len(data)-consumed)
	}
	return nil
}

// decodeValue decodes one RLP item from the front of data into v, and
// returns how many bytes it consumed.
func decodeValue(data []byte, v reflect.Value) (int, error) {
	content, isList, headerLen, err := splitHeader(data)
	if err != nil {
		return 0, err
	}
	total := headerLen + len(content)

	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if isList {
			return 0, fmt.Errorf("rlp: expected string, got list")
		}
		var x uint64
		for _, b := range content {
			x = x<<8 | uint64(b)
		}
		v.SetUint(x)
		return total, nil
	case reflect.Bool:
		v.SetBool(len(content) == 1 && content[0] == 1)
		return total, nil
	case reflect.String:
		v.SetString(string(content))
		return total, nil
	case reflect.Ptr:
		elem := reflect.New(v.Type().Elem())
		if _, ok := elem.Interface().(*big.Int); ok {
			v.Set(reflect.ValueOf(new(big.Int).SetBytes(content)))
			return total, nil
		}
		if _, err := decodeValue(data, elem.Elem()); err != nil {
			return 0, err
		}
		v.Set(elem)
		return total, nil
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if isList {
				return 0, fmt.Errorf("rlp: expected string, got list")
			}
			buf := make([]byte, len(content))
			copy(buf, content)
			v.SetBytes(buf)
			return total, nil
		}
		if !isList {
			return 0, fmt.Errorf("rlp: expected list, got string")
		}
		var elems []reflect.Value
		rest := content
		for len(rest) > 0 {
			elem := reflect.New(v.Type().Elem()).Elem()
			n, err := decodeValue(rest, elem)
			if err != nil {
				return 0, err
			}
			elems = append(elems, elem)
			rest = rest[n:]
		}
		slice := reflect.MakeSlice(v.Type(), len(elems), len(elems))
		for i, e := range elems {
			slice.Index(i).Set(e)
		}
		v.Set(slice)
		return total, nil
	case reflect.Struct:
		if !isList {
			return 0, fmt.Errorf("rlp: expected list for struct, got string")
		}
		rest := content
		for i := 0; i < v.NumField(); i++ {
			n, err := decodeValue(rest, v.Field(i))
			if err != nil {
				return 0, err
			}
			rest = rest[n:]
		}
		return total, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, v.Kind())
	}
}

// splitHeader parses the RLP header at the front of data, returning the
// item's content bytes, whether it's a list, and the header's own length.
func splitHeader(data []byte) (content []byte, isList bool, headerLen int, err error) {
	if len(data) == 0 {
		return nil, false, 0, ErrTruncatedInput
	}
	b := data[0]
	switch {
	case b < 0x80:
		return data[:1], false, 0, nil
	case b < 0xb8:
		n := int(b - 0x80)
		if len(data) < 1+n {
			return nil, false, 0, ErrTruncatedInput
		}
		return data[1 : 1+n], false, 1, nil
	case b < 0xc0:
		lenOfLen := int(b - 0xb7)
		n, err := readBigEndianLength(data, 1, lenOfLen)
		if err != nil {
			return nil, false, 0, err
		}
		hdr := 1 + lenOfLen
		if len(data) < hdr+n {
			return nil, false, 0, ErrTruncatedInput
		}
		return data[hdr : hdr+n], false, hdr, nil
	case b < 0xf8:
		n := int(b - 0xc0)
		if len(data) < 1+n {
			return nil, false, 0, ErrTruncatedInput
		}
		return data[1 : 1+n], true, 1, nil
	default:
		lenOfLen := int(b - 0xf7)
		n, err := readBigEndianLength(data, 1, lenOfLen)
		if err != nil {
			return nil, false, 0, err
		}
		hdr := 1 + lenOfLen
		if len(data) < hdr+n {
			return nil, false, 0, ErrTruncatedInput
		}
		return data[hdr : hdr+n], true, hdr, nil
	}
}

func readBigEndianLength(data []byte, start, n int) (int, error) {
	if len(data) < start+n {
		return 0, ErrTruncatedInput
	}
	var x int
	for _, b := range data[start : start+n] {
		x = x<<8 | int(b)
	}
	return x, nil
}
