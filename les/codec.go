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

// Package les carries the Ethereum Light Client Sub-protocol message shapes
// the wallet core's P2P transport exchanges with a full node's LES server:
// header range requests, header batches, and new-head announcements. It is
// a thin RLP codec over package rlp, not a running light-client peer — the
// PeerSyncManager in package sync treats the network itself as an opaque
// collaborator (the PeerManager interface) and never constructs these
// messages directly; they are here because the wallet's wire format on the
// P2P path is LES, and a handler wiring a real peer stack needs the shapes.
package les

import (
	"github.com/holiman/uint256"

	"github.com/brdwallet/walletkit/rlp"
)

// Protocol message codes, matching upstream go-probeum/go-ethereum's LES/2
// wire numbering so a real peer stack can dispatch on them unmodified.
const (
	GetBlockHeadersMsg = 0x02
	BlockHeadersMsg    = 0x03
	AnnounceMsg        = 0x01
)

// GetBlockHeaders requests a run of headers starting at Origin, either
// ascending (Reverse=false) or descending, Skip headers apart, Amount
// headers long.
type GetBlockHeaders struct {
	Origin  uint64
	Amount  uint64
	Skip    uint64
	Reverse bool
	ReqID   uint64
}

// BlockHeaders is the response to GetBlockHeaders: each element of Headers
// is itself an RLP-encoded block header, opaque to this package.
type BlockHeaders struct {
	ReqID   uint64
	Headers [][]byte
}

// Announce is pushed unsolicited by a peer when its chain head advances.
// TD is the peer's total difficulty; nil on chains (like Bitcoin-style SPV
// peers) that don't carry one.
type Announce struct {
	Hash   []byte
	Number uint64
	TD     *uint256.Int
}

// announceWire is Announce's RLP wire shape: package rlp has no built-in
// support for *uint256.Int, so TD crosses the wire as its big-endian bytes.
type announceWire struct {
	Hash   []byte
	Number uint64
	TD     []byte
}

// EncodeGetBlockHeaders returns the RLP encoding of a GetBlockHeaders
// request, ready to be framed behind a message code and sent to a peer.
func EncodeGetBlockHeaders(req GetBlockHeaders) ([]byte, error) {
	return rlp.EncodeToBytes(req)
}

// DecodeGetBlockHeaders parses the payload of a GetBlockHeadersMsg.
func DecodeGetBlockHeaders(data []byte) (GetBlockHeaders, error) {
	var req GetBlockHeaders
	err := rlp.DecodeBytes(data, &req)
	return req, err
}

// EncodeBlockHeaders returns the RLP encoding of a BlockHeaders response.
func EncodeBlockHeaders(resp BlockHeaders) ([]byte, error) {
	return rlp.EncodeToBytes(resp)
}

// DecodeBlockHeaders parses the payload of a BlockHeadersMsg.
func DecodeBlockHeaders(data []byte) (BlockHeaders, error) {
	var resp BlockHeaders
	err := rlp.DecodeBytes(data, &resp)
	return resp, err
}

// EncodeAnnounce returns the RLP encoding of an Announce message.
func EncodeAnnounce(a Announce) ([]byte, error) {
	w := announceWire{Hash: a.Hash, Number: a.Number}
	if a.TD != nil {
		w.TD = a.TD.Bytes()
	}
	return rlp.EncodeToBytes(w)
}

// DecodeAnnounce parses the payload of an AnnounceMsg.
func DecodeAnnounce(data []byte) (Announce, error) {
	var w announceWire
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return Announce{}, err
	}
	a := Announce{Hash: w.Hash, Number: w.Number}
	if len(w.TD) > 0 {
		a.TD = new(uint256.Int).SetBytes(w.TD)
	}
	return a, nil
}
