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

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"

	"github.com/brdwallet/walletkit/accounts"
)

// addressSet is knownAddresses from spec.md §3: it must hash and equate by
// canonical bytes, not by pointer (§9). Entries are the string encodings
// actually sent to the indexer, so mapset's value-equality set is used
// directly rather than a hand-rolled map[string]struct{} wrapper — it is
// the set implementation the rest of the example pack reaches for whenever
// it needs exactly this hash-by-value semantic.
type addressSet struct {
	set mapset.Set
}

func newAddressSet() *addressSet {
	return &addressSet{set: mapset.NewThreadUnsafeSet()}
}

func (s *addressSet) add(addr string) { s.set.Add(addr) }

func (s *addressSet) contains(addr string) bool { return s.set.Contains(addr) }

func (s *addressSet) cardinality() int { return s.set.Cardinality() }

func (s *addressSet) slice() []string {
	out := make([]string, 0, s.set.Cardinality())
	for v := range s.set.Iter() {
		out = append(out, v.(string))
	}
	return out
}

// knownAddressesForScan computes the union of a wallet's current addresses'
// native and legacy encodings, as required by updateTransactions step 4
// (spec.md §4.B): "the indexer is given the union of native and
// legacy-encoded forms; the same address in two encodings counts as two
// entries to be queried" (§9).
func knownAddressesForScan(accts []accounts.Account) (*addressSet, error) {
	s := newAddressSet()
	for _, a := range accts {
		legacy, err := a.Legacy()
		if err != nil {
			return nil, fmt.Errorf("sync: encode legacy address: %w", err)
		}
		native, err := a.Native()
		if err != nil {
			return nil, fmt.Errorf("sync: encode native address: %w", err)
		}
		s.add(legacy)
		s.add(native)
	}
	return s, nil
}
