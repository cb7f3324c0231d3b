// Copyright 2024 The storagejournal Authors
// This file is part of the storagejournal library.
//
// The storagejournal library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The storagejournal library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the storagejournal library. If not, see <http://www.gnu.org/licenses/>.

// Package state implements the transactional per-account storage journal:
// an in-memory, snapshot-capable, copy-on-write overlay over the
// content-addressed storage tries of the trie package.
package state

import (
	"github.com/ethj/storagejournal/common"
	"github.com/holiman/uint256"
)

// StorageKey identifies a single (account, slot) storage location. Two
// keys are equal iff both components are equal; since both Address and
// Hash are fixed-size byte arrays, StorageKey is itself comparable and can
// be used directly as a Go map key — the manual address/slot hash-folding
// described for less fortunate host languages isn't needed here (see
// DESIGN.md).
type StorageKey struct {
	Address common.Address
	Slot    common.Hash
}

// SlotFromUint256 canonicalizes a 256-bit EVM word into the big-endian
// Hash representation used as a trie key and as the Slot half of a
// StorageKey. Journal.Get and Journal.Set take slots as *uint256.Int,
// matching how 256-bit EVM words are represented across the call stack,
// and canonicalize through this function before touching the index or a
// StorageTrie.
func SlotFromUint256(v *uint256.Int) common.Hash {
	return common.Hash(v.Bytes32())
}
