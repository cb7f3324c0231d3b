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

package state

// ChangeKind tags a ChangeRecord as either a read-through memoization or a
// guest write. It is a plain sum type, not an interface with per-kind
// methods: the revert preservation rule needs to inspect the tag directly
// without virtual dispatch.
type ChangeKind uint8

const (
	// Materialized marks a record created by reading a slot through to its
	// StorageTrie for the first time.
	Materialized ChangeKind = iota
	// Updated marks a record created by a guest write.
	Updated
)

func (k ChangeKind) String() string {
	switch k {
	case Materialized:
		return "materialized"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// ChangeRecord is one immutable entry in the journal's change arena.
type ChangeRecord struct {
	Kind  ChangeKind
	Key   StorageKey
	Value []byte
}
