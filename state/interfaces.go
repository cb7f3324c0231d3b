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

import (
	"github.com/ethj/storagejournal/common"
	"github.com/ethj/storagejournal/triedb"
)

// Database opens the per-account key-value collaborator a StorageTrie
// persists its nodes into. A single account is always handed back the same
// underlying store across calls within a journal's lifetime.
type Database interface {
	OpenStorageDB(address common.Address) (triedb.KeyValueStore, error)
}

// StateProvider is the account-layer collaborator the journal consults and
// updates around a Commit: whether an account still exists at commit time,
// its last-known storage root, and where to deliver the new one.
type StateProvider interface {
	// AccountExists reports whether address is a live account. Commit does
	// not propagate a storage root for an address that no longer exists.
	AccountExists(address common.Address) bool
	// StorageRootOf returns the storage root an account's trie should be
	// opened against, or the zero hash for a fresh account.
	StorageRootOf(address common.Address) common.Hash
	// UpdateStorageRoot installs a newly computed storage root for address.
	UpdateStorageRoot(address common.Address, root common.Hash) error
}
