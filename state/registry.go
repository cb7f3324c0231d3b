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
	"github.com/ethj/storagejournal/trie"
	"github.com/ethj/storagejournal/triedb"
)

// registry lazily opens and caches one StorageTrie per address touched by a
// journal, so a hot account's trie is only ever opened once per
// transaction regardless of how many slots on it are read or written.
type registry struct {
	db       Database
	provider StateProvider
	tries    map[common.Address]*trie.StorageTrie
}

func newRegistry(db Database, provider StateProvider) *registry {
	return &registry{
		db:       db,
		provider: provider,
		tries:    make(map[common.Address]*trie.StorageTrie),
	}
}

// trieOf returns the StorageTrie for address, opening it against the
// account's current storage root on first use.
func (r *registry) trieOf(address common.Address) (*trie.StorageTrie, error) {
	if t, ok := r.tries[address]; ok {
		return t, nil
	}
	kv, err := r.db.OpenStorageDB(address)
	if err != nil {
		return nil, &BackingStoreError{Err: err}
	}
	ndb := triedb.New(kv, 0)
	root := r.provider.StorageRootOf(address)
	t, err := trie.New(root, ndb)
	if err != nil {
		return nil, &BackingStoreError{Err: err}
	}
	r.tries[address] = t
	return t, nil
}

// reset discards every opened trie, so the next trieOf call for any
// address reopens against its (now possibly changed) current root.
func (r *registry) reset() {
	r.tries = make(map[common.Address]*trie.StorageTrie)
}
