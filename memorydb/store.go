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

package memorydb

import (
	"sync"

	"github.com/ethj/storagejournal/common"
	"github.com/ethj/storagejournal/log"
	"github.com/ethj/storagejournal/triedb"
)

// namespaced prefixes every key with an account address, letting many
// accounts' trie nodes share one backing Database without collisions.
type namespaced struct {
	prefix []byte
	db     *Database
}

func (n *namespaced) key(k []byte) []byte {
	buf := make([]byte, len(n.prefix)+len(k))
	copy(buf, n.prefix)
	copy(buf[len(n.prefix):], k)
	return buf
}

func (n *namespaced) Has(k []byte) (bool, error)     { return n.db.Has(n.key(k)) }
func (n *namespaced) Get(k []byte) ([]byte, error)   { return n.db.Get(n.key(k)) }
func (n *namespaced) Put(k, v []byte) error          { return n.db.Put(n.key(k), v) }
func (n *namespaced) Delete(k []byte) error          { return n.db.Delete(n.key(k)) }

// Store is a state.Database backed by a single in-memory Database, handing
// out a namespaced, idempotent view of it per account: calling
// OpenStorageDB twice for the same address returns collaborators that read
// and write the same underlying keys.
type Store struct {
	mu     sync.Mutex
	db     *Database
	stores map[common.Address]*namespaced
}

// NewStore creates a Store over a fresh, empty in-memory Database.
func NewStore() *Store {
	return &Store{
		db:     New(),
		stores: make(map[common.Address]*namespaced),
	}
}

// OpenStorageDB returns address's node store, namespaced within the shared
// backing Database. Repeated calls for the same address are idempotent.
func (s *Store) OpenStorageDB(address common.Address) (triedb.KeyValueStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.stores[address]; ok {
		return ns, nil
	}
	log.Debug("opening storage db", "address", address)
	ns := &namespaced{prefix: append([]byte(nil), address.Bytes()...), db: s.db}
	s.stores[address] = ns
	return ns, nil
}
