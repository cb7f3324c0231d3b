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

// Package triedb persists the content-addressed nodes of a StorageTrie. It
// fronts an arbitrary key-value collaborator with a clean-node cache, the
// same role go-ethereum's trie.Database plays for the real MPT — including
// its choice of a fastcache.Cache for the clean-node layer.
package triedb

import (
	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethj/storagejournal/common"
)

// KeyValueStore is the minimal persistence contract a node database needs
// from its backing store. It corresponds to the "Database collaborator" of
// the specification: whatever open_storage_db(address) returns.
type KeyValueStore interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Has(key []byte) (bool, error)
	Delete(key []byte) error
}

// defaultCleanCacheSize is the size of the in-memory clean-node cache kept
// in front of the backing store, mirroring go-ethereum's trie.Database
// default clean cache allowance (scaled down — this is a per-account trie,
// not a full chain's worth of nodes).
const defaultCleanCacheSize = 4 * 1024 * 1024

// Database is a node store for a single account's StorageTrie. It is the
// object the registry hands to each lazily-opened StorageTrie.
type Database struct {
	disk  KeyValueStore
	clean *fastcache.Cache
}

// New wraps disk with a clean-node cache of the given size in bytes. A
// size of 0 selects defaultCleanCacheSize.
func New(disk KeyValueStore, cleanCacheBytes int) *Database {
	if cleanCacheBytes <= 0 {
		cleanCacheBytes = defaultCleanCacheSize
	}
	return &Database{
		disk:  disk,
		clean: fastcache.New(cleanCacheBytes),
	}
}

// Node returns the raw encoding of the node addressed by hash, consulting
// the clean cache before falling back to the backing store.
func (db *Database) Node(hash common.Hash) ([]byte, error) {
	if blob, ok := db.clean.HasGet(nil, hash[:]); ok {
		return blob, nil
	}
	blob, err := db.disk.Get(hash[:])
	if err != nil {
		return nil, err
	}
	if blob != nil {
		db.clean.Set(hash[:], blob)
	}
	return blob, nil
}

// Put stores the raw encoding of the node addressed by hash, updating the
// clean cache so a subsequent Node call in the same block is free.
func (db *Database) Put(hash common.Hash, blob []byte) error {
	db.clean.Set(hash[:], blob)
	return db.disk.Put(hash[:], blob)
}
