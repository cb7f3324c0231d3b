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

// Package memorydb implements an ephemeral, in-memory key-value store,
// following the same map-backed design as go-ethereum's ethdb/memorydb.
package memorydb

import (
	"errors"
	"sync"
)

// ErrMemorydbClosed is returned by any operation against a Database after
// Close has been called on it.
var ErrMemorydbClosed = errors.New("memorydb: database closed")

// Database is an ephemeral key-value store. Like go-ethereum's memorydb, it
// exists purely for tests and small tools: every Database is empty at
// process start and discarded at process end.
type Database struct {
	lock sync.RWMutex
	db   map[string][]byte
}

// New returns a newly allocated, empty Database.
func New() *Database {
	return &Database{db: make(map[string][]byte)}
}

// Has reports whether key is present.
func (d *Database) Has(key []byte) (bool, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.db == nil {
		return false, ErrMemorydbClosed
	}
	_, ok := d.db[string(key)]
	return ok, nil
}

// Get returns the value stored under key, or nil if key is absent.
func (d *Database) Get(key []byte) ([]byte, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.db == nil {
		return nil, ErrMemorydbClosed
	}
	if v, ok := d.db[string(key)]; ok {
		cpy := make([]byte, len(v))
		copy(cpy, v)
		return cpy, nil
	}
	return nil, nil
}

// Put stores value under key, replacing any prior value.
func (d *Database) Put(key, value []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.db == nil {
		return ErrMemorydbClosed
	}
	cpy := make([]byte, len(value))
	copy(cpy, value)
	d.db[string(key)] = cpy
	return nil
}

// Delete removes key, if present.
func (d *Database) Delete(key []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.db == nil {
		return ErrMemorydbClosed
	}
	delete(d.db, string(key))
	return nil
}

// Len returns the number of keys currently stored.
func (d *Database) Len() int {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return len(d.db)
}

// Close renders the database unusable; every subsequent operation fails
// with ErrMemorydbClosed.
func (d *Database) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.db = nil
	return nil
}
