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

package triedb_test

import (
	"bytes"
	"testing"

	"github.com/ethj/storagejournal/common"
	"github.com/ethj/storagejournal/memorydb"
	"github.com/ethj/storagejournal/triedb"
)

func TestNodePopulatesCleanCacheFromDisk(t *testing.T) {
	disk := memorydb.New()
	hash := common.BytesToHash([]byte("node-hash"))
	if err := disk.Put(hash.Bytes(), []byte("encoded-node")); err != nil {
		t.Fatal(err)
	}

	db := triedb.New(disk, 0)
	blob, err := db.Node(hash)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(blob, []byte("encoded-node")) {
		t.Fatalf("expected encoded-node, got %q", blob)
	}

	// Remove from disk; the clean cache should still serve it.
	if err := disk.Delete(hash.Bytes()); err != nil {
		t.Fatal(err)
	}
	blob, err = db.Node(hash)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(blob, []byte("encoded-node")) {
		t.Fatalf("expected cached copy to survive disk deletion, got %q", blob)
	}
}

func TestPutWritesThroughToDisk(t *testing.T) {
	disk := memorydb.New()
	db := triedb.New(disk, 0)
	hash := common.BytesToHash([]byte("another-hash"))

	if err := db.Put(hash, []byte("payload")); err != nil {
		t.Fatal(err)
	}
	blob, err := disk.Get(hash.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(blob, []byte("payload")) {
		t.Fatalf("expected payload written through to disk, got %q", blob)
	}
}
