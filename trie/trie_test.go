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

package trie

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ethj/storagejournal/common"
	"github.com/ethj/storagejournal/memorydb"
	"github.com/ethj/storagejournal/triedb"
)

func newTestTrie(t *testing.T) (*StorageTrie, *triedb.Database) {
	t.Helper()
	ndb := triedb.New(memorydb.New(), 0)
	tr, err := New(common.Hash{}, ndb)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr, ndb
}

func slotN(n byte) common.Hash {
	var h common.Hash
	h[31] = n
	return h
}

func TestEmptyTrieRootHash(t *testing.T) {
	tr, _ := newTestTrie(t)
	root, err := tr.RootHash()
	if err != nil {
		t.Fatal(err)
	}
	if root != EmptyRootHash {
		t.Fatalf("expected EmptyRootHash for empty trie, got %x", root)
	}
}

func TestGetAbsentSlotReturnsNil(t *testing.T) {
	tr, _ := newTestTrie(t)
	v, err := tr.Get(slotN(1))
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("expected nil for absent slot, got %x", v)
	}
}

func TestSetThenGetRoundTrips(t *testing.T) {
	tr, _ := newTestTrie(t)
	if err := tr.Set(slotN(1), []byte("hello")); err != nil {
		t.Fatal(err)
	}
	v, err := tr.Get(slotN(1))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, []byte("hello")) {
		t.Fatalf("expected %q, got %q", "hello", v)
	}
}

func TestZeroValueDeletesSlot(t *testing.T) {
	tr, _ := newTestTrie(t)
	if err := tr.Set(slotN(1), []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := tr.Set(slotN(1), nil); err != nil {
		t.Fatal(err)
	}
	v, err := tr.Get(slotN(1))
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("expected slot deleted, got %x", v)
	}
	root, err := tr.RootHash()
	if err != nil {
		t.Fatal(err)
	}
	if root != EmptyRootHash {
		t.Fatalf("expected trie empty again after deletion, got root %x", root)
	}
}

func TestManyInsertsAndDeletesCollapseBranches(t *testing.T) {
	tr, _ := newTestTrie(t)
	var slots []common.Hash
	for i := 0; i < 64; i++ {
		s := common.BytesToHash([]byte(fmt.Sprintf("slot-%d", i)))
		slots = append(slots, s)
		if err := tr.Set(s, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}
	for _, s := range slots {
		if err := tr.Set(s, nil); err != nil {
			t.Fatal(err)
		}
	}
	root, err := tr.RootHash()
	if err != nil {
		t.Fatal(err)
	}
	if root != EmptyRootHash {
		t.Fatalf("expected trie empty after deleting every slot, got %x", root)
	}
}

func TestRootHashSurvivesReopenFromDatabase(t *testing.T) {
	ndb := triedb.New(memorydb.New(), 0)
	tr, err := New(common.Hash{}, ndb)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Set(slotN(1), []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	root, err := tr.RootHash()
	if err != nil {
		t.Fatal(err)
	}

	reopened, err := New(root, ndb)
	if err != nil {
		t.Fatal(err)
	}
	v, err := reopened.Get(slotN(1))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, []byte("persisted")) {
		t.Fatalf("expected value to survive reopen, got %q", v)
	}
}

func TestRootHashIsStableAcrossRepeatedCalls(t *testing.T) {
	tr, _ := newTestTrie(t)
	for i := 0; i < 16; i++ {
		if err := tr.Set(slotN(byte(i)), []byte{byte(i), byte(i + 1)}); err != nil {
			t.Fatal(err)
		}
	}
	root1, err := tr.RootHash()
	if err != nil {
		t.Fatal(err)
	}
	root2, err := tr.RootHash()
	if err != nil {
		t.Fatal(err)
	}
	if root1 != root2 {
		t.Fatalf("expected repeated RootHash calls on an unchanged trie to agree: %x != %x", root1, root2)
	}
}
