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
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/ethj/storagejournal/common"
	"github.com/ethj/storagejournal/memorydb"
)

type fakeProvider struct {
	exists map[common.Address]bool
	roots  map[common.Address]common.Hash
	calls  []common.Address
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{exists: make(map[common.Address]bool), roots: make(map[common.Address]common.Hash)}
}

func (p *fakeProvider) AccountExists(a common.Address) bool        { return p.exists[a] }
func (p *fakeProvider) StorageRootOf(a common.Address) common.Hash { return p.roots[a] }
func (p *fakeProvider) UpdateStorageRoot(a common.Address, root common.Hash) error {
	p.roots[a] = root
	p.calls = append(p.calls, a)
	return nil
}

func testAddr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func testSlot(b byte) *uint256.Int {
	return uint256.NewInt(uint64(b))
}

func newTestJournal() (*Journal, *fakeProvider) {
	p := newFakeProvider()
	db := memorydb.NewStore()
	return NewJournal(db, p), p
}

// S1: a reverted write is undone, and commit applies only the value that
// survives the revert.
func TestJournalRevertRestoresValue(t *testing.T) {
	j, p := newTestJournal()
	addr := testAddr(1)
	p.exists[addr] = true

	if v, err := j.Get(addr, testSlot(7)); err != nil || v != nil {
		t.Fatalf("expected empty slot, got %x (err %v)", v, err)
	}
	if err := j.Set(addr, testSlot(7), []byte{0x2A}); err != nil {
		t.Fatal(err)
	}
	snap := j.Snapshot()
	if err := j.Set(addr, testSlot(7), []byte{0x2B}); err != nil {
		t.Fatal(err)
	}
	if err := j.Revert(snap); err != nil {
		t.Fatal(err)
	}
	v, err := j.Get(addr, testSlot(7))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, []byte{0x2A}) {
		t.Fatalf("expected 0x2A after revert, got %x", v)
	}
	if err := j.Commit(); err != nil {
		t.Fatal(err)
	}
	got, err := j.Get(addr, testSlot(7))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x2A}) {
		t.Fatalf("expected committed trie value 0x2A, got %x", got)
	}
}

// S2: three writes to the same slot commit only the newest.
func TestJournalCommitKeepsNewestWrite(t *testing.T) {
	j, p := newTestJournal()
	addr := testAddr(1)
	p.exists[addr] = true

	for _, v := range [][]byte{{0x01}, {0x02}, {0x03}} {
		if err := j.Set(addr, testSlot(1), v); err != nil {
			t.Fatal(err)
		}
	}
	if err := j.Commit(); err != nil {
		t.Fatal(err)
	}
	v, err := j.Get(addr, testSlot(1))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, []byte{0x03}) {
		t.Fatalf("expected newest write 0x03 to survive, got %x", v)
	}
}

// S3: reverting past a sole memoized read preserves it — observable here
// as the read returning the value current at each snapshot: 0xFF after
// revert(snap2), then the original empty value after revert(snap1).
func TestJournalRevertPreservesSoleMaterializedRead(t *testing.T) {
	j, p := newTestJournal()
	addr := testAddr(1)
	p.exists[addr] = true

	if _, err := j.Get(addr, testSlot(9)); err != nil {
		t.Fatal(err)
	}
	snap1 := j.Snapshot()
	if err := j.Set(addr, testSlot(9), []byte{0xFF}); err != nil {
		t.Fatal(err)
	}
	snap2 := j.Snapshot()
	if err := j.Set(addr, testSlot(9), []byte{0xEE}); err != nil {
		t.Fatal(err)
	}

	if err := j.Revert(snap2); err != nil {
		t.Fatal(err)
	}
	v, err := j.Get(addr, testSlot(9))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, []byte{0xFF}) {
		t.Fatalf("expected 0xFF after revert(snap2), got %x", v)
	}

	if err := j.Revert(snap1); err != nil {
		t.Fatal(err)
	}
	v, err = j.Get(addr, testSlot(9))
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("expected empty slot after revert(snap1), got %x", v)
	}
}

// S4: independent writes to two accounts each trigger exactly one root
// update addressed to the right account.
func TestJournalCommitUpdatesEachTouchedAccountOnce(t *testing.T) {
	j, p := newTestJournal()
	a, b := testAddr(1), testAddr(2)
	p.exists[a], p.exists[b] = true, true

	if err := j.Set(a, testSlot(1), []byte{0x01}); err != nil {
		t.Fatal(err)
	}
	if err := j.Set(b, testSlot(1), []byte{0x02}); err != nil {
		t.Fatal(err)
	}
	if err := j.Commit(); err != nil {
		t.Fatal(err)
	}
	count := map[common.Address]int{}
	for _, addr := range p.calls {
		count[addr]++
	}
	if count[a] != 1 || count[b] != 1 {
		t.Fatalf("expected exactly one root update per account, got %v", count)
	}
}

// S5: a write to an account absent at commit time still reaches its trie,
// but no root update is propagated for it.
func TestJournalCommitSkipsRootUpdateForAbsentAccount(t *testing.T) {
	j, p := newTestJournal()
	addr := testAddr(1)
	p.exists[addr] = false

	if err := j.Set(addr, testSlot(3), []byte{0xAB}); err != nil {
		t.Fatal(err)
	}
	if err := j.Commit(); err != nil {
		t.Fatal(err)
	}
	if len(p.calls) != 0 {
		t.Fatalf("expected no root update calls, got %v", p.calls)
	}
}

// S6: reverting to a snapshot ahead of the journal's current position is
// rejected and leaves the journal untouched.
func TestJournalRevertRejectsFutureSnapshot(t *testing.T) {
	j, p := newTestJournal()
	addr := testAddr(1)
	p.exists[addr] = true

	if err := j.Set(addr, testSlot(2), []byte{0x10}); err != nil {
		t.Fatal(err)
	}
	snap := j.Snapshot()
	bogus := SnapshotID(int(snap) + 1)

	err := j.Revert(bogus)
	var invalid *InvalidSnapshotError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSnapshotError, got %v", err)
	}
	v, err := j.Get(addr, testSlot(2))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, []byte{0x10}) {
		t.Fatalf("expected state unchanged after rejected revert, got %x", v)
	}
}

func TestJournalResetClearsBufferedWrites(t *testing.T) {
	j, p := newTestJournal()
	addr := testAddr(1)
	p.exists[addr] = true

	if err := j.Set(addr, testSlot(4), []byte{0x99}); err != nil {
		t.Fatal(err)
	}
	j.Reset()
	if err := j.Commit(); err != nil {
		t.Fatal(err)
	}
	if len(p.calls) != 0 {
		t.Fatalf("expected reset to discard buffered writes, got calls %v", p.calls)
	}
}

func TestJournalArenaGrowsPastInitialCapacity(t *testing.T) {
	j, p := newTestJournal()
	addr := testAddr(1)
	p.exists[addr] = true

	for i := 0; i < initialCapacity*3; i++ {
		slot := testSlot(byte(i % 256))
		if err := j.Set(addr, slot, []byte{byte(i % 256)}); err != nil {
			t.Fatal(err)
		}
	}
	if len(j.changes) <= initialCapacity {
		t.Fatalf("expected arena to have grown past %d, got %d", initialCapacity, len(j.changes))
	}
	if err := j.Commit(); err != nil {
		t.Fatal(err)
	}
}
