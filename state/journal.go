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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/holiman/uint256"

	"github.com/ethj/storagejournal/common"
)

// initialCapacity is the change arena's starting size. It is oversized for
// a typical single transaction deliberately: growth is rare in practice and
// the doubling rule keeps the amortized cost of the rare case low.
const initialCapacity = 1024

// SnapshotID names a position in the journal's change arena that Revert can
// later roll back to. It is the index of the most recent record at the time
// of the snapshot; -1 identifies the journal's initial, empty state.
type SnapshotID int

// Journal is a transactional, copy-on-write overlay over a set of
// per-account storage tries. Reads are memoized the first time they fall
// through to a trie; writes are buffered until Commit. Both kinds of entry
// live in a single append-only arena so Snapshot/Revert can undo either
// uniformly by position. A Journal is not safe for concurrent use.
type Journal struct {
	changes  []*ChangeRecord
	top      int
	index    map[StorageKey][]int
	registry *registry
	provider StateProvider
}

// NewJournal creates an empty journal. db opens the per-account node stores
// a StorageTrie persists into; provider supplies and receives account-layer
// storage roots around Commit.
func NewJournal(db Database, provider StateProvider) *Journal {
	return &Journal{
		changes:  make([]*ChangeRecord, initialCapacity),
		top:      -1,
		index:    make(map[StorageKey][]int),
		registry: newRegistry(db, provider),
		provider: provider,
	}
}

// ensureCapacity doubles the arena whenever fewer than two slots remain
// ahead of top, so the lookahead guard slot at top+1 is always available
// after the next append.
func (j *Journal) ensureCapacity() {
	if j.top < len(j.changes)-2 {
		return
	}
	grown := make([]*ChangeRecord, len(j.changes)*2)
	copy(grown, j.changes)
	j.changes = grown
}

func (j *Journal) appendRecord(rec *ChangeRecord) int {
	j.ensureCapacity()
	j.top++
	j.changes[j.top] = rec
	j.index[rec.Key] = append(j.index[rec.Key], j.top)
	return j.top
}

// Get returns the current value at (address, slot): the most recent
// buffered write if one exists, the memoized read if one has already been
// materialized, or a fresh read through to the account's StorageTrie
// (itself then memoized).
func (j *Journal) Get(address common.Address, slot *uint256.Int) ([]byte, error) {
	hash := SlotFromUint256(slot)
	key := StorageKey{Address: address, Slot: hash}
	if stack := j.index[key]; len(stack) > 0 {
		idx := stack[len(stack)-1]
		rec := j.changes[idx]
		if rec == nil {
			return nil, &JournalCorruptedError{Reason: "indexed record is nil", Index: idx}
		}
		return rec.Value, nil
	}
	t, err := j.registry.trieOf(address)
	if err != nil {
		return nil, err
	}
	value, err := t.Get(hash)
	if err != nil {
		return nil, &BackingStoreError{Err: err}
	}
	j.appendRecord(&ChangeRecord{Kind: Materialized, Key: key, Value: value})
	return value, nil
}

// Set buffers a write of value to (address, slot). The write is not visible
// outside the journal until Commit.
func (j *Journal) Set(address common.Address, slot *uint256.Int, value []byte) error {
	key := StorageKey{Address: address, Slot: SlotFromUint256(slot)}
	j.appendRecord(&ChangeRecord{Kind: Updated, Key: key, Value: value})
	return nil
}

// Snapshot returns an identifier for the journal's current position,
// suitable for a later Revert.
func (j *Journal) Snapshot() SnapshotID {
	return SnapshotID(j.top)
}

// Revert undoes every change recorded after snap. A sole memoized read for
// a key (one with no other entries on its index stack) is preserved across
// the revert rather than discarded, since it reflects a real trie read that
// remains valid; every other kind of entry is simply popped. Preserved
// entries are re-appended onto the truncated arena in the same
// newest-to-oldest order they were encountered while unwinding.
func (j *Journal) Revert(snap SnapshotID) error {
	target := int(snap)
	if target > j.top {
		return &InvalidSnapshotError{Snapshot: target, Top: j.top}
	}
	var preserved []*ChangeRecord
	for i := j.top; i > target; i-- {
		rec := j.changes[i]
		if rec == nil {
			return &JournalCorruptedError{Reason: "nil record during revert", Index: i}
		}
		stack := j.index[rec.Key]
		if len(stack) == 0 || stack[len(stack)-1] != i {
			return &JournalCorruptedError{Reason: "index/position mismatch during revert", Index: i}
		}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			delete(j.index, rec.Key)
		} else {
			j.index[rec.Key] = stack
		}
		j.changes[i] = nil
		if rec.Kind == Materialized && len(stack) == 0 {
			preserved = append(preserved, rec)
		}
	}
	j.top = target
	for _, rec := range preserved {
		j.appendRecord(&ChangeRecord{Kind: rec.Kind, Key: rec.Key, Value: rec.Value})
	}
	return nil
}

// Commit applies every buffered write to its account's StorageTrie —
// newest write per key only, older shadowed writes are skipped — then
// recomputes and propagates the new storage root for every touched account
// that still exists, and finally resets the journal to empty.
func (j *Journal) Commit() error {
	if j.top+1 < len(j.changes) && j.changes[j.top+1] != nil {
		return &JournalCorruptedError{Reason: "lookahead guard slot is not nil", Index: j.top + 1}
	}
	seen := mapset.NewThreadUnsafeSet[StorageKey]()
	touched := mapset.NewThreadUnsafeSet[common.Address]()
	for i := j.top; i >= 0; i-- {
		rec := j.changes[i]
		if rec == nil {
			return &JournalCorruptedError{Reason: "nil record during commit", Index: i}
		}
		if rec.Kind != Updated {
			continue
		}
		if seen.Contains(rec.Key) {
			continue
		}
		seen.Add(rec.Key)
		touched.Add(rec.Key.Address)
		t, err := j.registry.trieOf(rec.Key.Address)
		if err != nil {
			return err
		}
		if err := t.Set(rec.Key.Slot, rec.Value); err != nil {
			return &BackingStoreError{Err: err}
		}
	}
	for _, address := range touched.ToSlice() {
		if !j.provider.AccountExists(address) {
			continue
		}
		t, err := j.registry.trieOf(address)
		if err != nil {
			return err
		}
		root, err := t.RootHash()
		if err != nil {
			return &BackingStoreError{Err: err}
		}
		if err := j.provider.UpdateStorageRoot(address, root); err != nil {
			return err
		}
	}
	j.reset()
	return nil
}

// Reset discards every buffered read and write without committing them,
// returning the journal to its initial empty state.
func (j *Journal) Reset() {
	j.reset()
}

func (j *Journal) reset() {
	j.changes = make([]*ChangeRecord, initialCapacity)
	j.top = -1
	j.index = make(map[StorageKey][]int)
	j.registry.reset()
}

// StorageRoot returns address's current storage root as reflected by its
// StorageTrie, including any writes already applied to that trie by a
// prior Commit but not yet reflected by the StateProvider.
func (j *Journal) StorageRoot(address common.Address) (common.Hash, error) {
	t, err := j.registry.trieOf(address)
	if err != nil {
		return common.Hash{}, err
	}
	root, err := t.RootHash()
	if err != nil {
		return common.Hash{}, &BackingStoreError{Err: err}
	}
	return root, nil
}
