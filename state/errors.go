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

import "fmt"

// InvalidSnapshotError is returned by Revert when asked to roll back to a
// SnapshotId that is ahead of the journal's current position. It is fatal:
// the enclosing executor must abort the transaction, never retry.
type InvalidSnapshotError struct {
	Snapshot int
	Top      int
}

func (e *InvalidSnapshotError) Error() string {
	return fmt.Sprintf("state: invalid snapshot %d (current top is %d)", e.Snapshot, e.Top)
}

// JournalCorruptedError indicates a broken internal invariant: a non-nil
// lookahead guard slot at Commit, an index/position mismatch on pop, or a nil record
// where one was required. It always indicates an engine bug upstream of
// this package and is never recovered from.
type JournalCorruptedError struct {
	Reason string
	Index  int
}

func (e *JournalCorruptedError) Error() string {
	return fmt.Sprintf("state: journal corrupted at index %d: %s", e.Index, e.Reason)
}

// BackingStoreError wraps an error surfaced by the Database collaborator
// (a StorageTrie's node store) unchanged. Callers can still reach the
// original error via errors.Unwrap / errors.Is.
type BackingStoreError struct {
	Err error
}

func (e *BackingStoreError) Error() string {
	return fmt.Sprintf("state: backing store error: %v", e.Err)
}

func (e *BackingStoreError) Unwrap() error { return e.Err }
