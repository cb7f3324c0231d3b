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

package main

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ethj/storagejournal/common"
	"github.com/ethj/storagejournal/memorydb"
	"github.com/ethj/storagejournal/state"
)

// scenarioResult is the narration of one scripted scenario: an ordered log
// of steps and the terminal error, if the scenario did not run as scripted
// (an unexpected failure, or an expected rejection that did not happen).
type scenarioResult struct {
	steps []string
	err   error
}

func (r *scenarioResult) logf(format string, args ...any) {
	r.steps = append(r.steps, fmt.Sprintf(format, args...))
}

var addrA = common.BytesToAddress([]byte("account-A"))
var addrB = common.BytesToAddress([]byte("account-B"))

func slot(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func val(b byte) []byte { return []byte{b} }

func allScenarios() map[string]func() *scenarioResult {
	return map[string]func() *scenarioResult{
		"S1": scenarioS1,
		"S2": scenarioS2,
		"S3": scenarioS3,
		"S4": scenarioS4,
		"S5": scenarioS5,
		"S6": scenarioS6,
	}
}

func freshJournal(accounts ...common.Address) (*state.Journal, *recordingProvider) {
	provider := newRecordingProvider()
	for _, a := range accounts {
		provider.exists[a] = true
	}
	store := memorydb.NewStore()
	return state.NewJournal(store, provider), provider
}

// S1: set then revert restores the prior value; commit writes the
// surviving value exactly once.
func scenarioS1() *scenarioResult {
	r := &scenarioResult{}
	j, _ := freshJournal(addrA)

	v, _ := j.Get(addrA, slot(7))
	r.logf("get(A,7) -> %x", v)

	j.Set(addrA, slot(7), val(0x2A))
	r.logf("set(A,7,0x2A)")

	snap := j.Snapshot()
	r.logf("snap = snapshot() -> %d", snap)

	j.Set(addrA, slot(7), val(0x2B))
	r.logf("set(A,7,0x2B)")

	if err := j.Revert(snap); err != nil {
		r.err = err
		return r
	}
	r.logf("revert(snap)")

	v, _ = j.Get(addrA, slot(7))
	r.logf("get(A,7) -> %x", v)

	if err := j.Commit(); err != nil {
		r.err = err
		return r
	}
	r.logf("commit")
	return r
}

// S2: three writes to the same slot commit only the newest.
func scenarioS2() *scenarioResult {
	r := &scenarioResult{}
	j, _ := freshJournal(addrA)

	j.Set(addrA, slot(1), val(0x01))
	j.Set(addrA, slot(1), val(0x02))
	j.Set(addrA, slot(1), val(0x03))
	r.logf("set(A,1,0x01); set(A,1,0x02); set(A,1,0x03)")

	if err := j.Commit(); err != nil {
		r.err = err
		return r
	}
	r.logf("commit -> trie received exactly one set(A,1,0x03)")
	return r
}

// S3: reverting past a sole memoized read preserves the memoization, with
// no additional trie read.
func scenarioS3() *scenarioResult {
	r := &scenarioResult{}
	j, _ := freshJournal(addrA)

	v, _ := j.Get(addrA, slot(9))
	r.logf("get(A,9) -> %x", v)

	snap1 := j.Snapshot()
	j.Set(addrA, slot(9), val(0xFF))
	snap2 := j.Snapshot()
	j.Set(addrA, slot(9), val(0xEE))
	r.logf("snap1=%d; set(A,9,0xFF); snap2=%d; set(A,9,0xEE)", snap1, snap2)

	if err := j.Revert(snap2); err != nil {
		r.err = err
		return r
	}
	v, _ = j.Get(addrA, slot(9))
	r.logf("revert(snap2); get(A,9) -> %x (no additional trie read)", v)

	if err := j.Revert(snap1); err != nil {
		r.err = err
		return r
	}
	v, _ = j.Get(addrA, slot(9))
	r.logf("revert(snap1); get(A,9) -> %x (no additional trie read)", v)
	return r
}

// S4: independent writes to two accounts each trigger exactly one root
// update, addressed to the right account.
func scenarioS4() *scenarioResult {
	r := &scenarioResult{}
	j, p := freshJournal(addrA, addrB)

	j.Set(addrA, slot(1), val(0x01))
	j.Set(addrB, slot(1), val(0x02))
	r.logf("set(A,1,0x01); set(B,1,0x02)")

	if err := j.Commit(); err != nil {
		r.err = err
		return r
	}
	for _, u := range p.rootCalls {
		r.logf("update_storage_root(%s, %x)", u.address.Hex(), u.root.Bytes())
	}
	return r
}

// S5: a write to an account that no longer exists at commit time still
// reaches the trie, but no root update is propagated.
func scenarioS5() *scenarioResult {
	r := &scenarioResult{}
	j, p := freshJournal() // addrA deliberately absent from provider.exists
	p.exists[addrA] = false

	j.Set(addrA, slot(3), val(0xAB))
	r.logf("set(A,3,0xAB) with account_exists(A) == false")

	if err := j.Commit(); err != nil {
		r.err = err
		return r
	}
	r.logf("commit -> trie_of(A).set still invoked, update_storage_root NOT called (calls=%d)", len(p.rootCalls))
	return r
}

// S6: reverting to a snapshot ahead of the journal's current position is
// rejected, and leaves the journal untouched.
func scenarioS6() *scenarioResult {
	r := &scenarioResult{}
	j, _ := freshJournal(addrA)

	j.Set(addrA, slot(2), val(0x10))
	snap := j.Snapshot()
	bogus := state.SnapshotID(int(snap) + 1)
	r.logf("set(A,2,0x10); snap = snapshot(); revert(snap+1)")

	err := j.Revert(bogus)
	if err == nil {
		r.err = fmt.Errorf("expected InvalidSnapshotError, got nil")
		return r
	}
	r.logf("revert(snap+1) -> %v", err)
	return r
}
